package filesystem

import (
	"fmt"
	"strings"

	"atelier/internal/application"
	"atelier/internal/domain"
)

// updateLibrary runs mutate against a clone of the live tree, persists
// the clone and swaps it in. A validation or persist failure leaves
// the live tree untouched.
func (r *Repository) updateLibrary(mutate func(*domain.LibraryMetadata) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.updateLibraryLocked(mutate)
}

func (r *Repository) updateLibraryLocked(mutate func(*domain.LibraryMetadata) error) error {
	next := r.library.Clone()
	if err := mutate(next); err != nil {
		return err
	}
	if err := r.writeLibraryLocked(next); err != nil {
		return err
	}
	r.library = next
	return r.writeCacheLocked()
}

// CreateFolder creates a plain folder under the given parent, or at
// the root when parentID is empty. Empty names and non-container
// parents are rejected without mutating anything.
func (r *Repository) CreateFolder(parentID, name, description string) (*domain.FolderNode, error) {
	if err := application.ValidateName("name", name); err != nil {
		return nil, err
	}
	folder := domain.NewFolder(strings.TrimSpace(name), description)
	err := r.updateLibrary(func(lib *domain.LibraryMetadata) error {
		return lib.InsertFolder(parentID, folder)
	})
	if err != nil {
		return nil, err
	}
	return folder, nil
}

// MoveFolder relocates a folder under a new parent (or to the root).
// Moves into a non-container destination, into the folder itself or
// into one of its own descendants fail without mutating anything.
func (r *Repository) MoveFolder(folderID, newParentID string) error {
	return r.updateLibrary(func(lib *domain.LibraryMetadata) error {
		return lib.MoveFolder(folderID, newParentID)
	})
}

// ReorderFolder changes sibling order within a parent (or at the
// root). The index is clamped to the valid range.
func (r *Repository) ReorderFolder(parentID, folderID string, newIndex int) error {
	return r.updateLibrary(func(lib *domain.LibraryMetadata) error {
		return lib.ReorderFolder(parentID, folderID, newIndex)
	})
}

// DeleteFolder removes the folder and its whole subtree from the
// library. Every asset pointing at any folder in the subtree is
// soft-deleted first in one batched save; cached thumbnails for the
// subtree are removed best-effort with failures logged.
func (r *Repository) DeleteFolder(folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.library.FindFolder(folderID)
	if node == nil {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrFolderNotFound)
	}
	subtreeIDs := domain.CollectIDs(node)
	inSubtree := make(map[string]bool, len(subtreeIDs))
	for _, id := range subtreeIDs {
		inSubtree[id] = true
	}

	var doomed []*domain.AssetRecord
	for _, asset := range r.assets {
		if asset.FolderID != "" && inSubtree[asset.FolderID] && !asset.Deleted {
			c := asset.Clone()
			c.MarkDeleted()
			doomed = append(doomed, c)
		}
	}
	if len(doomed) > 0 {
		if err := r.saveAssetsLocked(doomed); err != nil {
			return fmt.Errorf("failed to soft-delete folder assets: %w", err)
		}
	}

	for _, id := range subtreeIDs {
		if err := r.removeFolderThumbnailLocked(id); err != nil {
			r.logger.Warn("failed to remove folder thumbnail", "folder", id, "error", err)
		}
	}

	return r.updateLibraryLocked(func(lib *domain.LibraryMetadata) error {
		if _, ok := lib.RemoveSubtree(folderID); !ok {
			return fmt.Errorf("folder %s: %w", folderID, domain.ErrFolderNotFound)
		}
		return nil
	})
}
