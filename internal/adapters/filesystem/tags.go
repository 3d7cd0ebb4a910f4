package filesystem

import (
	"fmt"

	"atelier/internal/application"
	"atelier/internal/domain"
)

// AddAssetTag adds a tag to one asset and persists it.
func (r *Repository) AddAssetTag(assetID, tag string) error {
	return r.mutateAsset(assetID, func(a *domain.AssetRecord) bool {
		return a.AddTag(tag)
	})
}

// RemoveAssetTag removes a tag from one asset and persists it.
func (r *Repository) RemoveAssetTag(assetID, tag string) error {
	return r.mutateAsset(assetID, func(a *domain.AssetRecord) bool {
		return a.RemoveTag(tag)
	})
}

// mutateAsset applies change to a clone of the asset and persists it
// when the change reports a mutation.
func (r *Repository) mutateAsset(assetID string, change func(*domain.AssetRecord) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	asset, ok := r.assets[assetID]
	if !ok {
		return fmt.Errorf("asset %s: %w", assetID, application.ErrNotFound)
	}
	next := asset.Clone()
	if !change(next) {
		return nil
	}
	if err := r.writeAssetDocument(next); err != nil {
		return err
	}
	r.assets[assetID] = next
	return r.writeCacheLocked()
}

// AddFolderTag adds a tag to one folder and persists the library.
func (r *Repository) AddFolderTag(folderID, tag string) error {
	return r.mutateFolder(folderID, func(f *domain.FolderNode) bool {
		return f.AddTag(tag)
	})
}

// RemoveFolderTag removes a tag from one folder and persists the
// library.
func (r *Repository) RemoveFolderTag(folderID, tag string) error {
	return r.mutateFolder(folderID, func(f *domain.FolderNode) bool {
		return f.RemoveTag(tag)
	})
}

func (r *Repository) mutateFolder(folderID string, change func(*domain.FolderNode) bool) error {
	return r.updateLibrary(func(lib *domain.LibraryMetadata) error {
		folder := lib.FindFolder(folderID)
		if folder == nil {
			return fmt.Errorf("folder %s: %w", folderID, domain.ErrFolderNotFound)
		}
		change(folder)
		return nil
	})
}

// RenameTag renames a tag across every asset and every folder in the
// tree, preserving each tag's position. Assets are saved in one batch.
func (r *Repository) RenameTag(oldName, newName string) error {
	if err := application.ValidateName("newName", newName); err != nil {
		return err
	}
	return r.bulkTagChange(
		func(a *domain.AssetRecord) bool { return a.RenameTag(oldName, newName) },
		func(f *domain.FolderNode) bool { return f.RenameTag(oldName, newName) },
	)
}

// DeleteTag removes a tag from every asset and every folder in the
// tree. Assets are saved in one batch.
func (r *Repository) DeleteTag(name string) error {
	return r.bulkTagChange(
		func(a *domain.AssetRecord) bool { return a.RemoveTag(name) },
		func(f *domain.FolderNode) bool { return f.RemoveTag(name) },
	)
}

func (r *Repository) bulkTagChange(changeAsset func(*domain.AssetRecord) bool, changeFolder func(*domain.FolderNode) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []*domain.AssetRecord
	for _, asset := range r.assets {
		next := asset.Clone()
		if changeAsset(next) {
			changed = append(changed, next)
		}
	}
	if len(changed) > 0 {
		if err := r.saveAssetsLocked(changed); err != nil {
			return err
		}
	}

	return r.updateLibraryLocked(func(lib *domain.LibraryMetadata) error {
		lib.Walk(func(node, _ *domain.FolderNode) bool {
			changeFolder(node)
			return true
		})
		return nil
	})
}
