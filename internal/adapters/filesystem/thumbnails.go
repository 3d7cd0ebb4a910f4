package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"atelier/internal/domain"
)

// Folder thumbnails live under <root>/thumbnails/<folderID><ext>. The
// repository only stores and serves the files; the external downloader
// produces them.

// SetFolderThumbnail copies a local image into the folder's thumbnail
// slot, replacing any previous one.
func (r *Repository) SetFolderThumbnail(folderID, localImagePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.library.FindFolder(folderID) == nil {
		return fmt.Errorf("folder %s: %w", folderID, domain.ErrFolderNotFound)
	}
	if err := r.removeFolderThumbnailLocked(folderID); err != nil {
		r.logger.Warn("failed to remove previous thumbnail", "folder", folderID, "error", err)
	}

	ext := filepath.Ext(localImagePath)
	if ext == "" {
		ext = ".png"
	}
	dst := filepath.Join(r.thumbsDir(), folderID+ext)
	if err := os.MkdirAll(r.thumbsDir(), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnails directory: %w", err)
	}
	if err := copyFile(localImagePath, dst); err != nil {
		return fmt.Errorf("failed to store thumbnail: %w", err)
	}
	return nil
}

// GetFolderThumbnailPath returns the stored thumbnail path for a
// folder, or an empty string when none exists.
func (r *Repository) GetFolderThumbnailPath(folderID string) string {
	matches, err := filepath.Glob(filepath.Join(r.thumbsDir(), folderID+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// RemoveFolderThumbnail deletes any cached thumbnail for the folder.
func (r *Repository) RemoveFolderThumbnail(folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeFolderThumbnailLocked(folderID)
}

func (r *Repository) removeFolderThumbnailLocked(folderID string) error {
	matches, err := filepath.Glob(filepath.Join(r.thumbsDir(), folderID+".*"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			return err
		}
	}
	return nil
}
