package ports

import (
	"context"

	"atelier/internal/domain"
)

// CatalogRepository is the storage boundary for the asset catalog. It
// owns the canonical on-disk documents; the in-memory snapshot it hands
// out is read-only for callers, and every write goes back through one
// of these methods so disk, snapshot and cache stay consistent.
type CatalogRepository interface {
	// Initialize ensures the on-disk layout exists, writing an empty
	// library document if none is present. Idempotent.
	Initialize() error

	// Load hydrates the in-memory snapshot, preferring the cache
	// document and falling back to the canonical documents. A missing
	// library document is fatal; a malformed per-asset document is
	// logged and skipped.
	Load() error

	// VerifyAgainstDisk reconciles the snapshot against the per-asset
	// documents on a background goroutine. The returned channel yields
	// exactly one report and is then closed.
	VerifyAgainstDisk(ctx context.Context) <-chan VerifyReport

	// Pure reads against the in-memory snapshot.
	GetAsset(id string) (*domain.AssetRecord, bool)
	GetAllAssets() []*domain.AssetRecord
	GetLibraryMetadata() *domain.LibraryMetadata

	SaveAsset(asset *domain.AssetRecord) error
	// SaveAssets persists a batch atomically from the caller's view:
	// either every record is reflected in the next read, or none are.
	SaveAssets(assets []*domain.AssetRecord) error
	DeleteAsset(id string) error
	SaveLibraryMetadata(library *domain.LibraryMetadata) error

	// Folder tree operations. Each persists the library document and
	// refreshes the cache, or fails without mutating anything.
	CreateFolder(parentID, name, description string) (*domain.FolderNode, error)
	MoveFolder(folderID, newParentID string) error
	ReorderFolder(parentID, folderID string, newIndex int) error
	DeleteFolder(folderID string) error

	// Tag operations.
	AddAssetTag(assetID, tag string) error
	RemoveAssetTag(assetID, tag string) error
	AddFolderTag(folderID, tag string) error
	RemoveFolderTag(folderID, tag string) error
	RenameTag(oldName, newName string) error
	DeleteTag(name string) error

	// ImportFile copies a local file into the store and creates an
	// asset record for it.
	ImportFile(sourcePath, folderID string) (*domain.AssetRecord, error)

	// Folder thumbnail collaboration with the external downloader.
	SetFolderThumbnail(folderID, localImagePath string) error
	GetFolderThumbnailPath(folderID string) string
	RemoveFolderThumbnail(folderID string) error
}

// VerifyReport summarizes one reconciliation pass of the in-memory
// snapshot against the authoritative per-asset documents.
type VerifyReport struct {
	Inserted int // present on disk, missing from the snapshot
	Removed  int // present in the snapshot, missing on disk
	Updated  int // present in both but differing
	Err      error
}

// Corrections returns the total number of applied corrections.
func (r VerifyReport) Corrections() int {
	return r.Inserted + r.Removed + r.Updated
}
