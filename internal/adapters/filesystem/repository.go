package filesystem

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"atelier/internal/application"
	"atelier/internal/domain"
	"atelier/internal/ports"
)

const (
	libraryFile   = "library.json"
	cacheFile     = "cache.json"
	assetsDirName = "assets"
	assetFile     = "asset.json"
	thumbsDirName = "thumbnails"
)

// Repository implements ports.CatalogRepository on top of a directory
// of JSON documents: one library document, one document per asset, and
// a derived cache document for fast startup loads.
type Repository struct {
	root   string
	logger *slog.Logger

	mu      sync.RWMutex
	library *domain.LibraryMetadata
	assets  map[string]*domain.AssetRecord
}

// Ensure Repository implements CatalogRepository
var _ ports.CatalogRepository = (*Repository)(nil)

// NewRepository creates a repository rooted at the given directory.
func NewRepository(root string, logger *slog.Logger) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(root, "~") {
		home, _ := os.UserHomeDir()
		root = filepath.Join(home, root[1:])
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		root:   root,
		logger: logger,
		assets: make(map[string]*domain.AssetRecord),
	}
}

func (r *Repository) libraryPath() string {
	return filepath.Join(r.root, libraryFile)
}

func (r *Repository) cachePath() string {
	return filepath.Join(r.root, cacheFile)
}

func (r *Repository) assetsDir() string {
	return filepath.Join(r.root, assetsDirName)
}

func (r *Repository) assetDir(id string) string {
	return filepath.Join(r.root, assetsDirName, id)
}

func (r *Repository) assetDocPath(id string) string {
	return filepath.Join(r.root, assetsDirName, id, assetFile)
}

func (r *Repository) thumbsDir() string {
	return filepath.Join(r.root, thumbsDirName)
}

// Initialize ensures the on-disk layout exists and writes an empty
// library document if none is present. Safe to call on every start.
func (r *Repository) Initialize() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, dir := range []string{r.root, r.assetsDir(), r.thumbsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(r.libraryPath()); os.IsNotExist(err) {
		empty := domain.NewLibraryMetadata()
		if err := r.writeLibraryLocked(empty); err != nil {
			return err
		}
		r.library = empty
	}

	return nil
}

// Load hydrates the in-memory snapshot. The cache document is the fast
// path; when it is missing or unreadable the canonical library document
// plus every per-asset document are read instead and a fresh cache is
// written. A missing library document is fatal.
func (r *Repository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.loadFromCacheLocked(); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		r.logger.Warn("cache document unreadable, falling back to canonical documents",
			"path", r.cachePath(), "error", err)
	}

	if err := r.loadCanonicalLocked(); err != nil {
		return err
	}

	if err := r.writeCacheLocked(); err != nil {
		r.logger.Warn("failed to write cache after load", "error", err)
	}
	return nil
}

// loadCanonicalLocked reads the library document and every per-asset
// document. Individual malformed asset documents are logged and
// skipped; they do not fail the load.
func (r *Repository) loadCanonicalLocked() error {
	data, err := os.ReadFile(r.libraryPath())
	if err != nil {
		return fmt.Errorf("failed to read library document: %w", err)
	}
	var library domain.LibraryMetadata
	if err := json.Unmarshal(data, &library); err != nil {
		return fmt.Errorf("failed to parse library document: %w", err)
	}
	if err := library.Validate(); err != nil {
		return fmt.Errorf("invalid library document: %w", err)
	}

	assets, err := r.readAssetDocuments()
	if err != nil {
		return err
	}

	r.library = &library
	r.assets = assets
	return nil
}

// readAssetDocuments scans every per-asset document on disk. Parse
// failures are logged and the asset skipped.
func (r *Repository) readAssetDocuments() (map[string]*domain.AssetRecord, error) {
	entries, err := os.ReadDir(r.assetsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*domain.AssetRecord), nil
		}
		return nil, fmt.Errorf("failed to read assets directory: %w", err)
	}

	assets := make(map[string]*domain.AssetRecord, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() || !domain.IsValidID(entry.Name()) {
			continue
		}
		record, err := r.readAssetDocument(entry.Name())
		if err != nil {
			r.logger.Warn("skipping malformed asset document",
				"id", entry.Name(), "error", err)
			continue
		}
		assets[record.ID] = record
	}
	return assets, nil
}

func (r *Repository) readAssetDocument(id string) (*domain.AssetRecord, error) {
	data, err := os.ReadFile(r.assetDocPath(id))
	if err != nil {
		return nil, err
	}
	var record domain.AssetRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	if record.ID != id {
		return nil, fmt.Errorf("document ID %s does not match directory %s", record.ID, id)
	}
	return &record, nil
}

// GetAsset returns the asset with the given ID from the snapshot.
func (r *Repository) GetAsset(id string) (*domain.AssetRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	return a, ok
}

// GetAllAssets returns every asset in the snapshot, sorted by ID
// (creation order, since IDs are time-prefixed).
func (r *Repository) GetAllAssets() []*domain.AssetRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.allAssetsLocked()
}

func (r *Repository) allAssetsLocked() []*domain.AssetRecord {
	all := make([]*domain.AssetRecord, 0, len(r.assets))
	for _, a := range r.assets {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// GetLibraryMetadata returns the in-memory library tree. Callers must
// treat it as read-only; mutations go through repository methods.
func (r *Repository) GetLibraryMetadata() *domain.LibraryMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.library
}

// SaveAsset writes the asset's document, updates the snapshot and
// refreshes the cache.
func (r *Repository) SaveAsset(asset *domain.AssetRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeAssetDocument(asset); err != nil {
		return err
	}
	r.assets[asset.ID] = asset
	return r.writeCacheLocked()
}

// SaveAssets persists a batch of records. The batch is atomic from the
// caller's view: on any write failure the documents already written
// for this batch are removed again and neither the snapshot nor the
// cache is touched.
func (r *Repository) SaveAssets(assets []*domain.AssetRecord) error {
	if len(assets) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveAssetsLocked(assets)
}

func (r *Repository) saveAssetsLocked(assets []*domain.AssetRecord) error {
	var written []string
	for _, asset := range assets {
		if err := r.writeAssetDocument(asset); err != nil {
			for _, id := range written {
				if rmErr := os.RemoveAll(r.assetDir(id)); rmErr != nil {
					r.logger.Warn("failed to undo partial batch write",
						"id", id, "error", rmErr)
				}
			}
			return err
		}
		written = append(written, asset.ID)
	}
	for _, asset := range assets {
		r.assets[asset.ID] = asset
	}
	return r.writeCacheLocked()
}

func (r *Repository) writeAssetDocument(asset *domain.AssetRecord) error {
	dir := r.assetDir(asset.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create asset directory: %w", err)
	}
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal asset %s: %w", asset.ID, err)
	}
	if err := os.WriteFile(filepath.Join(dir, assetFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write asset document: %w", err)
	}
	return nil
}

// DeleteAsset removes the asset's entire storage directory and drops
// it from the snapshot and cache.
func (r *Repository) DeleteAsset(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.RemoveAll(r.assetDir(id)); err != nil {
		return fmt.Errorf("failed to remove asset directory: %w", err)
	}
	delete(r.assets, id)
	return r.writeCacheLocked()
}

// SaveLibraryMetadata overwrites the canonical library document,
// replaces the in-memory tree and refreshes the cache.
func (r *Repository) SaveLibraryMetadata(library *domain.LibraryMetadata) error {
	if err := library.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid library: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writeLibraryLocked(library); err != nil {
		return err
	}
	r.library = library
	return r.writeCacheLocked()
}

func (r *Repository) writeLibraryLocked(library *domain.LibraryMetadata) error {
	data, err := json.MarshalIndent(library, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal library: %w", err)
	}
	if err := os.WriteFile(r.libraryPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write library document: %w", err)
	}
	return nil
}

// ImportFile copies a local file into the store and creates an asset
// record for it. The copy lands in the asset's own directory next to
// its document.
func (r *Repository) ImportFile(sourcePath, folderID string) (*domain.AssetRecord, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source file: %w", err)
	}
	if info.IsDir() {
		return nil, &application.ValidationError{
			Field:   "sourcePath",
			Message: "source must be a file",
		}
	}

	asset := domain.NewAssetFromFile(sourcePath, info.Size())
	if folderID != "" {
		asset.FolderID = folderID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if folderID != "" && r.library.FindFolder(folderID) == nil {
		return nil, fmt.Errorf("folder %s: %w", folderID, domain.ErrFolderNotFound)
	}

	dir := r.assetDir(asset.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := copyFile(sourcePath, filepath.Join(dir, filepath.Base(sourcePath))); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("failed to copy source file: %w", err)
	}
	if err := r.writeAssetDocument(asset); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	r.assets[asset.ID] = asset
	if err := r.writeCacheLocked(); err != nil {
		return nil, err
	}
	return asset, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
