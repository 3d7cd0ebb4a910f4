package filesystem

import (
	"encoding/json"
	"fmt"
	"os"

	"atelier/internal/domain"
)

// cacheDocument pairs the library tree with the flat asset list. It is
// purely derived state: deleting it costs one slow load, nothing else.
type cacheDocument struct {
	SchemaVersion int                     `json:"schemaVersion"`
	Library       *domain.LibraryMetadata `json:"library"`
	Assets        []*domain.AssetRecord   `json:"assets"`
}

// loadFromCacheLocked hydrates the snapshot from the cache document.
// Any read or parse error is returned so the caller can fall back to
// the canonical documents.
func (r *Repository) loadFromCacheLocked() error {
	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return err
	}
	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse cache document: %w", err)
	}
	if doc.SchemaVersion != domain.SchemaVersion || doc.Library == nil {
		return fmt.Errorf("cache document has schema version %d, want %d",
			doc.SchemaVersion, domain.SchemaVersion)
	}
	if err := doc.Library.Validate(); err != nil {
		return fmt.Errorf("invalid library tree in cache: %w", err)
	}

	assets := make(map[string]*domain.AssetRecord, len(doc.Assets))
	for _, a := range doc.Assets {
		assets[a.ID] = a
	}
	r.library = doc.Library
	r.assets = assets
	return nil
}

// writeCacheLocked persists the cache document. The write goes to a
// temporary path first and is then renamed over the old cache, so a
// crash mid-write leaves either the old complete cache or the new one,
// never a torn file.
func (r *Repository) writeCacheLocked() error {
	doc := cacheDocument{
		SchemaVersion: domain.SchemaVersion,
		Library:       r.library,
		Assets:        r.allAssetsLocked(),
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	tmp := r.cachePath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache temp file: %w", err)
	}
	if err := os.Rename(tmp, r.cachePath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cache document: %w", err)
	}
	return nil
}
