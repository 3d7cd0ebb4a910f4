package ports

import (
	"time"

	"atelier/internal/domain"
)

// SearchIndex is a derived, disposable index over the asset set. It is
// safe to delete the backing database at any time and rebuild it from
// the repository snapshot.
type SearchIndex interface {
	// Open initializes the index for the given library path.
	Open(libraryPath string) error
	Close() error

	// NeedsFullRebuild reports whether the schema version or library
	// path changed since the index was last built.
	NeedsFullRebuild() bool

	// SyncFull rebuilds the index from scratch in one transaction.
	SyncFull(assets []*domain.AssetRecord) (*IndexStats, error)

	// SyncIncremental reconciles the index against the snapshot,
	// touching only rows that drifted.
	SyncIncremental(assets []*domain.AssetRecord) (*IndexStats, error)

	UpsertAsset(asset *domain.AssetRecord) error
	DeleteAsset(id string) error

	// Search matches the query against asset names, descriptions and
	// tags. Soft-deleted assets are excluded.
	Search(query string) ([]SearchHit, error)
}

// SearchHit is one index match.
type SearchHit struct {
	ID        string
	Name      string
	Extension string
	FolderID  string
}

// IndexStats reports the outcome of a sync: the number of rows written
// or removed, and how long the pass took.
type IndexStats struct {
	Indexed int
	Elapsed time.Duration
}
