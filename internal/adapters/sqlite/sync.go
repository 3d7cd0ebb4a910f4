package sqlite

import (
	"strings"
	"time"

	"atelier/internal/domain"
	"atelier/internal/ports"
)

// Tags are stored newline-joined; newlines cannot appear in tag
// strings, which the domain layer already guarantees.
const tagSeparator = "\n"

// SyncFull rebuilds the index from the repository snapshot in one
// transaction.
func (idx *Index) SyncFull(assets []*domain.AssetRecord) (*ports.IndexStats, error) {
	start := time.Now()
	stats := &ports.IndexStats{}

	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM assets`); err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO assets (id, name, description, extension, folder_id, tags, deleted, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, asset := range assets {
		_, err := stmt.Exec(
			asset.ID,
			asset.Name,
			asset.Description,
			asset.Extension,
			asset.FolderID,
			strings.Join(asset.Tags, tagSeparator),
			boolToInt(asset.Deleted),
			asset.Size,
			asset.UpdatedAt.UnixNano(),
		)
		if err != nil {
			return nil, err
		}
		stats.Indexed++
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

// UpsertAsset inserts or updates a single asset row
func (idx *Index) UpsertAsset(asset *domain.AssetRecord) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO assets (id, name, description, extension, folder_id, tags, deleted, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		asset.ID,
		asset.Name,
		asset.Description,
		asset.Extension,
		asset.FolderID,
		strings.Join(asset.Tags, tagSeparator),
		boolToInt(asset.Deleted),
		asset.Size,
		asset.UpdatedAt.UnixNano(),
	)
	return err
}

// SyncIncremental reconciles the index against the snapshot, touching
// only drifted rows: new or changed assets are upserted, rows without
// a snapshot record are deleted. Drift detection keys on the stored
// updated_at timestamp.
func (idx *Index) SyncIncremental(assets []*domain.AssetRecord) (*ports.IndexStats, error) {
	start := time.Now()
	stats := &ports.IndexStats{}

	indexed, err := idx.indexedTimestamps()
	if err != nil {
		return nil, err
	}

	current := make(map[string]bool, len(assets))
	for _, asset := range assets {
		current[asset.ID] = true
		if ts, ok := indexed[asset.ID]; ok && ts == asset.UpdatedAt.UnixNano() {
			continue
		}
		if err := idx.UpsertAsset(asset); err != nil {
			return nil, err
		}
		stats.Indexed++
	}
	for id := range indexed {
		if current[id] {
			continue
		}
		if err := idx.DeleteAsset(id); err != nil {
			return nil, err
		}
		stats.Indexed++
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (idx *Index) indexedTimestamps() (map[string]int64, error) {
	rows, err := idx.db.Query(`SELECT id, updated_at FROM assets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	indexed := make(map[string]int64)
	for rows.Next() {
		var id string
		var updatedAt int64
		if err := rows.Scan(&id, &updatedAt); err != nil {
			return nil, err
		}
		indexed[id] = updatedAt
	}
	return indexed, rows.Err()
}

// DeleteAsset removes an asset row by ID
func (idx *Index) DeleteAsset(id string) error {
	_, err := idx.db.Exec(`DELETE FROM assets WHERE id = ?`, id)
	return err
}

// Search matches the query against names, descriptions and tags,
// excluding soft-deleted assets.
func (idx *Index) Search(query string) ([]ports.SearchHit, error) {
	pattern := "%" + escapeLike(query) + "%"

	rows, err := idx.db.Query(`
		SELECT id, name, extension, folder_id
		FROM assets
		WHERE deleted = 0
		  AND (name LIKE ? ESCAPE '\'
		    OR description LIKE ? ESCAPE '\'
		    OR tags LIKE ? ESCAPE '\')
		ORDER BY name
	`, pattern, pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []ports.SearchHit
	for rows.Next() {
		var hit ports.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Name, &hit.Extension, &hit.FolderID); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}

	return hits, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
