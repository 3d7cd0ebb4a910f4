package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"atelier/internal/ports"

	_ "modernc.org/sqlite"
)

// Bumped when stored row semantics change; v2 stores updated_at in
// nanoseconds so incremental sync can see sub-second edits.
const schemaVersion = "2"

// Index implements ports.SearchIndex using SQLite. The database is a
// derived artifact keyed to one library path; deleting it only costs a
// full rebuild.
type Index struct {
	db          *sql.DB
	libraryPath string
	dbPath      string
}

// Ensure Index implements SearchIndex
var _ ports.SearchIndex = (*Index)(nil)

// NewIndex creates a new SQLite index
func NewIndex() *Index {
	return &Index{}
}

// Open initializes the index for the given library path
func (idx *Index) Open(libraryPath string) error {
	// Expand ~ in path
	if len(libraryPath) > 0 && libraryPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		libraryPath = filepath.Join(home, libraryPath[1:])
	}

	idx.libraryPath = libraryPath
	idx.dbPath = databasePath(libraryPath)

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", idx.dbPath+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	// Performance pragmas + schema in single batch (reduces round-trips)
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -64000;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			extension TEXT,
			folder_id TEXT,
			tags TEXT,
			deleted INTEGER NOT NULL DEFAULT 0,
			size INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_assets_folder ON assets(folder_id);
		CREATE INDEX IF NOT EXISTS idx_assets_name ON assets(name);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	// Update metadata
	if err := idx.updateMeta(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsFullRebuild returns true if the index should be fully rebuilt
func (idx *Index) NeedsFullRebuild() bool {
	var version, pathHash string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'library_path_hash'").Scan(&pathHash)

	expectedHash := hashLibraryPath(idx.libraryPath)

	return version != schemaVersion || pathHash != expectedHash
}

// databasePath returns the path for the SQLite database
func databasePath(libraryPath string) string {
	// XDG data directory
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	// Hash library path for unique DB name
	hash := hashLibraryPath(libraryPath)

	return filepath.Join(dataHome, "atelier", hash+".db")
}

// hashLibraryPath returns a short hash of the library path
func hashLibraryPath(libraryPath string) string {
	h := sha256.Sum256([]byte(libraryPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// updateMeta updates the schema version and library path hash
func (idx *Index) updateMeta() error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?);
		INSERT OR REPLACE INTO meta (key, value) VALUES ('library_path_hash', ?);
	`, schemaVersion, hashLibraryPath(idx.libraryPath))
	return err
}
