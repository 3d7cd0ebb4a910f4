package sqlite

import (
	"testing"

	"atelier/internal/domain"
)

func openTestIndex(t *testing.T, libraryPath string) *Index {
	t.Helper()

	t.Setenv("XDG_DATA_HOME", t.TempDir())
	idx := NewIndex()
	if err := idx.Open(libraryPath); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestOpenAndMeta(t *testing.T) {
	idx := openTestIndex(t, "/tmp/lib-a")

	if idx.NeedsFullRebuild() {
		t.Error("fresh index with current meta should not need a rebuild")
	}

	// Point the same database at a different library path: the stored
	// hash no longer matches.
	idx.libraryPath = "/tmp/lib-b"
	if !idx.NeedsFullRebuild() {
		t.Error("index keyed to another library should need a rebuild")
	}
}

func TestSyncFullAndSearch(t *testing.T) {
	idx := openTestIndex(t, "/tmp/lib")

	hair := domain.NewAsset("Long Hair")
	hair.AddTag("cosplay")
	mesh := domain.NewAsset("Base Mesh")
	mesh.Description = "rigged hairless body"
	gone := domain.NewAsset("Old Hairpiece")
	gone.MarkDeleted()

	stats, err := idx.SyncFull([]*domain.AssetRecord{hair, mesh, gone})
	if err != nil {
		t.Fatalf("SyncFull failed: %v", err)
	}
	if stats.Indexed != 3 {
		t.Errorf("expected 3 indexed rows, got %d", stats.Indexed)
	}

	t.Run("matches name", func(t *testing.T) {
		hits, err := idx.Search("Long")
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].ID != hair.ID {
			t.Errorf("unexpected hits: %+v", hits)
		}
	})

	t.Run("matches description and tags", func(t *testing.T) {
		hits, err := idx.Search("rigged")
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].ID != mesh.ID {
			t.Errorf("description not searched: %+v", hits)
		}
		hits, err = idx.Search("cosplay")
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 1 || hits[0].ID != hair.ID {
			t.Errorf("tags not searched: %+v", hits)
		}
	})

	t.Run("excludes soft-deleted assets", func(t *testing.T) {
		hits, err := idx.Search("Hair")
		if err != nil {
			t.Fatal(err)
		}
		for _, hit := range hits {
			if hit.ID == gone.ID {
				t.Error("soft-deleted asset surfaced in search")
			}
		}
	})

	t.Run("escapes LIKE metacharacters", func(t *testing.T) {
		hits, err := idx.Search("100%_wool")
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 0 {
			t.Errorf("wildcard query matched %d rows", len(hits))
		}
	})

	t.Run("resync replaces stale rows", func(t *testing.T) {
		if _, err := idx.SyncFull([]*domain.AssetRecord{hair}); err != nil {
			t.Fatal(err)
		}
		hits, err := idx.Search("Mesh")
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 0 {
			t.Error("row from previous sync survived the rebuild")
		}
	})
}

func TestSyncIncremental(t *testing.T) {
	idx := openTestIndex(t, "/tmp/lib")

	a := domain.NewAsset("anchor")
	b := domain.NewAsset("basket")
	if _, err := idx.SyncFull([]*domain.AssetRecord{a, b}); err != nil {
		t.Fatalf("SyncFull failed: %v", err)
	}

	// One changed, one new, one gone: exactly three rows drift.
	a.Rename("anchor v2")
	c := domain.NewAsset("candle")

	stats, err := idx.SyncIncremental([]*domain.AssetRecord{a, c})
	if err != nil {
		t.Fatalf("SyncIncremental failed: %v", err)
	}
	if stats.Indexed != 3 {
		t.Errorf("expected 3 drifted rows, got %d", stats.Indexed)
	}

	hits, err := idx.Search("anchor")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "anchor v2" {
		t.Errorf("changed row not refreshed: %+v", hits)
	}
	hits, err = idx.Search("basket")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Error("row without a snapshot record survived the sync")
	}
	hits, err = idx.Search("candle")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 {
		t.Error("new record not indexed")
	}

	t.Run("no drift, no writes", func(t *testing.T) {
		stats, err := idx.SyncIncremental([]*domain.AssetRecord{a, c})
		if err != nil {
			t.Fatal(err)
		}
		if stats.Indexed != 0 {
			t.Errorf("clean resync touched %d rows", stats.Indexed)
		}
	})
}

func TestUpsertAndDelete(t *testing.T) {
	idx := openTestIndex(t, "/tmp/lib")

	a := domain.NewAsset("prop")
	if err := idx.UpsertAsset(a); err != nil {
		t.Fatalf("UpsertAsset failed: %v", err)
	}

	a.Rename("prop v2")
	if err := idx.UpsertAsset(a); err != nil {
		t.Fatal(err)
	}
	hits, err := idx.Search("v2")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Name != "prop v2" {
		t.Errorf("upsert did not replace the row: %+v", hits)
	}

	if err := idx.DeleteAsset(a.ID); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	hits, err = idx.Search("prop")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Error("deleted row still searchable")
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50%", `50\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
