package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"atelier/internal/application"
	"atelier/internal/domain"
)

func TestCreateFolder(t *testing.T) {
	repo := newTestRepo(t)

	folder, err := repo.CreateFolder("", "Props", "stage props")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	if folder.Kind != domain.KindFolder {
		t.Errorf("expected plain folder, got kind %s", folder.Kind)
	}

	// Reload from disk to prove the tree was persisted.
	fresh := NewRepository(repo.root, testLogger())
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	if fresh.GetLibraryMetadata().FindFolder(folder.ID) == nil {
		t.Error("created folder not persisted")
	}

	t.Run("rejects empty name", func(t *testing.T) {
		before := len(repo.GetLibraryMetadata().Roots)
		_, err := repo.CreateFolder("", "   ", "")
		var verr *application.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error, got %v", err)
		}
		if len(repo.GetLibraryMetadata().Roots) != before {
			t.Error("failed create mutated the tree")
		}
	})

	t.Run("rejects marketplace-item parent", func(t *testing.T) {
		m := domain.NewMarketplaceItemFolder("M", "someshop.market.example", "", 1)
		lib := repo.GetLibraryMetadata().Clone()
		lib.Roots = append(lib.Roots, m)
		if err := repo.SaveLibraryMetadata(lib); err != nil {
			t.Fatal(err)
		}
		if _, err := repo.CreateFolder(m.ID, "child", ""); !errors.Is(err, domain.ErrNotAContainer) {
			t.Errorf("expected ErrNotAContainer, got %v", err)
		}
	})
}

func TestMoveAndReorderFolderPersist(t *testing.T) {
	repo := newTestRepo(t)

	a, err := repo.CreateFolder("", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := repo.CreateFolder("", "B", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.MoveFolder(b.ID, a.ID); err != nil {
		t.Fatalf("MoveFolder failed: %v", err)
	}
	if err := repo.ReorderFolder("", a.ID, 0); err != nil {
		t.Fatalf("ReorderFolder failed: %v", err)
	}

	fresh := NewRepository(repo.root, testLogger())
	if err := fresh.Load(); err != nil {
		t.Fatal(err)
	}
	parent, ok := fresh.GetLibraryMetadata().FindParent(b.ID)
	if !ok || parent == nil || parent.ID != a.ID {
		t.Error("move not persisted")
	}
}

func TestDeleteFolderSoftDeletesSubtreeAssets(t *testing.T) {
	repo := newTestRepo(t)

	a, err := repo.CreateFolder("", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := repo.CreateFolder(a.ID, "B", "")
	if err != nil {
		t.Fatal(err)
	}

	inB := domain.NewAsset("in b")
	inB.SetFolder(b.ID)
	loose := domain.NewAsset("loose")
	if err := repo.SaveAssets([]*domain.AssetRecord{inB, loose}); err != nil {
		t.Fatal(err)
	}

	thumb := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(thumb, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetFolderThumbnail(b.ID, thumb); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteFolder(a.ID); err != nil {
		t.Fatalf("DeleteFolder failed: %v", err)
	}

	if repo.GetLibraryMetadata().FindFolder(a.ID) != nil {
		t.Error("deleted folder still in the tree")
	}
	got, ok := repo.GetAsset(inB.ID)
	if !ok {
		t.Fatal("asset in deleted folder was hard-deleted")
	}
	if !got.Deleted {
		t.Error("asset in deleted subtree not soft-deleted")
	}
	if got, _ := repo.GetAsset(loose.ID); got.Deleted {
		t.Error("asset outside the subtree was soft-deleted")
	}
	if repo.GetFolderThumbnailPath(b.ID) != "" {
		t.Error("thumbnail of deleted folder still cached")
	}
}

func TestFolderThumbnails(t *testing.T) {
	repo := newTestRepo(t)

	folder, err := repo.CreateFolder("", "A", "")
	if err != nil {
		t.Fatal(err)
	}

	src := filepath.Join(t.TempDir(), "cover.jpg")
	if err := os.WriteFile(src, []byte("jpg"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetFolderThumbnail(folder.ID, src); err != nil {
		t.Fatalf("SetFolderThumbnail failed: %v", err)
	}

	path := repo.GetFolderThumbnailPath(folder.ID)
	if filepath.Ext(path) != ".jpg" {
		t.Errorf("unexpected thumbnail path: %s", path)
	}

	// Replacing with a different extension removes the old file.
	src2 := filepath.Join(t.TempDir(), "cover.png")
	if err := os.WriteFile(src2, []byte("png"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetFolderThumbnail(folder.ID, src2); err != nil {
		t.Fatal(err)
	}
	if got := repo.GetFolderThumbnailPath(folder.ID); filepath.Ext(got) != ".png" {
		t.Errorf("old thumbnail not replaced: %s", got)
	}

	if err := repo.RemoveFolderThumbnail(folder.ID); err != nil {
		t.Fatal(err)
	}
	if repo.GetFolderThumbnailPath(folder.ID) != "" {
		t.Error("thumbnail still present after removal")
	}

	t.Run("unknown folder fails", func(t *testing.T) {
		if err := repo.SetFolderThumbnail("01HV3Q2T8VJ9WX5K4M2P7R9BCD", src); !errors.Is(err, domain.ErrFolderNotFound) {
			t.Errorf("expected ErrFolderNotFound, got %v", err)
		}
	})
}

func TestTagOperations(t *testing.T) {
	repo := newTestRepo(t)

	folder, err := repo.CreateFolder("", "A", "")
	if err != nil {
		t.Fatal(err)
	}
	a := domain.NewAsset("one")
	a.AddTag("wip")
	b := domain.NewAsset("two")
	b.AddTag("wip")
	b.AddTag("hair")
	if err := repo.SaveAssets([]*domain.AssetRecord{a, b}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddFolderTag(folder.ID, "wip"); err != nil {
		t.Fatal(err)
	}

	t.Run("rename spans assets and folders", func(t *testing.T) {
		if err := repo.RenameTag("wip", "done"); err != nil {
			t.Fatalf("RenameTag failed: %v", err)
		}
		got, _ := repo.GetAsset(a.ID)
		if got.Tags[0] != "done" {
			t.Errorf("asset tag not renamed: %v", got.Tags)
		}
		f := repo.GetLibraryMetadata().FindFolder(folder.ID)
		if len(f.Tags) != 1 || f.Tags[0] != "done" {
			t.Errorf("folder tag not renamed: %v", f.Tags)
		}
	})

	t.Run("delete spans assets and folders", func(t *testing.T) {
		if err := repo.DeleteTag("done"); err != nil {
			t.Fatalf("DeleteTag failed: %v", err)
		}
		got, _ := repo.GetAsset(b.ID)
		if len(got.Tags) != 1 || got.Tags[0] != "hair" {
			t.Errorf("unexpected tags after delete: %v", got.Tags)
		}
		if f := repo.GetLibraryMetadata().FindFolder(folder.ID); len(f.Tags) != 0 {
			t.Errorf("folder tag not deleted: %v", f.Tags)
		}
	})

	t.Run("self-rename leaves every tag in place", func(t *testing.T) {
		if err := repo.RenameTag("hair", "hair"); err != nil {
			t.Fatalf("RenameTag failed: %v", err)
		}
		got, _ := repo.GetAsset(b.ID)
		if len(got.Tags) != 1 || got.Tags[0] != "hair" {
			t.Errorf("self-rename changed tags: %v", got.Tags)
		}
	})

	t.Run("single-asset tag mutation persists", func(t *testing.T) {
		if err := repo.AddAssetTag(a.ID, "solo"); err != nil {
			t.Fatal(err)
		}
		fresh := NewRepository(repo.root, testLogger())
		if err := fresh.Load(); err != nil {
			t.Fatal(err)
		}
		got, _ := fresh.GetAsset(a.ID)
		if len(got.Tags) != 1 || got.Tags[0] != "solo" {
			t.Errorf("tag not persisted: %v", got.Tags)
		}
		if err := repo.RemoveAssetTag(a.ID, "solo"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("unknown asset fails", func(t *testing.T) {
		err := repo.AddAssetTag("01HV3Q2T8VJ9WX5K4M2P7R9BCD", "x")
		if !errors.Is(err, application.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
