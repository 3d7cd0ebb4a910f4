package domain

import (
	"reflect"
	"testing"
)

// buildTestLibrary returns a library shaped like:
//
//	A (folder)
//	  B (folder)
//	    C (folder)
//	M (marketplace-item)
//	K (backup)
func buildTestLibrary(t *testing.T) (*LibraryMetadata, map[string]*FolderNode) {
	t.Helper()

	a := NewFolder("A", "")
	b := NewFolder("B", "")
	c := NewFolder("C", "")
	m := NewMarketplaceItemFolder("M", "someshop.market.example", "Some Shop", 42)
	k := NewBackupFolder("K", "avtr_0001")

	b.Children = append(b.Children, c)
	a.Children = append(a.Children, b)

	lib := NewLibraryMetadata()
	lib.Roots = []*FolderNode{a, m, k}

	if err := lib.Validate(); err != nil {
		t.Fatalf("fixture library invalid: %v", err)
	}
	return lib, map[string]*FolderNode{"A": a, "B": b, "C": c, "M": m, "K": k}
}

func rootIDs(lib *LibraryMetadata) []string {
	var ids []string
	for _, root := range lib.Roots {
		ids = append(ids, root.ID)
	}
	return ids
}

func TestRootFolders(t *testing.T) {
	lib, nodes := buildTestLibrary(t)

	roots := lib.RootFolders()
	if len(roots) != 1 || roots[0].ID != nodes["A"].ID {
		t.Errorf("expected only plain folder A in root listing, got %d entries", len(roots))
	}
	// Variant roots stay in the persisted list.
	if len(lib.Roots) != 3 {
		t.Errorf("expected 3 persisted roots, got %d", len(lib.Roots))
	}
}

func TestFindFolderAndParent(t *testing.T) {
	lib, nodes := buildTestLibrary(t)

	if got := lib.FindFolder(nodes["C"].ID); got != nodes["C"] {
		t.Error("FindFolder did not locate nested folder")
	}
	if got := lib.FindFolder("missing"); got != nil {
		t.Error("FindFolder located a nonexistent folder")
	}

	parent, ok := lib.FindParent(nodes["C"].ID)
	if !ok || parent != nodes["B"] {
		t.Error("FindParent did not return B for C")
	}
	parent, ok = lib.FindParent(nodes["A"].ID)
	if !ok || parent != nil {
		t.Error("FindParent did not report A as a root")
	}
	if _, ok := lib.FindParent("missing"); ok {
		t.Error("FindParent reported success for a nonexistent folder")
	}
}

func TestIsDescendant(t *testing.T) {
	lib, nodes := buildTestLibrary(t)

	if !lib.IsDescendant(nodes["A"].ID, nodes["C"].ID) {
		t.Error("C should be a descendant of A")
	}
	if !lib.IsDescendant(nodes["A"].ID, nodes["A"].ID) {
		t.Error("a folder is a descendant of itself for move checks")
	}
	if lib.IsDescendant(nodes["C"].ID, nodes["A"].ID) {
		t.Error("A should not be a descendant of C")
	}
}

func TestInsertFolder(t *testing.T) {
	t.Run("rejects marketplace-item parent", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		err := lib.InsertFolder(nodes["M"].ID, NewFolder("new", ""))
		if err == nil {
			t.Fatal("expected insert under marketplace-item folder to fail")
		}
	})

	t.Run("appends to root when parent is empty", func(t *testing.T) {
		lib, _ := buildTestLibrary(t)
		n := NewFolder("new", "")
		if err := lib.InsertFolder("", n); err != nil {
			t.Fatalf("insert at root failed: %v", err)
		}
		if lib.Roots[len(lib.Roots)-1] != n {
			t.Error("new folder was not appended to root list")
		}
	})
}

func TestMoveFolder(t *testing.T) {
	t.Run("moves under new parent", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		if err := lib.MoveFolder(nodes["C"].ID, nodes["A"].ID); err != nil {
			t.Fatalf("move failed: %v", err)
		}
		if len(nodes["B"].Children) != 0 {
			t.Error("C still attached to B")
		}
		if parent, _ := lib.FindParent(nodes["C"].ID); parent != nodes["A"] {
			t.Error("C not attached to A")
		}
	})

	t.Run("moves to root", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		if err := lib.MoveFolder(nodes["C"].ID, ""); err != nil {
			t.Fatalf("move to root failed: %v", err)
		}
		if parent, ok := lib.FindParent(nodes["C"].ID); !ok || parent != nil {
			t.Error("C not at root")
		}
	})

	failures := []struct {
		name string
		src  string
		dst  string
	}{
		{"into itself", "A", "A"},
		{"into own descendant", "A", "C"},
		{"into marketplace-item folder", "B", "M"},
		{"into backup folder", "B", "K"},
	}
	for _, tt := range failures {
		t.Run("fails "+tt.name, func(t *testing.T) {
			lib, nodes := buildTestLibrary(t)
			before := lib.Clone()
			if err := lib.MoveFolder(nodes[tt.src].ID, nodes[tt.dst].ID); err == nil {
				t.Fatal("expected move to fail")
			}
			if !reflect.DeepEqual(lib, before) {
				t.Error("failed move mutated the tree")
			}
		})
	}
}

func TestReorderFolder(t *testing.T) {
	lib, _ := buildTestLibrary(t)
	a, m, k := lib.Roots[0].ID, lib.Roots[1].ID, lib.Roots[2].ID

	t.Run("moves later sibling to front", func(t *testing.T) {
		if err := lib.ReorderFolder("", k, 0); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		if got := rootIDs(lib); !reflect.DeepEqual(got, []string{k, a, m}) {
			t.Errorf("unexpected order: %v", got)
		}
	})

	t.Run("remove-then-insert semantics", func(t *testing.T) {
		// [k a m]: moving k to index 1 removes it first, so a shifts
		// to the front and k lands between a and m.
		if err := lib.ReorderFolder("", k, 1); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		if got := rootIDs(lib); !reflect.DeepEqual(got, []string{a, k, m}) {
			t.Errorf("unexpected order: %v", got)
		}
	})

	t.Run("clamps out-of-range index", func(t *testing.T) {
		if err := lib.ReorderFolder("", a, 99); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		if got := rootIDs(lib); got[len(got)-1] != a {
			t.Errorf("expected a at the end, got %v", got)
		}
		if err := lib.ReorderFolder("", a, -5); err != nil {
			t.Fatalf("reorder failed: %v", err)
		}
		if got := rootIDs(lib); got[0] != a {
			t.Errorf("expected a at the front, got %v", got)
		}
	})

	t.Run("unknown folder fails", func(t *testing.T) {
		if err := lib.ReorderFolder("", "missing", 0); err == nil {
			t.Error("expected reorder of unknown folder to fail")
		}
	})
}

func TestRemoveSubtree(t *testing.T) {
	lib, nodes := buildTestLibrary(t)

	removed, ok := lib.RemoveSubtree(nodes["B"].ID)
	if !ok {
		t.Fatal("expected subtree removal to succeed")
	}
	if removed != nodes["B"] || len(removed.Children) != 1 {
		t.Error("removed subtree lost its children")
	}
	if lib.FindFolder(nodes["C"].ID) != nil {
		t.Error("descendant of removed subtree still reachable")
	}
}

func TestClone(t *testing.T) {
	lib, nodes := buildTestLibrary(t)

	c := lib.Clone()
	if !reflect.DeepEqual(lib, c) {
		t.Fatal("clone differs from original")
	}

	c.FindFolder(nodes["C"].ID).Rename("changed")
	if nodes["C"].Name == "changed" {
		t.Error("clone shares nodes with original")
	}
}

func TestValidate(t *testing.T) {
	t.Run("duplicate IDs", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		dup := NewFolder("dup", "")
		dup.ID = nodes["C"].ID
		lib.Roots = append(lib.Roots, dup)
		if err := lib.Validate(); err == nil {
			t.Error("expected duplicate ID to fail validation")
		}
	})

	t.Run("node reachable from two parents", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		nodes["A"].Children = append(nodes["A"].Children, nodes["C"])
		if err := lib.Validate(); err == nil {
			t.Error("expected shared node to fail validation")
		}
	})

	t.Run("children under non-container", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		nodes["M"].Children = append(nodes["M"].Children, NewFolder("x", ""))
		if err := lib.Validate(); err == nil {
			t.Error("expected children under marketplace-item folder to fail validation")
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		lib, nodes := buildTestLibrary(t)
		nodes["K"].Kind = "mystery"
		if err := lib.Validate(); err == nil {
			t.Error("expected unknown kind to fail validation")
		}
	})
}

func TestCollectIDs(t *testing.T) {
	_, nodes := buildTestLibrary(t)

	ids := CollectIDs(nodes["A"])
	want := []string{nodes["A"].ID, nodes["B"].ID, nodes["C"].ID}
	if !reflect.DeepEqual(ids, want) {
		t.Errorf("CollectIDs = %v, want %v", ids, want)
	}
}
