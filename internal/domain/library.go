package domain

import (
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the current library document schema.
const SchemaVersion = 1

// Sentinel errors for tree operations. All tree mutations either apply
// fully or return one of these without touching the forest.
var (
	ErrFolderNotFound = errors.New("folder not found")
	ErrNotAContainer  = errors.New("folder cannot contain child folders")
	ErrCyclicMove     = errors.New("cannot move a folder into itself or a descendant")
)

// LibraryMetadata is the root aggregate: the ordered list of top-level
// folder nodes plus the schema version. Root order is meaningful and
// preserved across moves and reorders.
type LibraryMetadata struct {
	SchemaVersion int           `json:"schemaVersion"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	Roots         []*FolderNode `json:"roots"`
}

// NewLibraryMetadata creates an empty library at the current schema.
func NewLibraryMetadata() *LibraryMetadata {
	return &LibraryMetadata{
		SchemaVersion: SchemaVersion,
		UpdatedAt:     time.Now(),
	}
}

// RootFolders returns the user-facing root listing: plain folders only.
// Variant roots stay part of the persisted root list but are hidden
// from the top-level view.
func (l *LibraryMetadata) RootFolders() []*FolderNode {
	var folders []*FolderNode
	for _, root := range l.Roots {
		if root.Kind == KindFolder {
			folders = append(folders, root)
		}
	}
	return folders
}

// Walk visits every node depth-first in sibling order. The parent is
// nil for root nodes. Returning false stops the walk.
func (l *LibraryMetadata) Walk(visit func(node, parent *FolderNode) bool) {
	for _, root := range l.Roots {
		if !walkNode(root, nil, visit) {
			return
		}
	}
}

func walkNode(node, parent *FolderNode, visit func(node, parent *FolderNode) bool) bool {
	if !visit(node, parent) {
		return false
	}
	for _, child := range node.Children {
		if !walkNode(child, node, visit) {
			return false
		}
	}
	return true
}

// FindFolder returns the node with the given ID, or nil.
func (l *LibraryMetadata) FindFolder(id string) *FolderNode {
	var found *FolderNode
	l.Walk(func(node, _ *FolderNode) bool {
		if node.ID == id {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindParent returns the parent of the node with the given ID. A nil
// parent with ok=true means the node sits at the root.
func (l *LibraryMetadata) FindParent(id string) (parent *FolderNode, ok bool) {
	l.Walk(func(node, p *FolderNode) bool {
		if node.ID == id {
			parent = p
			ok = true
			return false
		}
		return true
	})
	return parent, ok
}

// IsDescendant reports whether id names the ancestor itself or any
// node reachable from it through child traversal.
func (l *LibraryMetadata) IsDescendant(ancestorID, id string) bool {
	ancestor := l.FindFolder(ancestorID)
	if ancestor == nil {
		return false
	}
	found := false
	walkNode(ancestor, nil, func(node, _ *FolderNode) bool {
		if node.ID == id {
			found = true
			return false
		}
		return true
	})
	return found
}

// InsertFolder appends node under the parent with the given ID, or to
// the root list when parentID is empty. The parent must be a plain
// folder.
func (l *LibraryMetadata) InsertFolder(parentID string, node *FolderNode) error {
	if parentID == "" {
		l.Roots = append(l.Roots, node)
		l.touch()
		return nil
	}
	parent := l.FindFolder(parentID)
	if parent == nil {
		return fmt.Errorf("parent %s: %w", parentID, ErrFolderNotFound)
	}
	if !parent.CanContainFolders() {
		return fmt.Errorf("parent %s: %w", parentID, ErrNotAContainer)
	}
	parent.Children = append(parent.Children, node)
	parent.touch()
	l.touch()
	return nil
}

// MoveFolder relocates a node under a new parent, or to the root when
// newParentID is empty. The destination must be a plain folder and must
// not be the moving node or one of its descendants; on failure the
// forest is left unchanged.
func (l *LibraryMetadata) MoveFolder(folderID, newParentID string) error {
	if l.FindFolder(folderID) == nil {
		return fmt.Errorf("folder %s: %w", folderID, ErrFolderNotFound)
	}
	if newParentID != "" {
		dest := l.FindFolder(newParentID)
		if dest == nil {
			return fmt.Errorf("destination %s: %w", newParentID, ErrFolderNotFound)
		}
		if !dest.CanContainFolders() {
			return fmt.Errorf("destination %s: %w", newParentID, ErrNotAContainer)
		}
		if l.IsDescendant(folderID, newParentID) {
			return ErrCyclicMove
		}
	}
	node, ok := l.detach(folderID)
	if !ok {
		return fmt.Errorf("folder %s: %w", folderID, ErrFolderNotFound)
	}
	// Destination was validated above; InsertFolder cannot fail here.
	if err := l.InsertFolder(newParentID, node); err != nil {
		return err
	}
	return nil
}

// ReorderFolder moves a node to newIndex within its parent's child
// list (or the root list when parentID is empty). The index is clamped
// to the valid range; the node is removed before the index is applied,
// so later siblings shift down by one first.
func (l *LibraryMetadata) ReorderFolder(parentID, folderID string, newIndex int) error {
	siblings := l.childListOf(parentID)
	if siblings == nil {
		return fmt.Errorf("parent %s: %w", parentID, ErrFolderNotFound)
	}
	current := -1
	for i, node := range *siblings {
		if node.ID == folderID {
			current = i
			break
		}
	}
	if current < 0 {
		return fmt.Errorf("folder %s: %w", folderID, ErrFolderNotFound)
	}
	node := (*siblings)[current]
	rest := append((*siblings)[:current:current], (*siblings)[current+1:]...)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(rest) {
		newIndex = len(rest)
	}
	reordered := make([]*FolderNode, 0, len(rest)+1)
	reordered = append(reordered, rest[:newIndex]...)
	reordered = append(reordered, node)
	reordered = append(reordered, rest[newIndex:]...)
	*siblings = reordered
	l.touch()
	return nil
}

// RemoveSubtree detaches and returns the node with the given ID along
// with its whole subtree.
func (l *LibraryMetadata) RemoveSubtree(folderID string) (*FolderNode, bool) {
	node, ok := l.detach(folderID)
	if ok {
		l.touch()
	}
	return node, ok
}

// childListOf returns a pointer to the child list addressed by
// parentID: the root list when empty, otherwise the children of a
// plain folder. Returns nil if the parent cannot be resolved.
func (l *LibraryMetadata) childListOf(parentID string) *[]*FolderNode {
	if parentID == "" {
		return &l.Roots
	}
	parent := l.FindFolder(parentID)
	if parent == nil || !parent.CanContainFolders() {
		return nil
	}
	return &parent.Children
}

// detach removes the node with the given ID from wherever it sits,
// leaving its subtree intact.
func (l *LibraryMetadata) detach(id string) (*FolderNode, bool) {
	for i, root := range l.Roots {
		if root.ID == id {
			l.Roots = append(l.Roots[:i:i], l.Roots[i+1:]...)
			return root, true
		}
	}
	var detached *FolderNode
	l.Walk(func(node, _ *FolderNode) bool {
		for i, child := range node.Children {
			if child.ID == id {
				node.Children = append(node.Children[:i:i], node.Children[i+1:]...)
				detached = child
				return false
			}
		}
		return true
	})
	return detached, detached != nil
}

// Clone returns a deep copy of the whole library. The reconciler
// mutates a clone and swaps it in on commit, so a failed commit never
// leaves a torn tree.
func (l *LibraryMetadata) Clone() *LibraryMetadata {
	c := &LibraryMetadata{
		SchemaVersion: l.SchemaVersion,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Roots != nil {
		c.Roots = make([]*FolderNode, len(l.Roots))
		for i, root := range l.Roots {
			c.Roots[i] = root.Clone()
		}
	}
	return c
}

// Validate checks the forest invariants: every kind is known, no node
// is reachable twice (no cycles, no shared nodes) and every ID is
// unique across the forest regardless of variant.
func (l *LibraryMetadata) Validate() error {
	seenIDs := make(map[string]bool)
	seenNodes := make(map[*FolderNode]bool)
	var validate func(node *FolderNode) error
	validate = func(node *FolderNode) error {
		if seenNodes[node] {
			return fmt.Errorf("folder %s reachable from two parents", node.ID)
		}
		seenNodes[node] = true
		if !node.Kind.Valid() {
			return fmt.Errorf("folder %s: unknown kind %q", node.ID, node.Kind)
		}
		if seenIDs[node.ID] {
			return fmt.Errorf("duplicate folder ID %s", node.ID)
		}
		seenIDs[node.ID] = true
		if len(node.Children) > 0 && !node.CanContainFolders() {
			return fmt.Errorf("folder %s: %s nodes cannot hold children", node.ID, node.Kind)
		}
		for _, child := range node.Children {
			if err := validate(child); err != nil {
				return err
			}
		}
		return nil
	}
	for _, root := range l.Roots {
		if err := validate(root); err != nil {
			return err
		}
	}
	return nil
}

func (l *LibraryMetadata) touch() {
	l.UpdatedAt = time.Now()
}
