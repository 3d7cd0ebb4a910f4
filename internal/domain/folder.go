package domain

import (
	"slices"
	"time"
)

// FolderKind discriminates the folder variants in serialized form. The
// set is closed: anything else in a document is rejected on load.
type FolderKind string

const (
	// KindFolder is a plain container that may hold child folders.
	KindFolder FolderKind = "folder"
	// KindMarketplaceItem is the canonical one-folder-per-marketplace-item
	// target. It holds assets but never child folders.
	KindMarketplaceItem FolderKind = "marketplace-item"
	// KindBackup is tagged with an external avatar/object identifier.
	KindBackup FolderKind = "backup"
)

// Valid reports whether k is one of the known variants.
func (k FolderKind) Valid() bool {
	switch k {
	case KindFolder, KindMarketplaceItem, KindBackup:
		return true
	}
	return false
}

// FolderNode is one node in the library forest. Kind selects which of
// the variant fields are meaningful; only plain folders carry Children.
type FolderNode struct {
	ID          string        `json:"id"`
	Kind        FolderKind    `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Children    []*FolderNode `json:"children,omitempty"`

	// marketplace-item variant
	ShopDomain string `json:"shopDomain,omitempty"`
	ShopName   string `json:"shopName,omitempty"`
	ItemID     int64  `json:"itemId,omitempty"`

	// backup variant
	ObjectID string `json:"objectId,omitempty"`
}

// NewFolder creates a plain folder node.
func NewFolder(name, description string) *FolderNode {
	return &FolderNode{
		ID:          NewID(),
		Kind:        KindFolder,
		Name:        name,
		Description: description,
		UpdatedAt:   time.Now(),
	}
}

// NewMarketplaceItemFolder creates the destination folder for one
// marketplace item. itemID is 0 when the feed identifier was not
// purely numeric.
func NewMarketplaceItemFolder(name, shopDomain, shopName string, itemID int64) *FolderNode {
	return &FolderNode{
		ID:         NewID(),
		Kind:       KindMarketplaceItem,
		Name:       name,
		ShopDomain: shopDomain,
		ShopName:   shopName,
		ItemID:     itemID,
		UpdatedAt:  time.Now(),
	}
}

// NewBackupFolder creates a backup folder tagged with an external
// object identifier.
func NewBackupFolder(name, objectID string) *FolderNode {
	return &FolderNode{
		ID:        NewID(),
		Kind:      KindBackup,
		Name:      name,
		ObjectID:  objectID,
		UpdatedAt: time.Now(),
	}
}

// CanContainFolders reports whether the node is a valid parent for
// child folders. Only plain folders are containers.
func (f *FolderNode) CanContainFolders() bool {
	return f.Kind == KindFolder
}

func (f *FolderNode) touch() {
	f.UpdatedAt = time.Now()
}

// Rename sets the folder name.
func (f *FolderNode) Rename(name string) {
	f.Name = name
	f.touch()
}

// SetDescription sets the folder description.
func (f *FolderNode) SetDescription(description string) {
	f.Description = description
	f.touch()
}

// SetShopName sets the marketplace shop name.
func (f *FolderNode) SetShopName(shopName string) {
	f.ShopName = shopName
	f.touch()
}

// AddTag appends a tag, rejecting empty strings and duplicates.
func (f *FolderNode) AddTag(tag string) bool {
	tags, ok := addTag(f.Tags, tag)
	if ok {
		f.Tags = tags
		f.touch()
	}
	return ok
}

// RemoveTag removes a tag if present.
func (f *FolderNode) RemoveTag(tag string) bool {
	tags, ok := removeTag(f.Tags, tag)
	if ok {
		f.Tags = tags
		f.touch()
	}
	return ok
}

// RenameTag replaces oldName with newName, preserving position.
func (f *FolderNode) RenameTag(oldName, newName string) bool {
	tags, ok := renameTag(f.Tags, oldName, newName)
	if ok {
		f.Tags = tags
		f.touch()
	}
	return ok
}

// Clone returns a deep copy of the node and its subtree.
func (f *FolderNode) Clone() *FolderNode {
	c := *f
	c.Tags = slices.Clone(f.Tags)
	if f.Children != nil {
		c.Children = make([]*FolderNode, len(f.Children))
		for i, child := range f.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}

// CollectIDs returns the IDs of the node and every descendant.
func CollectIDs(root *FolderNode) []string {
	ids := []string{root.ID}
	for _, child := range root.Children {
		ids = append(ids, CollectIDs(child)...)
	}
	return ids
}
