package domain

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// AssetRecord is one importable unit: a local file, a package, or a
// marketplace item awaiting download. Records are soft-deleted via the
// Deleted flag and only ever removed from disk by an explicit purge.
type AssetRecord struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Size        int64            `json:"size"`
	Extension   string           `json:"extension,omitempty"`
	FolderID    string           `json:"folderId,omitempty"` // empty means uncategorized
	Tags        []string         `json:"tags,omitempty"`
	Deleted     bool             `json:"deleted"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Marketplace *MarketplaceItem `json:"marketplace,omitempty"`
}

// MarketplaceItem links an asset back to the shop listing it came
// from. ItemID and DownloadID are kept as strings: feeds without a
// resolvable numeric ID leave them empty.
type MarketplaceItem struct {
	ShopDomain     string `json:"shopDomain,omitempty"`
	ItemID         string `json:"itemId,omitempty"`
	DownloadID     string `json:"downloadId,omitempty"`
	SourceFilename string `json:"sourceFilename,omitempty"`
}

// ShopURL returns the shop page derived from the shop domain.
func (m *MarketplaceItem) ShopURL() string {
	if m.ShopDomain == "" {
		return ""
	}
	return "https://" + m.ShopDomain + "/"
}

// ItemURL returns the listing page derived from the shop domain and
// item ID.
func (m *MarketplaceItem) ItemURL() string {
	if m.ShopDomain == "" || m.ItemID == "" {
		return ""
	}
	return "https://" + m.ShopDomain + "/items/" + m.ItemID
}

// DownloadURL returns the download endpoint derived from the download
// ID. Downloads are served from the marketplace apex domain, not the
// per-shop subdomain.
func (m *MarketplaceItem) DownloadURL() string {
	if m.DownloadID == "" {
		return ""
	}
	host := apexDomain(m.ShopDomain)
	if host == "" {
		return ""
	}
	return "https://" + host + "/downloadables/" + m.DownloadID
}

// apexDomain strips the shop label from a per-shop subdomain
// ("someshop.market.example" -> "market.example").
func apexDomain(domain string) string {
	parts := strings.SplitN(domain, ".", 2)
	if len(parts) < 2 {
		return domain
	}
	return parts[1]
}

// NewAsset creates an empty asset record with a fresh ID.
func NewAsset(name string) *AssetRecord {
	return &AssetRecord{
		ID:        NewID(),
		Name:      name,
		UpdatedAt: time.Now(),
	}
}

// NewAssetFromFile creates an asset record for a local file, deriving
// the name and extension from the file name.
func NewAssetFromFile(path string, size int64) *AssetRecord {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	a := NewAsset(strings.TrimSuffix(base, ext))
	a.Extension = strings.TrimPrefix(ext, ".")
	a.Size = size
	return a
}

func (a *AssetRecord) touch() {
	a.UpdatedAt = time.Now()
}

// Rename sets the asset name.
func (a *AssetRecord) Rename(name string) {
	a.Name = name
	a.touch()
}

// SetDescription sets the asset description.
func (a *AssetRecord) SetDescription(description string) {
	a.Description = description
	a.touch()
}

// SetFolder points the asset at a folder; an empty ID marks it
// uncategorized.
func (a *AssetRecord) SetFolder(folderID string) {
	a.FolderID = folderID
	a.touch()
}

// MarkDeleted sets the soft-delete flag.
func (a *AssetRecord) MarkDeleted() {
	a.Deleted = true
	a.touch()
}

// Restore clears the soft-delete flag.
func (a *AssetRecord) Restore() {
	a.Deleted = false
	a.touch()
}

// AddTag appends a tag, rejecting empty strings and duplicates.
func (a *AssetRecord) AddTag(tag string) bool {
	tags, ok := addTag(a.Tags, tag)
	if ok {
		a.Tags = tags
		a.touch()
	}
	return ok
}

// RemoveTag removes a tag if present.
func (a *AssetRecord) RemoveTag(tag string) bool {
	tags, ok := removeTag(a.Tags, tag)
	if ok {
		a.Tags = tags
		a.touch()
	}
	return ok
}

// RenameTag replaces oldName with newName, preserving position.
func (a *AssetRecord) RenameTag(oldName, newName string) bool {
	tags, ok := renameTag(a.Tags, oldName, newName)
	if ok {
		a.Tags = tags
		a.touch()
	}
	return ok
}

// Clone returns a deep copy of the record.
func (a *AssetRecord) Clone() *AssetRecord {
	c := *a
	c.Tags = slices.Clone(a.Tags)
	if a.Marketplace != nil {
		m := *a.Marketplace
		c.Marketplace = &m
	}
	return &c
}

// Equivalent reports whether two records agree on the fields the
// verify pass compares: name, size, extension, folder and tag set.
func (a *AssetRecord) Equivalent(b *AssetRecord) bool {
	return a.Name == b.Name &&
		a.Size == b.Size &&
		a.Extension == b.Extension &&
		a.FolderID == b.FolderID &&
		slices.Equal(a.Tags, b.Tags)
}
