package domain

import (
	"slices"
	"strings"
)

// Tag sets are insertion-ordered and never contain duplicates or empty
// strings. Assets and folders share these helpers.

func addTag(tags []string, tag string) ([]string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" || slices.Contains(tags, tag) {
		return tags, false
	}
	return append(tags, tag), true
}

func removeTag(tags []string, tag string) ([]string, bool) {
	i := slices.Index(tags, tag)
	if i < 0 {
		return tags, false
	}
	return slices.Delete(tags, i, i+1), true
}

// renameTag replaces oldName with newName in place, preserving the
// tag's position. If newName is already present the old entry is
// dropped instead, keeping the set free of duplicates. Renaming a tag
// to itself is a no-op, not a drop.
func renameTag(tags []string, oldName, newName string) ([]string, bool) {
	if oldName == newName {
		return tags, false
	}
	i := slices.Index(tags, oldName)
	if i < 0 {
		return tags, false
	}
	if slices.Contains(tags, newName) {
		return slices.Delete(tags, i, i+1), true
	}
	tags[i] = newName
	return tags, true
}
