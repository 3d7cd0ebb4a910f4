package importer

import (
	"path"
	"regexp"
	"strings"
)

// Marketplace URL shapes. Download and item IDs are the numeric
// segment after a fixed path element; the shop domain is the host of
// the shop URL.
var (
	downloadIDPattern = regexp.MustCompile(`/downloadables/(\d+)`)
	itemIDPattern     = regexp.MustCompile(`/items/(\d+)`)
	hostPattern       = regexp.MustCompile(`^https?://([^/?#]+)`)
)

// extractDownloadID returns the numeric download ID embedded in a file
// URL, or an empty string.
func extractDownloadID(url string) string {
	if m := downloadIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// extractItemID returns the numeric item ID embedded in an item URL,
// or an empty string.
func extractItemID(url string) string {
	if m := itemIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// extractHost returns the host part of a URL, or an empty string.
func extractHost(url string) string {
	if m := hostPattern.FindStringSubmatch(url); m != nil {
		return strings.ToLower(m[1])
	}
	return ""
}

// filenameStem strips the extension from a source filename.
func filenameStem(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename))
}

// fileExtension returns the extension of a source filename without the
// leading dot.
func fileExtension(filename string) string {
	return strings.TrimPrefix(path.Ext(filename), ".")
}
