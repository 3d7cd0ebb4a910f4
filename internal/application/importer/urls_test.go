package importer

import "testing"

func TestExtractDownloadID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://market.example/downloadables/123", "123"},
		{"https://market.example/downloadables/123?via=feed", "123"},
		{"https://market.example/items/123", ""},
		{"https://market.example/downloadables/abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractDownloadID(tt.url); got != tt.want {
			t.Errorf("extractDownloadID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://someshop.market.example/items/4242", "4242"},
		{"https://someshop.market.example/items/4242/reviews", "4242"},
		{"https://someshop.market.example/downloadables/4242", ""},
		{"not a url", ""},
	}
	for _, tt := range tests {
		if got := extractItemID(tt.url); got != tt.want {
			t.Errorf("extractItemID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestExtractHost(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://someshop.market.example/", "someshop.market.example"},
		{"http://SomeShop.Market.Example/items/1", "someshop.market.example"},
		{"https://market.example", "market.example"},
		{"ftp://market.example/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := extractHost(tt.url); got != tt.want {
			t.Errorf("extractHost(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestFilenameHelpers(t *testing.T) {
	if got := filenameStem("hair_v1.zip"); got != "hair_v1" {
		t.Errorf("filenameStem = %q", got)
	}
	if got := filenameStem("noext"); got != "noext" {
		t.Errorf("filenameStem = %q", got)
	}
	if got := fileExtension("hair_v1.zip"); got != "zip" {
		t.Errorf("fileExtension = %q", got)
	}
	if got := fileExtension("noext"); got != "" {
		t.Errorf("fileExtension = %q", got)
	}
}
