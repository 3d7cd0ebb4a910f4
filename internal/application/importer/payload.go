package importer

import (
	"encoding/json"
	"fmt"
)

// The marketplace feed arrives either as a bare JSON array of shops or
// as an object wrapping that array under "shops". Both forms are
// accepted; anything else is rejected before reconciliation starts.

// Shop is one vendor in the feed.
type Shop struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// Item is one product listing. Each item may carry several
// downloadable files.
type Item struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Files       []File `json:"files"`
}

// File is one downloadable file of an item.
type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

type wrappedPayload struct {
	Shops []Shop `json:"shops"`
}

// ParsePayload decodes a feed payload in either accepted form.
func ParsePayload(data []byte) ([]Shop, error) {
	var shops []Shop
	if err := json.Unmarshal(data, &shops); err == nil {
		return shops, nil
	}

	var wrapped wrappedPayload
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("malformed import payload: %w", err)
	}
	if wrapped.Shops == nil {
		return nil, fmt.Errorf("malformed import payload: no shop list found")
	}
	return wrapped.Shops, nil
}
