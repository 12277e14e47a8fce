package pricing

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lootlens/lootlens/schema"
)

//go:embed catalog.json
var defaultCatalog []byte

// LoadCatalog reads the item catalog at path, or the bundled catalog when path is empty.
func LoadCatalog(path string) ([]schema.CatalogItem, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
		}
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a JSON array of catalog items.
// Entries with a non-positive id or an empty name are rejected.
func ParseCatalog(data []byte) ([]schema.CatalogItem, error) {
	var items []schema.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i, item := range items {
		if item.ID <= 0 || item.Name == "" {
			return nil, fmt.Errorf("invalid catalog entry at index %d: id=%d name=%q", i, item.ID, item.Name)
		}
	}
	return items, nil
}
