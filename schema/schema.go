// Package schema has the records, reference data and report models shared by all parts of lootlens.
package schema

import "time"

// DropRecord is one observed item pickup, parsed from a single log line.
type DropRecord struct {
	Timestamp int64 `json:"timestamp"` // Unix seconds
	ItemID    int64 `json:"item_id"`
	Quantity  int64 `json:"quantity"`
}

// ItemReference is the descriptive and price data known for an item.
type ItemReference struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Price           int64     `json:"price"`
	Alch            int64     `json:"alch"`
	Rarity          Rarity    `json:"rarity"`
	Tradable        bool      `json:"tradable"`
	Stackable       bool      `json:"stackable"`
	LastPriceUpdate time.Time `json:"last_price_update"`
}

// HydratedRecord is a DropRecord joined with its ItemReference.
type HydratedRecord struct {
	Timestamp int64         `json:"timestamp"`
	ItemID    int64         `json:"item_id"`
	Quantity  int64         `json:"quantity"`
	Item      ItemReference `json:"item"`
}

// Value is the quantity multiplied by the item price.
func (r HydratedRecord) Value() int64 {
	return r.Quantity * r.Item.Price
}

// UnknownItemName is the display name of the placeholder item.
const UnknownItemName = "Unknown"

// UnknownItem returns the placeholder used when an item id has no reference entry.
func UnknownItem() ItemReference {
	return ItemReference{
		ID:     0,
		Name:   UnknownItemName,
		Price:  0,
		Alch:   0,
		Rarity: RarityWhite,
	}
}

// CatalogItem is one entry of the static item catalog that the price refresh
// joins against remote prices.
type CatalogItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Alch      int64  `json:"alch"`
	Tradable  bool   `json:"tradable"`
	Stackable bool   `json:"stackable"`
}

// ChangeEvent is published when watched log files change.
type ChangeEvent struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Files     []string  `json:"files"`
}
