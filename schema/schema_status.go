package schema

import "time"

// StoreStatus represents the status of the item store.
type StoreStatus struct {
	Backend         string       `json:"backend"`
	Connected       bool         `json:"connected"`
	TotalItems      int          `json:"total_items"`
	PricedItems     int          `json:"priced_items"`
	LastPriceUpdate time.Time    `json:"last_price_update"`
	Refresh         RefreshState `json:"refresh"`
	TotalSettings   int          `json:"total_settings"`
}

// RefreshState is the persisted state of the price refresh job.
type RefreshState struct {
	Status      RefreshStatus `json:"status"`
	LastUpdated time.Time     `json:"last_updated"`
}

// Setting is a persisted key-value pair.
type Setting struct {
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	Updated time.Time `json:"updated"`
}

// Setting keys.
const (
	LogDirSetting = "log_dir"
)
