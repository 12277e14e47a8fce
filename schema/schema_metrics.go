package schema

// IncomeBucket is the income collected within one time bucket.
type IncomeBucket struct {
	Timestamp int64       `json:"timestamp"` // bucket start, Unix seconds
	Value     int64       `json:"value"`
	Range     [2]int64    `json:"range"` // min and max single-record value
	Records   int         `json:"records"`
	Average   int64       `json:"average"`
	Items     []string    `json:"items"`
	Rare      *RareMarker `json:"rare,omitempty"`
}

// RareMarker flags a bucket that contains a rare drop.
type RareMarker struct {
	Value int64  `json:"value"`
	Name  string `json:"name"`
}

// RaritySeries is the per-bucket value of one tier, aligned with RarityTimeline.Buckets.
type RaritySeries struct {
	Name string  `json:"name"`
	Data []int64 `json:"data"`
}

// Annotation marks a single notable drop on a chart.
type Annotation struct {
	Timestamp int64  `json:"timestamp"` // bucket start, Unix seconds
	Name      string `json:"name"`
	Rarity    Rarity `json:"rarity"`
	Color     string `json:"color"`
}

// RarityTimeline holds stacked value series keyed by tier.
type RarityTimeline struct {
	Buckets     []int64        `json:"buckets"`
	Series      []RaritySeries `json:"series"`
	Annotations []Annotation   `json:"annotations"`
}

// Heatmap counts records by weekday (0=Sunday) and hour of day.
type Heatmap [7][24]int

// HeatmapRow is one weekday of a Heatmap.
type HeatmapRow struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// ItemRollup is the total of all drops of a single item.
type ItemRollup struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      int64  `json:"price"`
	Quantity   int64  `json:"quantity"`
	Rarity     Rarity `json:"rarity"`
	TotalValue int64  `json:"total_value"`
	LastSeen   int64  `json:"last_seen"`
}

// ItemLog is a loosely populated item entry. Nil fields are unknown.
type ItemLog struct {
	ID       *int64  `json:"id,omitempty"`
	Name     *string `json:"name,omitempty"`
	Price    *int64  `json:"price,omitempty"`
	Quantity *int64  `json:"quantity,omitempty"`
	Rarity   *Rarity `json:"rarity,omitempty"`
}

// TreemapLeaf is one item within a treemap group.
type TreemapLeaf struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	ItemID string `json:"item_id"`
}

// TreemapGroup is a tier and its items.
type TreemapGroup struct {
	Name     string        `json:"name"`
	Children []TreemapLeaf `json:"children"`
}

// RuntimeSummary is the total active time derived from session detection.
type RuntimeSummary struct {
	Seconds  int64  `json:"seconds"`
	Sessions int    `json:"sessions"`
	Hours    int64  `json:"hours"`
	Minutes  int64  `json:"minutes"`
	Text     string `json:"text"`
}

// HourActivity is the record count for one hour of the day.
type HourActivity struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// DayActivity is the record count for one weekday.
type DayActivity struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// RarityGroupItem is an item listed in a RarityGroup.
type RarityGroupItem struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// RarityGroup sums quantities of items sharing a tier.
type RarityGroup struct {
	Rarity Rarity            `json:"rarity"`
	Count  int64             `json:"count"`
	Items  []RarityGroupItem `json:"items"`
}

// ValueQuantityPoint is one point of the price versus quantity scatter.
type ValueQuantityPoint struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Value    int64  `json:"value"`
	Quantity int64  `json:"quantity"`
	Rarity   Rarity `json:"rarity"`
}

// Overview is the headline summary of a set of records.
type Overview struct {
	TotalEntries        int            `json:"total_entries"`
	UniqueItems         int            `json:"unique_items"`
	TotalQuantity       int64          `json:"total_quantity"`
	TotalValue          int64          `json:"total_value"`
	GoldValue           int64          `json:"gold_value"`
	LastUpdated         int64          `json:"last_updated"` // latest record, Unix seconds
	ValuePerHour        int64          `json:"value_per_hour"`
	RollingValuePerHour int64          `json:"rolling_value_per_hour"`
	Runtime             RuntimeSummary `json:"runtime"`
}

// Dashboard bundles every view computed for one user and time range.
type Dashboard struct {
	User        string               `json:"user"`
	Range       string               `json:"range"`
	GeneratedAt int64                `json:"generated_at"`
	Overview    Overview             `json:"overview"`
	Income      []IncomeBucket       `json:"income"`
	Rarity      RarityTimeline       `json:"rarity"`
	Heatmap     []HeatmapRow         `json:"heatmap"`
	Items       []ItemRollup         `json:"items"`
	Treemap     []TreemapGroup       `json:"treemap"`
	Groups      []RarityGroup        `json:"groups"`
	Correlation float64              `json:"correlation"`
	Scatter     []ValueQuantityPoint `json:"scatter"`
	ByHour      []HourActivity       `json:"by_hour"`
	ByDay       []DayActivity        `json:"by_day"`
}
