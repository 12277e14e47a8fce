package agg

import (
	"time"

	"github.com/lootlens/lootlens/schema"
)

// FilterSince keeps records at or after now-window. A zero window keeps all.
func FilterSince(records []schema.HydratedRecord, now time.Time, window time.Duration) []schema.HydratedRecord {
	if window <= 0 {
		return records
	}
	cutoff := now.Add(-window).Unix()
	kept := make([]schema.HydratedRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp >= cutoff {
			kept = append(kept, r)
		}
	}
	return kept
}

// Overview summarizes records for the dashboard headline.
func Overview(records []schema.HydratedRecord, now time.Time) schema.Overview {
	unique := make(map[int64]struct{})
	var o schema.Overview
	for _, r := range records {
		unique[r.ItemID] = struct{}{}
		o.TotalQuantity += r.Quantity
		o.TotalValue += r.Value()
		if r.ItemID == schema.CoinsItemID {
			o.GoldValue += r.Quantity
		}
		o.LastUpdated = max(o.LastUpdated, r.Timestamp)
	}
	o.TotalEntries = len(records)
	o.UniqueItems = len(unique)
	o.ValuePerHour = ValuePerHour(records)
	o.RollingValuePerHour = RollingValuePerHour(records, now.Unix())
	o.Runtime = Runtime(records)
	return o
}
