package agg

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lootlens/lootlens/schema"
)

// DefaultInterval is the bucket width used when none is given.
const DefaultInterval int64 = 300

// BucketStart returns the start of the bucket that contains ts.
func BucketStart(ts, interval int64) int64 {
	if interval <= 0 {
		interval = DefaultInterval
	}
	start := (ts / interval) * interval
	if ts < 0 && ts%interval != 0 {
		start -= interval // floor, not truncation, for times before the epoch
	}
	return start
}

// IncomeSeries groups records into time buckets and sums their value.
// Buckets are sorted by start time. Within a bucket the last rare record
// in input order sets the rare marker. Records of unknown items are left out.
func IncomeSeries(records []schema.HydratedRecord, interval int64) []schema.IncomeBucket {
	buckets := make(map[int64]*schema.IncomeBucket)

	for _, r := range records {
		if r.Item.ID == 0 {
			continue
		}
		key := BucketStart(r.Timestamp, interval)
		value := r.Value()

		b, ok := buckets[key]
		if !ok {
			b = &schema.IncomeBucket{
				Timestamp: key,
				Range:     [2]int64{value, value},
				Items:     []string{},
			}
			buckets[key] = b
		}

		b.Value += value
		b.Records++
		b.Range[0] = min(b.Range[0], value)
		b.Range[1] = max(b.Range[1], value)

		if !slices.Contains(b.Items, r.Item.Name) {
			b.Items = append(b.Items, r.Item.Name)
		}
		if r.Item.Rarity.IsRare() {
			b.Rare = &schema.RareMarker{Value: value, Name: strings.ToUpper(r.Item.Name)}
		}
	}

	series := make([]schema.IncomeBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Average = b.Value / int64(b.Records)
		series = append(series, *b)
	}
	slices.SortFunc(series, func(a, b schema.IncomeBucket) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return series
}
