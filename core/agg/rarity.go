package agg

import (
	"slices"

	"github.com/lootlens/lootlens/schema"
)

// RaritySeries sums record value per bucket and tier, and emits one
// annotation per notable record. Series are in first-seen tier order and
// their data is aligned with the sorted buckets.
func RaritySeries(records []schema.HydratedRecord, interval int64) schema.RarityTimeline {
	sums := make(map[schema.Rarity]map[int64]int64)
	order := make([]schema.Rarity, 0, len(schema.AllRarities)+1)
	seenBuckets := make(map[int64]struct{})
	annotations := make([]schema.Annotation, 0)

	for _, r := range records {
		key := BucketStart(r.Timestamp, interval)
		rarity := r.Item.Rarity.OrUnknown()

		if _, ok := sums[rarity]; !ok {
			sums[rarity] = make(map[int64]int64)
			order = append(order, rarity)
		}
		sums[rarity][key] += r.Value()
		seenBuckets[key] = struct{}{}

		if rarity.IsNotable() {
			annotations = append(annotations, schema.Annotation{
				Timestamp: key,
				Name:      r.Item.Name,
				Rarity:    rarity,
				Color:     schema.RarityColor(rarity),
			})
		}
	}

	buckets := make([]int64, 0, len(seenBuckets))
	for k := range seenBuckets {
		buckets = append(buckets, k)
	}
	slices.Sort(buckets)

	series := make([]schema.RaritySeries, 0, len(order))
	for _, rarity := range order {
		data := make([]int64, len(buckets))
		for i, b := range buckets {
			data[i] = sums[rarity][b]
		}
		series = append(series, schema.RaritySeries{Name: string(rarity), Data: data})
	}

	return schema.RarityTimeline{
		Buckets:     buckets,
		Series:      series,
		Annotations: annotations,
	}
}
