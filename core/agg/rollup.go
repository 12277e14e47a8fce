package agg

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/lootlens/lootlens/schema"
)

// dropRank orders the drop-rarity labels used by the top items view.
// These labels are a separate taxonomy from the price tiers, which all rank 0.
var dropRank = map[string]int{
	"Legendary": 5,
	"Epic":      4,
	"Rare":      3,
	"Uncommon":  2,
	"Common":    1,
}

// DropRank returns the top items rank of a rarity label, 0 when unranked.
func DropRank(r schema.Rarity) int {
	return dropRank[string(r)]
}

// FallbackItemName is the display name of an item whose name is unknown.
func FallbackItemName(id int64) string {
	return fmt.Sprintf("Item %d", id)
}

// RollupItems groups records by item id and sums their quantities.
// Entries are returned in first-seen order.
func RollupItems(records []schema.HydratedRecord) []schema.ItemRollup {
	index := make(map[int64]int)
	rollups := make([]schema.ItemRollup, 0)

	for _, r := range records {
		i, ok := index[r.ItemID]
		if !ok {
			name := r.Item.Name
			if name == "" {
				name = FallbackItemName(r.ItemID)
			}
			rollups = append(rollups, schema.ItemRollup{
				ID:     r.ItemID,
				Name:   name,
				Price:  r.Item.Price,
				Rarity: r.Item.Rarity.OrUnknown(),
			})
			i = len(rollups) - 1
			index[r.ItemID] = i
		}
		rollups[i].Quantity += r.Quantity
		rollups[i].LastSeen = max(rollups[i].LastSeen, r.Timestamp)
	}

	for i := range rollups {
		rollups[i].TotalValue = rollups[i].Quantity * rollups[i].Price
	}
	return rollups
}

// SortTopItems returns a copy of rollups sorted by rank, then total value, both descending.
func SortTopItems(rollups []schema.ItemRollup) []schema.ItemRollup {
	sorted := slices.Clone(rollups)
	slices.SortStableFunc(sorted, func(a, b schema.ItemRollup) int {
		if c := cmp.Compare(DropRank(b.Rarity), DropRank(a.Rarity)); c != 0 {
			return c
		}
		return cmp.Compare(b.TotalValue, a.TotalValue)
	})
	return sorted
}

// ItemLogsFromRollup converts rollups to loosely populated item entries.
func ItemLogsFromRollup(rollups []schema.ItemRollup) []schema.ItemLog {
	logs := make([]schema.ItemLog, 0, len(rollups))
	for _, r := range rollups {
		logs = append(logs, schema.ItemLog{
			ID:       &r.ID,
			Name:     &r.Name,
			Price:    &r.Price,
			Quantity: &r.Quantity,
			Rarity:   &r.Rarity,
		})
	}
	return logs
}

// itemKey renders an item id as used by chart payloads.
func itemKey(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
