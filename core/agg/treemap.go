package agg

import "github.com/lootlens/lootlens/schema"

// Treemap groups items by tier with leaf size quantity*price.
// Entries missing any required field are left out. A blank rarity groups
// under Unknown and a blank name becomes "Item <id>".
// Groups keep first-seen order.
func Treemap(items []schema.ItemLog) []schema.TreemapGroup {
	index := make(map[schema.Rarity]int)
	groups := make([]schema.TreemapGroup, 0)

	for _, it := range items {
		if it.ID == nil || it.Name == nil || it.Price == nil || it.Quantity == nil || it.Rarity == nil {
			continue
		}
		rarity := it.Rarity.OrUnknown()
		name := *it.Name
		if name == "" {
			name = FallbackItemName(*it.ID)
		}

		i, ok := index[rarity]
		if !ok {
			groups = append(groups, schema.TreemapGroup{Name: string(rarity), Children: []schema.TreemapLeaf{}})
			i = len(groups) - 1
			index[rarity] = i
		}
		groups[i].Children = append(groups[i].Children, schema.TreemapLeaf{
			Name:   name,
			Size:   *it.Quantity * *it.Price,
			ItemID: itemKey(it.ID),
		})
	}
	return groups
}
