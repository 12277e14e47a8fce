package agg

import (
	"fmt"
	"time"

	"github.com/lootlens/lootlens/schema"
)

// ActivityByHour counts records per hour of the day in loc.
func ActivityByHour(records []schema.HydratedRecord, loc *time.Location) []schema.HourActivity {
	grid := ActivityHeatmap(records, loc)
	rows := make([]schema.HourActivity, 24)
	for hour := range rows {
		rows[hour].Hour = fmt.Sprintf("%02d:00", hour)
		for day := range grid {
			rows[hour].Count += grid[day][hour]
		}
	}
	return rows
}

// ActivityByDay counts records per weekday in loc, starting on Sunday.
func ActivityByDay(records []schema.HydratedRecord, loc *time.Location) []schema.DayActivity {
	grid := ActivityHeatmap(records, loc)
	rows := make([]schema.DayActivity, len(grid))
	for day, hours := range grid {
		rows[day].Day = time.Weekday(day).String()
		for _, n := range hours {
			rows[day].Count += n
		}
	}
	return rows
}

// GroupByRarity sums item quantities per tier. Entries without a tier are
// grouped as Unknown. Groups keep first-seen order.
func GroupByRarity(items []schema.ItemLog) []schema.RarityGroup {
	index := make(map[schema.Rarity]int)
	groups := make([]schema.RarityGroup, 0)

	for _, it := range items {
		rarity := schema.RarityUnknown
		if it.Rarity != nil {
			rarity = it.Rarity.OrUnknown()
		}
		i, ok := index[rarity]
		if !ok {
			groups = append(groups, schema.RarityGroup{Rarity: rarity, Items: []schema.RarityGroupItem{}})
			i = len(groups) - 1
			index[rarity] = i
		}

		var item schema.RarityGroupItem
		if it.ID != nil {
			item.ID = *it.ID
		}
		item.Name = displayName(it)
		if it.Quantity != nil {
			item.Quantity = *it.Quantity
		}
		groups[i].Count += item.Quantity
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// ValueQuantityPoints returns one scatter point per item. Missing names and
// tiers fall back to a placeholder label instead of dropping the item.
func ValueQuantityPoints(items []schema.ItemLog) []schema.ValueQuantityPoint {
	points := make([]schema.ValueQuantityPoint, 0, len(items))
	for _, it := range items {
		p := schema.ValueQuantityPoint{
			ItemID: itemKey(it.ID),
			Name:   displayName(it),
			Rarity: schema.RarityUnknown,
		}
		if it.Price != nil {
			p.Value = *it.Price
		}
		if it.Quantity != nil {
			p.Quantity = *it.Quantity
		}
		if it.Rarity != nil {
			p.Rarity = it.Rarity.OrUnknown()
		}
		points = append(points, p)
	}
	return points
}

func displayName(it schema.ItemLog) string {
	if it.Name != nil && *it.Name != "" {
		return *it.Name
	}
	if it.ID != nil {
		return FallbackItemName(*it.ID)
	}
	return schema.UnknownItemName
}
