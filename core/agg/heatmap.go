package agg

import (
	"time"

	"github.com/lootlens/lootlens/schema"
)

// ActivityHeatmap counts records by weekday and hour in loc.
// A nil loc means UTC.
func ActivityHeatmap(records []schema.HydratedRecord, loc *time.Location) schema.Heatmap {
	if loc == nil {
		loc = time.UTC
	}
	var grid schema.Heatmap
	for _, r := range records {
		t := time.Unix(r.Timestamp, 0).In(loc)
		grid[t.Weekday()][t.Hour()]++
	}
	return grid
}

// HeatmapSeries names the heatmap rows Sunday to Saturday.
func HeatmapSeries(grid schema.Heatmap) []schema.HeatmapRow {
	rows := make([]schema.HeatmapRow, 0, len(grid))
	for day, hours := range grid {
		data := make([]int, len(hours))
		copy(data, hours[:])
		rows = append(rows, schema.HeatmapRow{Name: time.Weekday(day).String(), Data: data})
	}
	return rows
}
