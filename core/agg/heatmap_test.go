package agg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityHeatmap_SingleSlot(t *testing.T) {
	records := generateRecords([]dropScenario{
		{0, coins, 1},
		{10 * time.Minute, whip, 1},
		{59 * time.Minute, coins, 1},
		{30 * time.Minute, godsword, 1},
	})
	grid := ActivityHeatmap(records, time.UTC)

	for day := range grid {
		for hour := range grid[day] {
			if day == int(time.Wednesday) && hour == 14 {
				assert.Equal(t, len(records), grid[day][hour])
				continue
			}
			assert.Zero(t, grid[day][hour], "day %d hour %d", day, hour)
		}
	}
}

func TestActivityHeatmap_UsesLocation(t *testing.T) {
	records := generateRecords([]dropScenario{{0, coins, 1}})
	tokyo := time.FixedZone("UTC+9", 9*3600)

	grid := ActivityHeatmap(records, tokyo)
	assert.Equal(t, 1, grid[time.Wednesday][23])

	grid = ActivityHeatmap(records, nil)
	assert.Equal(t, 1, grid[time.Wednesday][14], "nil location means UTC")
}

func TestHeatmapSeries(t *testing.T) {
	grid := ActivityHeatmap(generateMixedSession(), time.UTC)
	rows := HeatmapSeries(grid)
	require.Len(t, rows, 7)
	assert.Equal(t, "Sunday", rows[0].Name)
	assert.Equal(t, "Saturday", rows[6].Name)
	assert.Len(t, rows[3].Data, 24)
	assert.Equal(t, 7, rows[3].Data[14])

	// Rows are copies, not views of the grid
	rows[3].Data[14] = 0
	assert.Equal(t, 7, grid[3][14])
}

func TestActivityByHourAndDay(t *testing.T) {
	records := generateRecords([]dropScenario{
		{0, coins, 1},
		{time.Hour, coins, 1},
		{24 * time.Hour, coins, 1},
	})

	byHour := ActivityByHour(records, time.UTC)
	require.Len(t, byHour, 24)
	assert.Equal(t, "00:00", byHour[0].Hour)
	assert.Equal(t, "14:00", byHour[14].Hour)
	assert.Equal(t, 2, byHour[14].Count)
	assert.Equal(t, 1, byHour[15].Count)

	byDay := ActivityByDay(records, time.UTC)
	require.Len(t, byDay, 7)
	assert.Equal(t, "Wednesday", byDay[3].Day)
	assert.Equal(t, 2, byDay[3].Count)
	assert.Equal(t, 1, byDay[4].Count)
}
