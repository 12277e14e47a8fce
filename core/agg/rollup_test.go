package agg

import (
	"testing"
	"time"

	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollupItems(t *testing.T) {
	rollups := RollupItems(generateMixedSession())
	require.Len(t, rollups, 6)

	first := rollups[0]
	assert.Equal(t, int64(995), first.ID)
	assert.Equal(t, "Coins", first.Name)
	assert.Equal(t, int64(1750), first.Quantity)
	assert.Equal(t, int64(1750), first.TotalValue)
	assert.Equal(t, baseTime.Add(8*time.Minute).Unix(), first.LastSeen)

	assert.Equal(t, int64(7500), rollups[4].TotalValue, "dragon bones 3 x 2500")
}

func TestRollupItems_Fallbacks(t *testing.T) {
	records := []schema.HydratedRecord{
		{Timestamp: 1, ItemID: 42, Quantity: 2, Item: schema.ItemReference{ID: 42, Price: 5}},
	}
	rollups := RollupItems(records)
	require.Len(t, rollups, 1)
	assert.Equal(t, "Item 42", rollups[0].Name)
	assert.Equal(t, schema.RarityUnknown, rollups[0].Rarity)
	assert.Equal(t, int64(10), rollups[0].TotalValue)
}

func TestSortTopItems(t *testing.T) {
	rollups := []schema.ItemRollup{
		{ID: 1, Name: "Orange tier", Rarity: schema.RarityOrange, TotalValue: 5_000},
		{ID: 2, Name: "Common drop", Rarity: "Common", TotalValue: 10},
		{ID: 3, Name: "Legendary drop", Rarity: "Legendary", TotalValue: 1},
		{ID: 4, Name: "White tier", Rarity: schema.RarityWhite, TotalValue: 9_000},
		{ID: 5, Name: "Epic drop", Rarity: "Epic", TotalValue: 3},
		{ID: 6, Name: "Green tier", Rarity: schema.RarityGreen, TotalValue: 5_000},
	}

	sorted := SortTopItems(rollups)
	ids := make([]int64, 0, len(sorted))
	for _, r := range sorted {
		ids = append(ids, r.ID)
	}
	// Drop labels outrank price tiers, which all share rank 0 and fall back to value.
	// Ties keep input order.
	assert.Equal(t, []int64{3, 5, 2, 4, 1, 6}, ids)

	assert.Equal(t, int64(1), rollups[0].ID, "input is not reordered")
}

func TestDropRank(t *testing.T) {
	assert.Equal(t, 5, DropRank("Legendary"))
	assert.Equal(t, 1, DropRank("Common"))
	for _, r := range schema.AllRarities {
		assert.Zero(t, DropRank(r), "price tier %s is unranked", r)
	}
	assert.Zero(t, DropRank(schema.RarityUnknown))
}

func TestItemLogsFromRollup(t *testing.T) {
	rollups := RollupItems(generateMixedSession())
	logs := ItemLogsFromRollup(rollups)
	require.Len(t, logs, len(rollups))
	for i, l := range logs {
		require.NotNil(t, l.ID)
		assert.Equal(t, rollups[i].ID, *l.ID)
		assert.Equal(t, rollups[i].Name, *l.Name)
		assert.Equal(t, rollups[i].Quantity, *l.Quantity)
	}
}
