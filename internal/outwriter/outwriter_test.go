package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var testItems = []schema.ItemRollup{
	{ID: 20997, Name: "Twisted bow", Price: 1_200_000_000, Quantity: 1, Rarity: schema.RarityOrange, TotalValue: 1_200_000_000, LastSeen: 1_704_290_820},
	{ID: 4151, Name: "Abyssal whip", Price: 1_500_000, Quantity: 2, Rarity: schema.RarityGreen, TotalValue: 3_000_000, LastSeen: 1_704_290_460},
	{ID: 995, Name: "Coins", Price: 1, Quantity: 1750, Rarity: schema.RarityWhite, TotalValue: 1750, LastSeen: 1_704_290_880},
}

// testConfig returns a config that writes plain output to a file in a temp dir.
func testConfig(t *testing.T, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	return &contract.Config{
		Output:       output,
		OutputFile:   filepath.Join(t.TempDir(), file),
		Precision:    1,
		ResultLimit:  2,
		Workers:      4,
		Width:        120,
		Location:     time.UTC,
		StoreBackend: schema.SQLiteBackend,
	}
}

func readOutput(t *testing.T, cfg *contract.Config) string {
	t.Helper()
	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	return string(content)
}

func TestWriteItems_Text(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "items.txt")

	require.NoError(t, NewOutWriter().WriteItems(testItems, cfg, 1500*time.Millisecond))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "Twisted bow")
	assert.Contains(t, out, "1.2B")
	assert.Contains(t, out, "Abyssal whip")
	assert.NotContains(t, out, "Coins", "limit keeps the first two items")
	assert.Contains(t, out, "Showing top 2 of 3 items")
	assert.Contains(t, out, "Report generated in 1.5s with 4 workers. Store backend: sqlite")
}

func TestWriteItems_CSV(t *testing.T) {
	cfg := testConfig(t, schema.CSVOut, "items.csv")
	cfg.ResultLimit = 10

	require.NoError(t, NewOutWriter().WriteItems(testItems, cfg, time.Second))

	lines := strings.Split(strings.TrimSpace(readOutput(t, cfg)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Rank,Item,ID,Rarity,Quantity,Price,Total Value,Last Seen", lines[0])
	assert.Equal(t, "1,Twisted bow,20997,Orange,1,1200000000,1200000000,2024-01-03T14:07:00Z", lines[1])
	assert.Equal(t, "3,Coins,995,White,1750,1,1750,2024-01-03T14:08:00Z", lines[3])
}

func TestWriteIncome_JSON(t *testing.T) {
	cfg := testConfig(t, schema.JSONOut, "income.json")
	buckets := []schema.IncomeBucket{
		{Timestamp: 1_704_290_400, Value: 3000, Range: [2]int64{500, 2500}, Records: 2, Average: 1500, Items: []string{"Coins", "Dragon bones"}},
	}

	require.NoError(t, NewOutWriter().WriteIncome(buckets, cfg, time.Second))

	var decoded []schema.IncomeBucket
	require.NoError(t, json.Unmarshal([]byte(readOutput(t, cfg)), &decoded))
	assert.Equal(t, buckets, decoded)
}

func TestWriteSummary_XLSX(t *testing.T) {
	cfg := testConfig(t, schema.XLSXOut, "summary.xlsx")
	dash := schema.Dashboard{
		User:     "alice",
		Range:    "all",
		Overview: schema.Overview{TotalEntries: 3, TotalValue: 1_203_001_750},
		Items:    testItems,
		Heatmap:  []schema.HeatmapRow{{Name: "Wednesday", Data: make([]int, 24)}},
	}

	require.NoError(t, NewOutWriter().WriteSummary(dash, cfg, time.Second))

	f, err := excelize.OpenFile(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	assert.Equal(t, "Overview", sheets[0])
	assert.Contains(t, sheets, "Items")
	assert.Contains(t, sheets, "Heatmap")
	assert.Contains(t, sheets, "By Day")

	rows, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, rows, 4, "xlsx gets every item, not only the limit")
	assert.Equal(t, "Twisted bow", rows[1][1])
	assert.Equal(t, "Abyssal whip", rows[2][1])
	assert.Equal(t, "3000000", rows[2][6])
}

func TestRender_ParquetNotSupported(t *testing.T) {
	cfg := testConfig(t, schema.ParquetOut, "items.parquet")
	err := NewOutWriter().WriteItems(testItems, cfg, time.Second)
	assert.ErrorContains(t, err, "export")
}

func TestWriteSettings_Text(t *testing.T) {
	cfg := testConfig(t, schema.TextOut, "settings.txt")
	settings := []schema.Setting{
		{Key: schema.LogDirSetting, Value: "/logs", Updated: time.Unix(1_704_290_400, 0)},
	}

	require.NoError(t, NewOutWriter().WriteSettings(settings, cfg))

	out := readOutput(t, cfg)
	assert.Contains(t, out, "/logs")
	assert.Contains(t, out, "2024-01-03T14:00:00Z")
	assert.NotContains(t, out, "Report generated")
}

func TestFormatRow(t *testing.T) {
	row := []any{itemName("Scythe of vitur (uncharged)"), coins(1_500_000), schema.Rarity(""), timestamp(0), 0.5, int64(7), 3}
	cfg := &contract.Config{Precision: 2, Location: time.UTC}

	assert.Equal(t,
		[]string{"Scythe of vit...", "1.50M", "Unknown", "", "0.50", "7", "3"},
		formatRow(row, cfg, 16, true))
	assert.Equal(t,
		[]string{"Scythe of vitur (uncharged)", "1500000", "Unknown", "", "0.50", "7", "3"},
		formatRow(row, cfg, 16, false))
}

func TestRarityTables(t *testing.T) {
	timeline := schema.RarityTimeline{
		Buckets: []int64{0, 300},
		Series: []schema.RaritySeries{
			{Name: "White", Data: []int64{10, 0}},
			{Name: "Purple", Data: []int64{0, 120_000_000}},
		},
		Annotations: []schema.Annotation{{Timestamp: 300, Name: "Armadyl godsword", Rarity: schema.RarityPurple}},
	}

	tables := rarityTables(timeline)
	require.Len(t, tables, 2)
	assert.Equal(t, []string{"Bucket", "White", "Purple"}, tables[0].Header)
	assert.Equal(t, []any{timestamp(300), coins(0), coins(120_000_000)}, tables[0].Rows[1])
	assert.Len(t, tables[1].Rows, 1)
}

func TestGetMaxTableNameWidth(t *testing.T) {
	assert.Equal(t, 48, GetMaxTableNameWidth(&contract.Config{Width: 200}, 2))
	assert.Equal(t, 12, GetMaxTableNameWidth(&contract.Config{Width: 40}, 8))
	assert.Equal(t, 20, GetMaxTableNameWidth(&contract.Config{Width: 60}, 4))
}

func TestLimitItems(t *testing.T) {
	assert.Len(t, limitItems(testItems, 0), 3)
	assert.Len(t, limitItems(testItems, 1), 1)
	assert.Len(t, limitItems(testItems, 10), 3)
}
