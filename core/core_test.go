package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/internal/iocache"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// writeTestLogs creates a log directory with two users.
func writeTestLogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.log"), []byte(testLog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.log"), []byte("1704290700,4151,1"), 0o644))
	return dir
}

func testExecConfig(t *testing.T, dir string, output schema.OutputMode, file string) *contract.Config {
	t.Helper()
	cfg := testPipelineConfig()
	cfg.LogDir = dir
	cfg.Output = output
	cfg.OutputFile = filepath.Join(t.TempDir(), file)
	cfg.ResultLimit = contract.DefaultResultLimit
	return cfg
}

func TestExecuteSummary_JSON(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTestLogs(t)
	cfg := testExecConfig(t, dir, schema.JSONOut, "summary.json")

	require.NoError(t, ExecuteSummary(WithSuppressHeader(context.Background()), cfg, mgr))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var dash schema.Dashboard
	require.NoError(t, json.Unmarshal(content, &dash))
	assert.Equal(t, 4, dash.Overview.TotalEntries)
	assert.Equal(t, int64(3_001_500), dash.Overview.TotalValue)
	assert.Equal(t, "Abyssal whip", dash.Items[0].Name)
}

func TestExecuteItems_SingleUserCSV(t *testing.T) {
	mgr, _ := newTestManager(t)
	cfg := testExecConfig(t, writeTestLogs(t), schema.CSVOut, "items.csv")
	cfg.User = "bob"

	require.NoError(t, ExecuteItems(WithSuppressHeader(context.Background()), cfg, mgr))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "1,Abyssal whip,4151,Green,1,1500000,1500000,")
	assert.NotContains(t, string(content), "Coins")
}

func TestExecuteExport_Parquet(t *testing.T) {
	mgr, _ := newTestManager(t)
	cfg := testExecConfig(t, writeTestLogs(t), schema.ParquetOut, "drops.parquet")

	require.NoError(t, ExecuteExport(WithSuppressHeader(context.Background()), cfg, mgr))

	assert.FileExists(t, cfg.OutputFile)
	assert.FileExists(t, ItemsParquetPath(cfg.OutputFile))
}

func TestExecuteExport_ParquetNeedsFile(t *testing.T) {
	mgr, _ := newTestManager(t)
	cfg := testExecConfig(t, writeTestLogs(t), schema.ParquetOut, "")
	cfg.OutputFile = ""

	err := ExecuteExport(WithSuppressHeader(context.Background()), cfg, mgr)
	assert.ErrorContains(t, err, "--output-file")
}

func TestItemsParquetPath(t *testing.T) {
	assert.Equal(t, "/tmp/drops.items.parquet", ItemsParquetPath("/tmp/drops.parquet"))
	assert.Equal(t, "export.items", ItemsParquetPath("export"))
}

func TestExecuteUsers(t *testing.T) {
	mgr, _ := newTestManager(t)
	cfg := testExecConfig(t, writeTestLogs(t), schema.JSONOut, "users.json")

	require.NoError(t, ExecuteUsers(context.Background(), cfg, mgr))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var users []string
	require.NoError(t, json.Unmarshal(content, &users))
	assert.Equal(t, []string{"alice", "bob"}, users)
}

func TestClearUserLog(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTestLogs(t)
	cfg := testExecConfig(t, dir, schema.TextOut, "")

	// Clearing every log at once is refused
	assert.Error(t, ExecuteClear(context.Background(), cfg, mgr))

	cfg.User = "alice"
	require.NoError(t, ExecuteClear(context.Background(), cfg, mgr))
	info, err := os.Stat(filepath.Join(dir, "alice.log"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	source := &contract.MockLogSource{}
	source.On("ClearUserLog", mock.Anything, dir, "bob").Return(assert.AnError)
	cfg.User = "bob"
	assert.ErrorIs(t, clearUserLog(context.Background(), cfg, mgr, source), assert.AnError)
}

func TestExecuteSettings(t *testing.T) {
	mgr, store := newTestManager(t)
	cfg := testExecConfig(t, "/var/lootlens/logs", schema.JSONOut, "settings.json")

	require.NoError(t, ExecuteSettings(context.Background(), cfg, mgr))

	dir, err := store.GetSetting(context.Background(), schema.LogDirSetting)
	require.NoError(t, err)
	assert.Equal(t, "/var/lootlens/logs", dir)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var settings []schema.Setting
	require.NoError(t, json.Unmarshal(content, &settings))
	require.Len(t, settings, 1)
	assert.Equal(t, schema.LogDirSetting, settings[0].Key)
}

func TestExecuteSettings_NoStore(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetItemStore").Return(nil)
	assert.ErrorIs(t, ExecuteSettings(context.Background(), &contract.Config{}, mgr), contract.ErrStoreUnavailable)
}

func TestExecuteReports_Text(t *testing.T) {
	dir := writeTestLogs(t)
	executors := map[string]ExecutorFunc{
		"income":  ExecuteIncome,
		"rarity":  ExecuteRarity,
		"heatmap": ExecuteHeatmap,
		"treemap": ExecuteTreemap,
		"runtime": ExecuteRuntime,
	}

	for name, execute := range executors {
		t.Run(name, func(t *testing.T) {
			mgr, _ := newTestManager(t)
			cfg := testExecConfig(t, dir, schema.TextOut, name+".txt")
			cfg.Width = 200

			start := time.Now()
			require.NoError(t, execute(WithSuppressHeader(context.Background()), cfg, mgr))

			content, err := os.ReadFile(cfg.OutputFile)
			require.NoError(t, err)
			assert.Contains(t, string(content), "Report generated in")
			assert.Less(t, time.Since(start), 10*time.Second)
		})
	}
}
