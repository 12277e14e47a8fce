package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Bundled(t *testing.T) {
	items, err := LoadCatalog("")
	require.NoError(t, err)
	require.NotEmpty(t, items)

	ids := make(map[int64]string, len(items))
	for _, item := range items {
		ids[item.ID] = item.Name
	}
	assert.Equal(t, "Coins", ids[schema.CoinsItemID])
	assert.Equal(t, "Abyssal whip", ids[4151])
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":4151,"name":"Abyssal whip","alch":72000,"tradable":true}]`), 0o644))

	items, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, []schema.CatalogItem{{ID: 4151, Name: "Abyssal whip", Alch: 72000, Tradable: true}}, items)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"not an array", `{"id":1}`},
		{"zero id", `[{"id":0,"name":"Nothing"}]`},
		{"empty name", `[{"id":1,"name":""}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
