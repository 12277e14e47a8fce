package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFormatters(t *testing.T) {
	tests := []struct {
		name      string
		precision int
		value     float64
		coins     int64
		expFloat  string
		expCoins  string
	}{
		{name: "precision 0", precision: 0, value: 0.8731, coins: 2_400, expFloat: "1", expCoins: "2K"},
		{name: "precision 2", precision: 2, value: 0.8731, coins: 1_234_567, expFloat: "0.87", expCoins: "1.23M"},
		{name: "negative value", precision: 1, value: -0.26, coins: 999, expFloat: "-0.3", expCoins: "999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fmtFloat, fmtCoins := createFormatters(tt.precision)
			assert.Equal(t, tt.expFloat, fmtFloat(tt.value))
			assert.Equal(t, tt.expCoins, fmtCoins(tt.coins))
		})
	}
}

func TestOutputSummary(t *testing.T) {
	assert.Equal(t, "💾 Wrote csv report (2 tables, 1.5 kB) to drops.csv", outputSummary(schema.CSVOut, 2, 1500, "drops.csv"))
	assert.Equal(t, "💾 Wrote xlsx report (3 sheets, 12 kB) to drops.xlsx", outputSummary(schema.XLSXOut, 3, 12_000, "drops.xlsx"))
	assert.Equal(t, "💾 Wrote text report (1 table, 0 B) to drops.txt", outputSummary("", 1, 0, "drops.txt"))
}

func TestCountingWriter(t *testing.T) {
	var buf bytes.Buffer
	counter := &countingWriter{w: &buf}
	_, err := counter.Write([]byte("100,995,5\n"))
	require.NoError(t, err)
	_, err = counter.Write([]byte("200,4151,1\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(21), counter.n)
	assert.Equal(t, "100,995,5\n200,4151,1\n", buf.String())
}

func TestWriteOutput(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		cfg := &contract.Config{Output: schema.TextOut, OutputFile: path}
		err := writeOutput(cfg, 1, func(w io.Writer) error {
			_, err := w.Write([]byte("drops"))
			return err
		})
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "drops", string(content))
	})

	t.Run("writer error", func(t *testing.T) {
		cfg := &contract.Config{OutputFile: filepath.Join(t.TempDir(), "out.txt")}
		err := writeOutput(cfg, 1, func(io.Writer) error {
			return assert.AnError
		})
		assert.Equal(t, assert.AnError, err)
	})

	t.Run("invalid path", func(t *testing.T) {
		cfg := &contract.Config{OutputFile: filepath.Join(t.TempDir(), "missing", "out.txt")}
		err := writeOutput(cfg, 1, func(io.Writer) error {
			return nil
		})
		assert.Error(t, err)
	})
}

func TestWriteCSVTables(t *testing.T) {
	cfg := &contract.Config{Precision: 1, Location: time.UTC}
	tables := []table{
		{Sheet: "Items", Header: []string{"item", "value"}, Rows: [][]any{{itemName("Dragon bones, noted"), int64(2500)}}},
		{Sheet: "Sources", Header: []string{"source", "drops"}, Rows: [][]any{{"Vorkath", 3}}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeCSVTables(&buf, tables, cfg))
	assert.Equal(t, "item,value\n\"Dragon bones, noted\",2500\n\nsource,drops\nVorkath,3\n", buf.String())
}
