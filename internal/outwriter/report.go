package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Cell types that change how a value is rendered per output format.
type (
	// itemName is truncated to the terminal width in text tables.
	itemName string

	// coins is abbreviated in text tables and written raw elsewhere.
	coins int64

	// timestamp is a Unix second shown as a date time.
	timestamp int64
)

// table is one tabular view of a report.
type table struct {
	Title  string // printed above the text table
	Sheet  string // xlsx sheet name
	Header []string
	Rows   [][]any
	Footer string // printed below the text table
}

// report is what a command renders: the raw payload for JSON and its tables for the rest.
type report struct {
	Payload any
	Tables  []table
}

// render writes the report in the configured output format.
func render(rep report, cfg *contract.Config, duration time.Duration) error {
	tables := len(rep.Tables)
	switch cfg.Output {
	case schema.JSONOut:
		return writeOutput(cfg, tables, func(w io.Writer) error {
			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(rep.Payload); err != nil {
				return fmt.Errorf("failed to encode JSON: %w", err)
			}
			return nil
		})
	case schema.CSVOut:
		return writeOutput(cfg, tables, func(w io.Writer) error {
			return writeCSVTables(w, rep.Tables, cfg)
		})
	case schema.XLSXOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("xlsx output requires an output file")
		}
		return writeOutput(cfg, tables, func(w io.Writer) error {
			if err := writeXLSX(w, rep.Tables); err != nil {
				return fmt.Errorf("error writing XLSX output: %w", err)
			}
			return nil
		})
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported by the export command")
	default:
		// Default to human-readable table
		return writeOutput(cfg, tables, func(w io.Writer) error {
			return writeTextTables(w, rep.Tables, cfg, duration)
		})
	}
}

// writeTextTables renders every table with tablewriter.
func writeTextTables(w io.Writer, tables []table, cfg *contract.Config, duration time.Duration) error {
	for i, t := range tables {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if t.Title != "" {
			if _, err := fmt.Fprintln(w, t.Title); err != nil {
				return err
			}
		}

		tbl := tablewriter.NewWriter(w)
		tbl.Header(t.Header)
		tbl.Configure(func(c *tablewriter.Config) {
			c.Row.Alignment.Global = tw.AlignRight
		})

		nameWidth := GetMaxTableNameWidth(cfg, len(t.Header))
		data := make([][]string, 0, len(t.Rows))
		for _, row := range t.Rows {
			data = append(data, formatRow(row, cfg, nameWidth, true))
		}
		if err := tbl.Bulk(data); err != nil {
			return err
		}
		if err := tbl.Render(); err != nil {
			return err
		}
		if t.Footer != "" {
			if _, err := fmt.Fprintln(w, t.Footer); err != nil {
				return err
			}
		}
	}
	if duration > 0 {
		_, err := fmt.Fprintf(w, "Report generated in %v with %d workers. Store backend: %s\n", duration.Round(time.Millisecond), cfg.Workers, cfg.StoreBackend)
		return err
	}
	return nil
}

// writeCSVTables writes each table with its header, separated by a blank line.
func writeCSVTables(w io.Writer, tables []table, cfg *contract.Config) error {
	cw := csv.NewWriter(w)
	for i, t := range tables {
		if i > 0 {
			if err := cw.Write(nil); err != nil {
				return err
			}
		}
		if err := cw.Write(t.Header); err != nil {
			return fmt.Errorf("failed to write CSV header of %s: %w", t.Sheet, err)
		}
		for _, row := range t.Rows {
			if err := cw.Write(formatRow(row, cfg, 0, false)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatRow turns cells into strings. Text output abbreviates coins, colors
// rarities and truncates names; the other formats keep raw values.
func formatRow(row []any, cfg *contract.Config, nameWidth int, text bool) []string {
	fmtFloat, fmtCoins := createFormatters(cfg.Precision)
	out := make([]string, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case string:
			out[i] = v
		case itemName:
			out[i] = string(v)
			if text {
				out[i] = contract.TruncateName(out[i], nameWidth)
			}
		case coins:
			if text {
				out[i] = fmtCoins(int64(v))
			} else {
				out[i] = strconv.FormatInt(int64(v), 10)
			}
		case timestamp:
			out[i] = formatTimestamp(int64(v), cfg.Location)
		case schema.Rarity:
			if text && cfg.UseColors {
				out[i] = contract.GetColorLabel(v)
			} else {
				out[i] = contract.GetPlainLabel(v)
			}
		case int:
			out[i] = strconv.Itoa(v)
		case int64:
			out[i] = strconv.FormatInt(v, 10)
		case float64:
			out[i] = fmtFloat(v)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// formatTimestamp formats Unix seconds in loc, or UTC when loc is nil.
func formatTimestamp(ts int64, loc *time.Location) string {
	if ts == 0 {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc).Format(contract.DateTimeFormat)
}
