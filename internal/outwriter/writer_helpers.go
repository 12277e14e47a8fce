package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeOutput runs write against stdout, or against cfg.OutputFile when set.
// A report written to a file is confirmed on stderr with its format, table count and size.
func writeOutput(cfg *contract.Config, tables int, write func(io.Writer) error) error {
	file, err := contract.SelectOutputFile(cfg.OutputFile)
	if err != nil {
		return err
	}
	if file == os.Stdout {
		return write(file)
	}
	defer func() { _ = file.Close() }()

	counter := &countingWriter{w: file}
	if err := write(counter); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", cfg.OutputFile, err)
	}
	_, _ = fmt.Fprintln(os.Stderr, outputSummary(cfg.Output, tables, counter.n, cfg.OutputFile))
	return nil
}

// outputSummary describes a report written to a file.
func outputSummary(format schema.OutputMode, tables int, size int64, path string) string {
	if format == "" {
		format = schema.TextOut
	}
	unit := "table"
	if format == schema.XLSXOut {
		unit = "sheet"
	}
	if tables != 1 {
		unit += "s"
	}
	return fmt.Sprintf("💾 Wrote %s report (%d %s, %s) to %s", format, tables, unit, humanize.Bytes(uint64(size)), path)
}

// createFormatters returns the float formatter for the configured precision.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtCoins func(int64) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtCoins = func(v int64) string {
		return contract.Abbreviate(v, precision)
	}
	return fmtFloat, fmtCoins
}
