// Package agg has the parsing, hydration and aggregation logic for drop logs.
package agg

import (
	"strconv"
	"strings"

	"github.com/lootlens/lootlens/schema"
)

// ParseStats counts what happened to each input line during parsing.
type ParseStats struct {
	Lines   int `json:"lines"`   // non-empty lines seen
	Records int `json:"records"` // lines turned into records
	Skipped int `json:"skipped"` // malformed lines dropped
}

// ParseLog converts raw log content into drop records, keeping line order.
// Malformed lines are dropped silently.
func ParseLog(content []byte) []schema.DropRecord {
	records, _ := ParseLogWithStats(content)
	return records
}

// ParseLogWithStats is ParseLog with a count of skipped lines.
func ParseLogWithStats(content []byte) ([]schema.DropRecord, ParseStats) {
	records := make([]schema.DropRecord, 0, estimateLines(content))
	var stats ParseStats

	for l := range strings.SplitSeq(string(content), "\n") {
		l = strings.TrimSuffix(l, "\r")
		if l == "" {
			continue // Skip blank lines
		}
		stats.Lines++

		record, ok := parseDropLine(l)
		if !ok {
			stats.Skipped++
			continue
		}
		records = append(records, record)
		stats.Records++
	}
	return records, stats
}

// parseDropLine parses a single "timestamp,itemId,quantity" line.
func parseDropLine(line string) (schema.DropRecord, bool) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return schema.DropRecord{}, false
	}

	var fields [3]int64
	for i, p := range parts {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return schema.DropRecord{}, false
		}
		fields[i] = v
	}

	return schema.DropRecord{
		Timestamp: fields[0],
		ItemID:    fields[1],
		Quantity:  fields[2],
	}, true
}

// estimateLines gives a capacity hint for the record slice.
func estimateLines(content []byte) int {
	n := 0
	for _, b := range content {
		if b == '\n' {
			n++
		}
	}
	return n + 1
}
