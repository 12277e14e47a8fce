package agg

import (
	"fmt"
	"slices"

	"github.com/lootlens/lootlens/schema"
)

// SessionGap is the largest gap in seconds between two records of one session.
const SessionGap int64 = 900

// Runtime splits records into sessions and sums their durations.
// A session lasts from its first to its last record, so a lone record adds nothing.
// The caller's slice is not reordered.
func Runtime(records []schema.HydratedRecord) schema.RuntimeSummary {
	if len(records) == 0 {
		return formatRuntime(0, 0)
	}

	stamps := make([]int64, len(records))
	for i, r := range records {
		stamps[i] = r.Timestamp
	}
	slices.Sort(stamps)

	var total int64
	sessions := 1
	start, last := stamps[0], stamps[0]
	for _, ts := range stamps[1:] {
		if ts-last > SessionGap {
			total += last - start
			sessions++
			start = ts
		}
		last = ts
	}
	total += last - start

	return formatRuntime(total, sessions)
}

func formatRuntime(seconds int64, sessions int) schema.RuntimeSummary {
	hours := seconds / 3600
	minutes := (seconds / 60) % 60
	return schema.RuntimeSummary{
		Seconds:  seconds,
		Sessions: sessions,
		Hours:    hours,
		Minutes:  minutes,
		Text:     fmt.Sprintf("%d hours %d minutes", hours, minutes),
	}
}
