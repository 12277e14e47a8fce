package agg

import "github.com/lootlens/lootlens/schema"

// RollingWindow is the look-back of the rolling value rate, in seconds.
const RollingWindow int64 = 900

// ValuePerHour divides the total value by the number of distinct clock hours
// that contain at least one record.
func ValuePerHour(records []schema.HydratedRecord) int64 {
	hours := make(map[int64]struct{})
	var total int64
	for _, r := range records {
		total += r.Value()
		hours[BucketStart(r.Timestamp, 3600)] = struct{}{}
	}
	if len(hours) == 0 {
		return 0
	}
	return total / int64(len(hours))
}

// RollingValuePerHour scales the value of the last 15 minutes before now to an hourly rate.
func RollingValuePerHour(records []schema.HydratedRecord, now int64) int64 {
	cutoff := now - RollingWindow
	var total int64
	for _, r := range records {
		if r.Timestamp >= cutoff {
			total += r.Value()
		}
	}
	return total * (3600 / RollingWindow)
}
