package outwriter

import (
	"fmt"
	"strconv"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/lootlens/lootlens/schema"
)

// overviewTable lists the headline metrics as key-value rows.
func overviewTable(o schema.Overview, correlation float64, title string) table {
	return table{
		Title:  title,
		Sheet:  "Overview",
		Header: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Entries", o.TotalEntries},
			{"Unique Items", o.UniqueItems},
			{"Total Quantity", o.TotalQuantity},
			{"Total Value", coins(o.TotalValue)},
			{"Gold", coins(o.GoldValue)},
			{"Value/Hour", coins(o.ValuePerHour)},
			{"Rolling Value/Hour", coins(o.RollingValuePerHour)},
			{"Runtime", o.Runtime.Text},
			{"Sessions", o.Runtime.Sessions},
			{"Value/Quantity Correlation", correlation},
			{"Last Drop", timestamp(o.LastUpdated)},
		},
	}
}

// itemsTable ranks item rollups; total is the number of items before the limit.
func itemsTable(items []schema.ItemRollup, total int) table {
	rows := make([][]any, 0, len(items))
	var value int64
	for i, it := range items {
		value += it.TotalValue
		rows = append(rows, []any{
			i + 1,
			itemName(it.Name),
			it.ID,
			it.Rarity,
			it.Quantity,
			coins(it.Price),
			coins(it.TotalValue),
			timestamp(it.LastSeen),
		})
	}
	return table{
		Sheet:  "Items",
		Header: []string{"Rank", "Item", "ID", "Rarity", "Quantity", "Price", "Total Value", "Last Seen"},
		Rows:   rows,
		Footer: fmt.Sprintf("Showing top %d of %d items (value shown: %s)", len(items), total, contract.Abbreviate(value, 2)),
	}
}

// incomeTable lists income per time bucket.
func incomeTable(buckets []schema.IncomeBucket) table {
	rows := make([][]any, 0, len(buckets))
	var value int64
	for _, b := range buckets {
		value += b.Value
		rare := ""
		if b.Rare != nil {
			rare = fmt.Sprintf("%s (%s)", b.Rare.Name, contract.Abbreviate(b.Rare.Value, 1))
		}
		rows = append(rows, []any{
			timestamp(b.Timestamp),
			coins(b.Value),
			b.Records,
			coins(b.Average),
			coins(b.Range[0]),
			coins(b.Range[1]),
			len(b.Items),
			rare,
		})
	}
	return table{
		Sheet:  "Income",
		Header: []string{"Bucket", "Value", "Records", "Average", "Min", "Max", "Items", "Rare"},
		Rows:   rows,
		Footer: fmt.Sprintf("%d buckets (total value: %s)", len(buckets), contract.Abbreviate(value, 2)),
	}
}

// rarityTables lists value per tier per bucket and the notable drops.
func rarityTables(timeline schema.RarityTimeline) []table {
	header := []string{"Bucket"}
	for _, s := range timeline.Series {
		header = append(header, s.Name)
	}
	rows := make([][]any, 0, len(timeline.Buckets))
	for i, bucket := range timeline.Buckets {
		row := []any{timestamp(bucket)}
		for _, s := range timeline.Series {
			row = append(row, coins(s.Data[i]))
		}
		rows = append(rows, row)
	}

	notable := make([][]any, 0, len(timeline.Annotations))
	for _, a := range timeline.Annotations {
		notable = append(notable, []any{timestamp(a.Timestamp), itemName(a.Name), a.Rarity})
	}

	return []table{
		{
			Sheet:  "Rarity",
			Header: header,
			Rows:   rows,
		},
		{
			Title:  "Notable drops",
			Sheet:  "Notable",
			Header: []string{"Bucket", "Item", "Rarity"},
			Rows:   notable,
			Footer: fmt.Sprintf("%d notable drops", len(notable)),
		},
	}
}

// heatmapTable lists record counts per weekday and hour.
func heatmapTable(rows []schema.HeatmapRow) table {
	header := make([]string, 0, 26)
	header = append(header, "Day")
	for hour := range 24 {
		header = append(header, fmt.Sprintf("%02d", hour))
	}
	header = append(header, "Total")

	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		row := make([]any, 0, len(r.Data)+2)
		row = append(row, r.Name)
		total := 0
		for _, count := range r.Data {
			row = append(row, count)
			total += count
		}
		data = append(data, append(row, total))
	}
	return table{Sheet: "Heatmap", Header: header, Rows: data}
}

// treemapTable flattens treemap groups into one row per leaf.
func treemapTable(groups []schema.TreemapGroup) table {
	var rows [][]any
	for _, g := range groups {
		for _, leaf := range g.Children {
			rows = append(rows, []any{schema.Rarity(g.Name), itemName(leaf.Name), leaf.ItemID, coins(leaf.Size)})
		}
	}
	return table{
		Sheet:  "Treemap",
		Header: []string{"Rarity", "Item", "ID", "Value"},
		Rows:   rows,
		Footer: fmt.Sprintf("%d groups, %d items", len(groups), len(rows)),
	}
}

// groupsTable shows the quantity per tier, one row per item.
func groupsTable(groups []schema.RarityGroup) table {
	var rows [][]any
	for _, g := range groups {
		for _, it := range g.Items {
			rows = append(rows, []any{g.Rarity, itemName(it.Name), it.ID, it.Quantity})
		}
	}
	return table{
		Sheet:  "Tiers",
		Header: []string{"Rarity", "Item", "ID", "Quantity"},
		Rows:   rows,
	}
}

// runtimeTable shows the session-based active time.
func runtimeTable(summary schema.RuntimeSummary) table {
	return table{
		Sheet:  "Runtime",
		Header: []string{"Sessions", "Seconds", "Hours", "Minutes", "Runtime"},
		Rows:   [][]any{{summary.Sessions, summary.Seconds, summary.Hours, summary.Minutes, summary.Text}},
	}
}

// activityTables show record counts by hour of day and by weekday.
func activityTables(byHour []schema.HourActivity, byDay []schema.DayActivity) []table {
	hours := make([][]any, 0, len(byHour))
	for _, h := range byHour {
		hours = append(hours, []any{h.Hour, h.Count})
	}
	days := make([][]any, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, []any{d.Day, d.Count})
	}
	return []table{
		{Sheet: "By Hour", Header: []string{"Hour", "Records"}, Rows: hours},
		{Sheet: "By Day", Header: []string{"Day", "Records"}, Rows: days},
	}
}

// scatterTable lists the value versus quantity points.
func scatterTable(points []schema.ValueQuantityPoint) table {
	rows := make([][]any, 0, len(points))
	for _, p := range points {
		rows = append(rows, []any{p.ItemID, itemName(p.Name), p.Rarity, coins(p.Value), p.Quantity})
	}
	return table{
		Sheet:  "Scatter",
		Header: []string{"ID", "Item", "Rarity", "Price", "Quantity"},
		Rows:   rows,
	}
}

// usersTable lists log users.
func usersTable(users []string, dir string) table {
	rows := make([][]any, 0, len(users))
	for _, u := range users {
		rows = append(rows, []any{u})
	}
	return table{
		Sheet:  "Users",
		Header: []string{"User"},
		Rows:   rows,
		Footer: fmt.Sprintf("%d users in %s", len(users), dir),
	}
}

// settingsTable lists stored settings.
func settingsTable(settings []schema.Setting) table {
	rows := make([][]any, 0, len(settings))
	for _, s := range settings {
		var updated timestamp
		if !s.Updated.IsZero() {
			updated = timestamp(s.Updated.Unix())
		}
		rows = append(rows, []any{s.Key, s.Value, updated})
	}
	return table{
		Sheet:  "Settings",
		Header: []string{"Key", "Value", "Updated"},
		Rows:   rows,
	}
}

// dashboardTables is every view of a dashboard, one sheet each.
func dashboardTables(dash schema.Dashboard) []table {
	tables := []table{
		overviewTable(dash.Overview, dash.Correlation, ""),
		itemsTable(dash.Items, len(dash.Items)),
		incomeTable(dash.Income),
	}
	tables = append(tables, rarityTables(dash.Rarity)...)
	tables = append(tables, heatmapTable(dash.Heatmap), treemapTable(dash.Treemap), groupsTable(dash.Groups), scatterTable(dash.Scatter))
	tables = append(tables, activityTables(dash.ByHour, dash.ByDay)...)
	return tables
}

// dashboardTitle describes which user and range a report covers.
func dashboardTitle(user, rangeLabel string) string {
	if rangeLabel == "" {
		rangeLabel = contract.DefaultRange
	}
	return "Drops for " + strconv.Quote(user) + " (range: " + rangeLabel + ")"
}
