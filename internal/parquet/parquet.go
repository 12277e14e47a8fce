// Package parquet exports hydrated drop records and item rollups to Parquet
// files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lootlens/lootlens/schema"
	"github.com/parquet-go/parquet-go"
)

// DropRow is one hydrated drop.
type DropRow struct {
	// Timestamp is when the drop was logged (stored as TIMESTAMP with nanosecond precision)
	Timestamp time.Time `parquet:"timestamp,snappy"`

	ItemID   int64  `parquet:"item_id,snappy"`
	Quantity int64  `parquet:"quantity,snappy"`
	Name     string `parquet:"name,snappy"`
	Price    int64  `parquet:"price,snappy"`

	// Value is quantity times price at export time
	Value  int64  `parquet:"value,snappy"`
	Rarity string `parquet:"rarity,snappy,dict"`

	// User is the log the record was read from (nullable when several logs were merged)
	User *string `parquet:"user,optional,snappy"`
}

// ItemRow is the total of all drops of one item.
type ItemRow struct {
	ItemID     int64     `parquet:"item_id,snappy"`
	Name       string    `parquet:"name,snappy"`
	Price      int64     `parquet:"price,snappy"`
	Quantity   int64     `parquet:"quantity,snappy"`
	Rarity     string    `parquet:"rarity,snappy,dict"`
	TotalValue int64     `parquet:"total_value,snappy"`
	LastSeen   time.Time `parquet:"last_seen,snappy"`
}

// WriteDropsParquet writes drop rows to a Parquet file.
func WriteDropsParquet(data []DropRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteItemsParquet writes item rows to a Parquet file.
func WriteItemsParquet(data []ItemRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return file.Close()
}

// ConvertDropRecords converts hydrated records for Parquet export.
// The user column is left null for the merged "all" view.
func ConvertDropRecords(records []schema.HydratedRecord, user string) []DropRow {
	var userCol *string
	if user != "" && !strings.EqualFold(user, "all") {
		userCol = &user
	}

	result := make([]DropRow, len(records))
	for i, r := range records {
		result[i] = DropRow{
			Timestamp: time.Unix(r.Timestamp, 0).UTC(),
			ItemID:    r.ItemID,
			Quantity:  r.Quantity,
			Name:      r.Item.Name,
			Price:     r.Item.Price,
			Value:     r.Value(),
			Rarity:    string(r.Item.Rarity.OrUnknown()),
			User:      userCol,
		}
	}
	return result
}

// ConvertItemRollups converts item rollups for Parquet export.
func ConvertItemRollups(rollups []schema.ItemRollup) []ItemRow {
	result := make([]ItemRow, len(rollups))
	for i, r := range rollups {
		result[i] = ItemRow{
			ItemID:     r.ID,
			Name:       r.Name,
			Price:      r.Price,
			Quantity:   r.Quantity,
			Rarity:     string(r.Rarity),
			TotalValue: r.TotalValue,
			LastSeen:   time.Unix(r.LastSeen, 0).UTC(),
		}
	}
	return result
}
