package schema

import "strings"

// Price thresholds for each tier. Each band includes its lower bound.
const (
	GreenPriceFloor  int64 = 1_000
	BluePriceFloor   int64 = 10_000_000
	PurplePriceFloor int64 = 100_000_000
	OrangePriceFloor int64 = 500_000_000
)

// RarityFromPrice classifies an item price into a tier.
func RarityFromPrice(price int64) Rarity {
	switch {
	case price < GreenPriceFloor:
		return RarityWhite
	case price < BluePriceFloor:
		return RarityGreen
	case price < PurplePriceFloor:
		return RarityBlue
	case price < OrangePriceFloor:
		return RarityPurple
	default:
		return RarityOrange
	}
}

// RarityColor returns the chart color for a tier. Unknown tiers are gray.
func RarityColor(r Rarity) string {
	switch strings.ToLower(string(r)) {
	case "green":
		return "#10b981"
	case "blue":
		return "#3b82f6"
	case "purple":
		return "#8b5cf6"
	case "orange":
		return "#f59e0b"
	default: // white and unknown
		return "#9ca3af"
	}
}

// IsRare reports whether a tier marks a rare drop on the income chart.
func (r Rarity) IsRare() bool {
	return r == RarityOrange || r == RarityPurple
}

// IsNotable reports whether a tier produces a chart annotation.
func (r Rarity) IsNotable() bool {
	return r == RarityOrange || r == RarityPurple || r == RarityBlue
}

// OrUnknown returns RarityUnknown for an empty tier.
func (r Rarity) OrUnknown() Rarity {
	if r == "" {
		return RarityUnknown
	}
	return r
}
