package agg

import (
	"math"

	"github.com/lootlens/lootlens/schema"
)

// ValueQuantityCorrelation is the population Pearson correlation between item
// price and quantity. Entries missing either field are ignored. It returns 0
// for fewer than two entries or when either variable is constant.
func ValueQuantityCorrelation(items []schema.ItemLog) float64 {
	xs := make([]float64, 0, len(items))
	ys := make([]float64, 0, len(items))
	for _, it := range items {
		if it.Price == nil || it.Quantity == nil {
			continue
		}
		xs = append(xs, float64(*it.Price))
		ys = append(ys, float64(*it.Quantity))
	}
	n := float64(len(xs))
	if len(xs) < 2 {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
