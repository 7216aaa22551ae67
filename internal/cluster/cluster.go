// Package cluster partitions a vendor's transactions into amount bands.
// A $12/month subscription and a one-time $400 charge from the same vendor
// should be described separately; banding by amount similarity surfaces that
// without asking the operator about every individual charge.
package cluster

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"bookkeeper/internal/models"
)

// DefaultRatio is the band-membership ratio: an amount joins the current band
// while amount/bandMin <= ratio. Heuristic, tunable via configuration.
var DefaultRatio = decimal.NewFromFloat(3.0)

// Split partitions transactions into disjoint bands ordered by ascending
// amount. Bands are built over sorted unique absolute amounts, and the ratio
// test is anchored at each band's smallest member, not the previous element:
// a band is a maximal run where every amount is within ratio of the band
// minimum. Empty input (or no positive amounts) yields the whole group as a
// single pass-through band so callers treat "no clustering" uniformly.
func Split(txns []models.Transaction, ratio decimal.Decimal) [][]models.Transaction {
	amounts := uniqueAbsAmounts(txns)
	if len(amounts) == 0 {
		return [][]models.Transaction{txns}
	}
	if ratio.LessThanOrEqual(decimal.Zero) {
		ratio = DefaultRatio
	}

	bands := [][]decimal.Decimal{{amounts[0]}}
	for _, amt := range amounts[1:] {
		anchor := bands[len(bands)-1][0]
		if anchor.IsZero() || amt.Div(anchor).LessThanOrEqual(ratio) {
			bands[len(bands)-1] = append(bands[len(bands)-1], amt)
		} else {
			bands = append(bands, []decimal.Decimal{amt})
		}
	}

	clusters := make([][]models.Transaction, 0, len(bands))
	for _, band := range bands {
		members := make(map[string]bool, len(band))
		for _, amt := range band {
			members[amt.String()] = true
		}
		var sub []models.Transaction
		for _, t := range txns {
			if members[t.AbsAmount().String()] {
				sub = append(sub, t)
			}
		}
		clusters = append(clusters, sub)
	}
	return clusters
}

// Outliers returns the absolute amounts lying more than stdDevs standard
// deviations from the mean of a cluster's absolute amounts. Used only to
// flag unusual payments in the histogram display; float math is fine here.
func Outliers(txns []models.Transaction, stdDevs float64) map[string]bool {
	outliers := make(map[string]bool)
	if len(txns) < 2 || stdDevs <= 0 {
		return outliers
	}

	values := make([]float64, len(txns))
	var sum float64
	for i, t := range txns {
		v, _ := t.AbsAmount().Float64()
		values[i] = v
		sum += v
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	sd := math.Sqrt(variance / float64(len(values)))
	if sd == 0 {
		return outliers
	}

	for i, v := range values {
		if math.Abs(v-mean) > stdDevs*sd {
			outliers[txns[i].AbsAmount().String()] = true
		}
	}
	return outliers
}

func uniqueAbsAmounts(txns []models.Transaction) []decimal.Decimal {
	seen := make(map[string]bool, len(txns))
	var amounts []decimal.Decimal
	for _, t := range txns {
		abs := t.AbsAmount()
		if !seen[abs.String()] {
			seen[abs.String()] = true
			amounts = append(amounts, abs)
		}
	}
	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].LessThan(amounts[j])
	})
	return amounts
}
