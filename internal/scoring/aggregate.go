// Package scoring implements score aggregation and ranking: per-criterion
// judge score aggregation, weighted final scores, category rankings and the
// cross-category overall standings.
package scoring

import (
	"slices"

	"github.com/grillwire/cookoff/internal/model"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// TrimmedMean returns the mean of xs after dropping a single lowest and a
// single highest value. With fewer than 3 values there is nothing sensible
// to trim, so it falls back to Mean.
func TrimmedMean(xs []float64) float64 {
	if len(xs) < 3 {
		return Mean(xs)
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)
	return Mean(sorted[1 : len(sorted)-1])
}

// Aggregate combines one criterion's judge scores using the event's
// aggregation method.
func Aggregate(method model.AggregationMethod, xs []float64) float64 {
	if method == model.AggregationTrimmedMean {
		return TrimmedMean(xs)
	}
	return Mean(xs)
}

// CriterionAggregate is one criterion's aggregated score together with its
// weight and the number of judges who scored it.
type CriterionAggregate struct {
	Score      float64
	Weight     float64
	JudgeCount int
}

// WeightedFinal combines per-criterion aggregates into a submission's final
// score: sum(score*weight) / sum(weight), taken over criteria that at least
// one judge scored. Unscored criteria contribute neither score nor weight,
// so they do not drag the final down. Returns 0 when the effective weight
// sum is zero.
func WeightedFinal(items []CriterionAggregate) float64 {
	var num, den float64
	for _, it := range items {
		if it.JudgeCount == 0 {
			continue
		}
		num += it.Score * it.Weight
		den += it.Weight
	}
	if den == 0 {
		return 0
	}
	return num / den
}
