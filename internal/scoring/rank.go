package scoring

import (
	"cmp"
	"math"
	"slices"
)

// tieEpsilon is the tolerance under which two final scores count as tied.
const tieEpsilon = 1e-4

// Entry is one submission's final score going into a category ranking.
type Entry struct {
	ID    string
	Score float64
}

// RankedEntry is an Entry with its competition rank assigned.
type RankedEntry struct {
	ID    string
	Score float64
	Rank  int
}

// RankByScore orders entries by score descending and assigns competition
// ranks: an entry within tieEpsilon of the one before it shares that rank,
// and the next distinct score skips past the tied block (1, 2, 2, 4).
func RankByScore(entries []Entry) []RankedEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})

	out := make([]RankedEntry, len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && sorted[i-1].Score-e.Score < tieEpsilon {
			rank = out[i-1].Rank
		}
		out[i] = RankedEntry{ID: e.ID, Score: e.Score, Rank: rank}
	}
	return out
}

// OverallEntry is one team's cross-category standing input: the sum of its
// category ranks and the sum of its category final scores.
type OverallEntry struct {
	ID         string
	RankSum    int
	TotalScore float64
}

// RankedOverallEntry is an OverallEntry with its rank assigned.
type RankedOverallEntry struct {
	ID         string
	RankSum    int
	TotalScore float64
	Rank       int
}

// RankOverall orders teams by rank sum ascending (lower is better), breaking
// ties by total score descending. Teams tied on both share a rank and the
// following rank is skipped.
func RankOverall(entries []OverallEntry) []RankedOverallEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b OverallEntry) int {
		if c := cmp.Compare(a.RankSum, b.RankSum); c != 0 {
			return c
		}
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	out := make([]RankedOverallEntry, len(sorted))
	for i, e := range sorted {
		rank := i + 1
		if i > 0 && sorted[i-1].RankSum == e.RankSum &&
			math.Abs(sorted[i-1].TotalScore-e.TotalScore) < tieEpsilon {
			rank = out[i-1].Rank
		}
		out[i] = RankedOverallEntry{ID: e.ID, RankSum: e.RankSum, TotalScore: e.TotalScore, Rank: rank}
	}
	return out
}
