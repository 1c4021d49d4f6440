package scoring

import (
	"math"
	"testing"

	"github.com/grillwire/cookoff/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}
	if got := Mean([]float64{4, 8}); got != 6.0 {
		t.Errorf("Mean([4 8]) = %v, want 6", got)
	}
	if got := Mean([]float64{7}); got != 7 {
		t.Errorf("Mean([7]) = %v, want 7", got)
	}
}

func TestTrimmedMeanDropsOneHighOneLow(t *testing.T) {
	got := TrimmedMean([]float64{1, 5, 6, 7, 8, 9})
	if !almostEqual(got, 6.5) {
		t.Errorf("TrimmedMean = %v, want 6.5", got)
	}

	// Order must not matter.
	got = TrimmedMean([]float64{9, 1, 7, 5, 8, 6})
	if !almostEqual(got, 6.5) {
		t.Errorf("TrimmedMean (shuffled) = %v, want 6.5", got)
	}

	// Only a single extreme is dropped from each end, even with duplicates.
	got = TrimmedMean([]float64{2, 2, 5, 9, 9})
	if !almostEqual(got, (2.0+5.0+9.0)/3.0) {
		t.Errorf("TrimmedMean = %v, want %v", got, (2.0+5.0+9.0)/3.0)
	}
}

func TestTrimmedMeanFallsBackUnderThree(t *testing.T) {
	if got := TrimmedMean([]float64{4, 8}); got != 6.0 {
		t.Errorf("TrimmedMean([4 8]) = %v, want 6", got)
	}
	if got := TrimmedMean([]float64{5}); got != 5 {
		t.Errorf("TrimmedMean([5]) = %v, want 5", got)
	}
	if got := TrimmedMean(nil); got != 0 {
		t.Errorf("TrimmedMean(nil) = %v, want 0", got)
	}
}

func TestAggregateSelectsMethod(t *testing.T) {
	xs := []float64{1, 5, 6, 7, 8, 9}
	if got := Aggregate(model.AggregationMean, xs); !almostEqual(got, 6.0) {
		t.Errorf("mean aggregate = %v, want 6", got)
	}
	if got := Aggregate(model.AggregationTrimmedMean, xs); !almostEqual(got, 6.5) {
		t.Errorf("trimmed aggregate = %v, want 6.5", got)
	}
}

func TestWeightedFinal(t *testing.T) {
	// taste 6.0 at weight 1, texture 9.0 at weight 2 -> (6+18)/3 = 8.0
	got := WeightedFinal([]CriterionAggregate{
		{Score: 6.0, Weight: 1, JudgeCount: 3},
		{Score: 9.0, Weight: 2, JudgeCount: 3},
	})
	if !almostEqual(got, 8.0) {
		t.Errorf("WeightedFinal = %v, want 8.0", got)
	}
}

func TestWeightedFinalIgnoresUnscoredCriteria(t *testing.T) {
	base := []CriterionAggregate{
		{Score: 6.0, Weight: 1, JudgeCount: 2},
		{Score: 9.0, Weight: 2, JudgeCount: 1},
	}
	withUnscored := append([]CriterionAggregate{}, base...)
	withUnscored = append(withUnscored, CriterionAggregate{Score: 0, Weight: 5, JudgeCount: 0})

	if a, b := WeightedFinal(base), WeightedFinal(withUnscored); !almostEqual(a, b) {
		t.Errorf("unscored criterion changed final: %v vs %v", a, b)
	}
}

func TestWeightedFinalZeroWeightSum(t *testing.T) {
	if got := WeightedFinal(nil); got != 0 {
		t.Errorf("WeightedFinal(nil) = %v, want 0", got)
	}
	got := WeightedFinal([]CriterionAggregate{
		{Score: 7.0, Weight: 0, JudgeCount: 4},
	})
	if got != 0 {
		t.Errorf("WeightedFinal with zero weights = %v, want 0", got)
	}
}

func TestRankByScoreCompetitionRanking(t *testing.T) {
	ranked := RankByScore([]Entry{
		{ID: "a", Score: 9},
		{ID: "b", Score: 8},
		{ID: "c", Score: 8},
		{ID: "d", Score: 7},
	})

	wantRanks := []int{1, 2, 2, 4}
	for i, want := range wantRanks {
		if ranked[i].Rank != want {
			t.Errorf("position %d: rank = %d, want %d", i, ranked[i].Rank, want)
		}
	}
	if ranked[0].ID != "a" || ranked[3].ID != "d" {
		t.Errorf("order = [%s %s %s %s], want a first and d last",
			ranked[0].ID, ranked[1].ID, ranked[2].ID, ranked[3].ID)
	}
}

func TestRankByScoreNearTies(t *testing.T) {
	// Within 1e-4 counts as tied; exactly 1e-4 apart does not.
	ranked := RankByScore([]Entry{
		{ID: "a", Score: 9.00005},
		{ID: "b", Score: 9.0},
		{ID: "c", Score: 8.9},
	})
	if ranked[0].Rank != 1 || ranked[1].Rank != 1 {
		t.Errorf("near-tied ranks = %d, %d, want both 1", ranked[0].Rank, ranked[1].Rank)
	}
	if ranked[2].Rank != 3 {
		t.Errorf("rank after tie = %d, want 3", ranked[2].Rank)
	}

	ranked = RankByScore([]Entry{
		{ID: "a", Score: 9.0001},
		{ID: "b", Score: 9.0},
	})
	if ranked[0].Rank != 1 || ranked[1].Rank != 2 {
		t.Errorf("ranks = %d, %d, want 1, 2", ranked[0].Rank, ranked[1].Rank)
	}
}

func TestRankByScoreMonotonic(t *testing.T) {
	ranked := RankByScore([]Entry{
		{ID: "a", Score: 3.2},
		{ID: "b", Score: 9.9},
		{ID: "c", Score: 7.4},
		{ID: "d", Score: 0.5},
	})
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Fatalf("not sorted descending at %d: %v", i, ranked)
		}
		if ranked[i-1].Rank > ranked[i].Rank {
			t.Fatalf("rank decreases at %d: %v", i, ranked)
		}
	}
}

func TestRankByScoreEmpty(t *testing.T) {
	if got := RankByScore(nil); len(got) != 0 {
		t.Errorf("RankByScore(nil) = %v, want empty", got)
	}
}

func TestRankOverallTieBrokenByTotalScore(t *testing.T) {
	ranked := RankOverall([]OverallEntry{
		{ID: "x", RankSum: 3, TotalScore: 15},
		{ID: "y", RankSum: 3, TotalScore: 16},
	})
	if ranked[0].ID != "y" || ranked[0].Rank != 1 {
		t.Errorf("first = %s rank %d, want y rank 1", ranked[0].ID, ranked[0].Rank)
	}
	if ranked[1].ID != "x" || ranked[1].Rank != 2 {
		t.Errorf("second = %s rank %d, want x rank 2", ranked[1].ID, ranked[1].Rank)
	}
}

func TestRankOverallFullTieSharesRank(t *testing.T) {
	ranked := RankOverall([]OverallEntry{
		{ID: "x", RankSum: 3, TotalScore: 15},
		{ID: "y", RankSum: 3, TotalScore: 15},
		{ID: "z", RankSum: 5, TotalScore: 20},
	})
	if ranked[0].Rank != 1 || ranked[1].Rank != 1 {
		t.Errorf("tied ranks = %d, %d, want both 1", ranked[0].Rank, ranked[1].Rank)
	}
	if ranked[2].ID != "z" || ranked[2].Rank != 3 {
		t.Errorf("third = %s rank %d, want z rank 3", ranked[2].ID, ranked[2].Rank)
	}
}

func TestRankOverallLowerRankSumWins(t *testing.T) {
	ranked := RankOverall([]OverallEntry{
		{ID: "x", RankSum: 7, TotalScore: 50},
		{ID: "y", RankSum: 2, TotalScore: 18},
	})
	if ranked[0].ID != "y" {
		t.Errorf("first = %s, want y (lower rank sum beats higher total)", ranked[0].ID)
	}
}
