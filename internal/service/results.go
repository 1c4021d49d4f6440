package service

import (
	"context"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/scoring"
)

// CompletionStatus describes how much of a submission has been judged.
type CompletionStatus string

const (
	CompletionNone     CompletionStatus = "none"
	CompletionPartial  CompletionStatus = "partial"
	CompletionComplete CompletionStatus = "complete"
)

// CriterionResult is one criterion's aggregated score on a submission.
type CriterionResult struct {
	CriterionID     string  `json:"criterion_id"`
	Name            string  `json:"name"`
	Weight          float64 `json:"weight"`
	AggregatedScore float64 `json:"aggregated_score"`
	JudgeCount      int     `json:"judge_count"`
}

// SubmissionResult is the full scoring projection for one submission.
type SubmissionResult struct {
	SubmissionID     string            `json:"submission_id"`
	TeamID           string            `json:"team_id"`
	CategoryID       string            `json:"category_id"`
	FinalScore       float64           `json:"final_score"`
	CompletionStatus CompletionStatus  `json:"completion_status"`
	Criteria         []CriterionResult `json:"criteria"`
}

// RankedSubmissionResult is a SubmissionResult with its category rank.
type RankedSubmissionResult struct {
	SubmissionResult
	Rank int `json:"rank"`
}

// CategoryResults is the ranked standings of one category.
type CategoryResults struct {
	CategoryID  string                   `json:"category_id"`
	Name        string                   `json:"name"`
	Submissions []RankedSubmissionResult `json:"submissions"`
}

// TeamStanding is one team's overall position across all categories it
// entered.
type TeamStanding struct {
	TeamID     string  `json:"team_id"`
	TeamName   string  `json:"team_name"`
	RankSum    int     `json:"rank_sum"`
	TotalScore float64 `json:"total_score"`
	Rank       int     `json:"rank"`
}

// EventResults is the full event projection: every category's standings
// plus the overall rank-sum table.
type EventResults struct {
	EventID    string            `json:"event_id"`
	Categories []CategoryResults `json:"categories"`
	Overall    []TeamStanding    `json:"overall"`
}

// GetSubmissionResult computes a submission's result from the authoritative
// score rows. Nothing is cached; every call recomputes.
func (s *Service) GetSubmissionResult(ctx context.Context, actor Actor, submissionID string) (*SubmissionResult, error) {
	sub, err := s.store.GetSubmission(ctx, submissionID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	category, err := s.store.GetCategory(ctx, sub.CategoryID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	event, err := s.store.GetEvent(ctx, category.EventID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	activeSeats, err := s.store.CountActiveSeats(ctx, event.ID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	return s.computeSubmissionResult(ctx, sub, event, activeSeats)
}

func (s *Service) computeSubmissionResult(ctx context.Context, sub *model.Submission, event *model.Event, activeSeats int) (*SubmissionResult, error) {
	criteria, err := s.store.ListCriteriaByEvent(ctx, event.ID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "criterion")
	}
	scores, err := s.store.ListScoresBySubmission(ctx, sub.ID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}

	byCriterion := make(map[string][]float64, len(criteria))
	for _, sc := range scores {
		byCriterion[sc.CriterionID] = append(byCriterion[sc.CriterionID], sc.Value.InexactFloat64())
	}

	result := &SubmissionResult{
		SubmissionID: sub.ID,
		TeamID:       sub.TeamID,
		CategoryID:   sub.CategoryID,
		Criteria:     make([]CriterionResult, 0, len(criteria)),
	}
	aggregates := make([]scoring.CriterionAggregate, 0, len(criteria))
	scored := 0
	fullyJudged := 0
	for _, c := range criteria {
		raw := byCriterion[c.ID]
		weight, _ := c.Weight.Float64()
		agg := scoring.CriterionAggregate{
			Score:      scoring.Aggregate(event.AggregationMethod, raw),
			Weight:     weight,
			JudgeCount: len(raw),
		}
		aggregates = append(aggregates, agg)
		result.Criteria = append(result.Criteria, CriterionResult{
			CriterionID:     c.ID,
			Name:            c.Name,
			Weight:          weight,
			AggregatedScore: agg.Score,
			JudgeCount:      agg.JudgeCount,
		})
		if len(raw) > 0 {
			scored++
		}
		if activeSeats > 0 && len(raw) >= activeSeats {
			fullyJudged++
		}
	}

	result.FinalScore = scoring.WeightedFinal(aggregates)
	switch {
	case scored == 0:
		result.CompletionStatus = CompletionNone
	case scored == len(criteria) && fullyJudged == len(criteria):
		result.CompletionStatus = CompletionComplete
	default:
		result.CompletionStatus = CompletionPartial
	}
	return result, nil
}

// GetCategoryResults computes one category's ranked standings.
func (s *Service) GetCategoryResults(ctx context.Context, actor Actor, categoryID string) (*CategoryResults, error) {
	category, err := s.store.GetCategory(ctx, categoryID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	event, err := s.store.GetEvent(ctx, category.EventID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	activeSeats, err := s.store.CountActiveSeats(ctx, event.ID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	return s.computeCategoryResults(ctx, category, event, activeSeats)
}

func (s *Service) computeCategoryResults(ctx context.Context, category *model.Category, event *model.Event, activeSeats int) (*CategoryResults, error) {
	subs, err := s.store.ListSubmissionsByCategory(ctx, category.ID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}

	results := make(map[string]*SubmissionResult, len(subs))
	entries := make([]scoring.Entry, 0, len(subs))
	for i := range subs {
		r, err := s.computeSubmissionResult(ctx, &subs[i], event, activeSeats)
		if err != nil {
			return nil, err
		}
		results[r.SubmissionID] = r
		entries = append(entries, scoring.Entry{ID: r.SubmissionID, Score: r.FinalScore})
	}

	ranked := scoring.RankByScore(entries)
	out := &CategoryResults{
		CategoryID:  category.ID,
		Name:        category.Name,
		Submissions: make([]RankedSubmissionResult, 0, len(ranked)),
	}
	for _, re := range ranked {
		out.Submissions = append(out.Submissions, RankedSubmissionResult{
			SubmissionResult: *results[re.ID],
			Rank:             re.Rank,
		})
	}
	return out, nil
}

// GetEventResults computes every category's standings plus the overall
// rank-sum table over all categories each team entered.
func (s *Service) GetEventResults(ctx context.Context, actor Actor, eventID string) (*EventResults, error) {
	event, err := s.store.GetEvent(ctx, eventID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "event")
	}
	categories, err := s.store.ListCategoriesByEvent(ctx, eventID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	activeSeats, err := s.store.CountActiveSeats(ctx, eventID)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}

	out := &EventResults{EventID: eventID, Categories: make([]CategoryResults, 0, len(categories))}
	type teamAccum struct {
		rankSum    int
		totalScore float64
	}
	perTeam := make(map[string]*teamAccum)
	for i := range categories {
		cr, err := s.computeCategoryResults(ctx, &categories[i], event, activeSeats)
		if err != nil {
			return nil, err
		}
		out.Categories = append(out.Categories, *cr)
		for _, rs := range cr.Submissions {
			acc := perTeam[rs.TeamID]
			if acc == nil {
				acc = &teamAccum{}
				perTeam[rs.TeamID] = acc
			}
			acc.rankSum += rs.Rank
			acc.totalScore += rs.FinalScore
		}
	}

	overall := make([]scoring.OverallEntry, 0, len(perTeam))
	for teamID, acc := range perTeam {
		overall = append(overall, scoring.OverallEntry{
			ID:         teamID,
			RankSum:    acc.rankSum,
			TotalScore: acc.totalScore,
		})
	}
	ranked := scoring.RankOverall(overall)

	teams, err := s.store.ListTeamsByEvent(ctx, eventID, true)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "team")
	}
	names := make(map[string]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}

	out.Overall = make([]TeamStanding, 0, len(ranked))
	for _, re := range ranked {
		out.Overall = append(out.Overall, TeamStanding{
			TeamID:     re.ID,
			TeamName:   names[re.ID],
			RankSum:    re.RankSum,
			TotalScore: re.TotalScore,
			Rank:       re.Rank,
		})
	}
	return out, nil
}
