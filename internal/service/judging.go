package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/grillwire/cookoff/internal/model"
	"github.com/grillwire/cookoff/internal/sequence"
)

// defaultSeatCount is assumed for tables that have no seats configured.
const defaultSeatCount = 6

// SeatAssignment is the judging order for one seat at one table.
type SeatAssignment struct {
	SeatNumber    int      `json:"seat_number"`
	SubmissionIDs []string `json:"submission_ids"`
}

// TableAssignment is one table's slice of the category plan.
type TableAssignment struct {
	TableID       string           `json:"table_id"`
	TableNumber   int              `json:"table_number"`
	SubmissionIDs []string         `json:"submission_ids"`
	Seats         []SeatAssignment `json:"seats"`
}

// AssignmentPlan maps a category's submissions onto tables and seats. It is
// a pure view: never persisted, recomputable bit-for-bit from the same seed.
// Fingerprint lets offline tablets detect that a cached plan went stale.
type AssignmentPlan struct {
	CategoryID  string            `json:"category_id"`
	Seed        int64             `json:"seed"`
	Fingerprint string            `json:"fingerprint"`
	Tables      []TableAssignment `json:"tables"`
}

// GenerateAssignmentPlan shuffles the category's submissions with the given
// seed (or one derived from event and category ids), deals them round-robin
// across the event's tables, and computes per-seat sequences. Tables with
// no submissions are omitted.
func (s *Service) GenerateAssignmentPlan(ctx context.Context, actor Actor, categoryID string, seed *int64) (*AssignmentPlan, error) {
	if !actor.IsStaff() {
		return nil, forbidden("only staff can generate assignment plans")
	}
	category, err := s.store.GetCategory(ctx, categoryID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	tables, err := s.store.ListTablesByEvent(ctx, category.EventID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "table")
	}
	if len(tables) == 0 {
		return nil, conflict("event has no tables to assign submissions to")
	}
	subs, err := s.store.ListSubmissionsByCategory(ctx, categoryID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}

	planSeed := sequence.SeedFromString(category.EventID + ":" + categoryID)
	if seed != nil {
		planSeed = *seed
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}
	shuffled := sequence.ShuffleWithSeed(ids, planSeed)
	buckets := sequence.DistributeRoundRobin(shuffled, len(tables))

	plan := &AssignmentPlan{CategoryID: categoryID, Seed: planSeed}
	for i, table := range tables {
		bucket := buckets[i]
		if len(bucket) == 0 {
			continue
		}
		ta := TableAssignment{
			TableID:       table.ID,
			TableNumber:   table.TableNumber,
			SubmissionIDs: bucket,
		}

		seats, err := s.store.ListSeatsByTable(ctx, table.ID, false)
		if err != nil {
			return nil, translateStoreErr(ctx, err, "seat")
		}
		seatCount := len(seats)
		if seatCount == 0 {
			seatCount = defaultSeatCount
		}
		for seatNum := 1; seatNum <= seatCount; seatNum++ {
			order, err := sequence.SeatSequence(seatCount, len(bucket), seatNum)
			if err != nil {
				return nil, internalErr("seat sequence", err)
			}
			sa := SeatAssignment{SeatNumber: seatNum, SubmissionIDs: make([]string, len(order))}
			for j, idx := range order {
				sa.SubmissionIDs[j] = bucket[idx-1]
			}
			ta.Seats = append(ta.Seats, sa)
		}
		plan.Tables = append(plan.Tables, ta)
	}

	plan.Fingerprint = planFingerprint(plan)
	return plan, nil
}

// planFingerprint hashes the plan's table layout so clients can cheaply
// compare cached plans against a fresh one.
func planFingerprint(plan *AssignmentPlan) string {
	raw, err := json.Marshal(plan.Tables)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxh3.Hash(raw))
}

// NextSubmission is the judging service's answer to "what do I score next".
type NextSubmission struct {
	SubmissionID string `json:"submission_id,omitempty"`
	Done         bool   `json:"done"`
	Position     int    `json:"position,omitempty"`
	Total        int    `json:"total"`
}

// GetNextSubmission walks a seat's sequence for a category and phase and
// returns the first submission this seat has not yet scored in that phase.
// The appearance phase walks creation order; taste_texture walks the
// passing-order permutation. When everything is scored, Done is true.
func (s *Service) GetNextSubmission(ctx context.Context, actor Actor, categoryID, tableID, seatID string, phase model.ScorePhase) (*NextSubmission, error) {
	if actor.Kind == ActorKindJudge && actor.SeatID != seatID {
		return nil, forbidden("judges can only query their own seat")
	}
	if !phase.Valid() {
		return nil, invalidArg("phase: must be appearance or taste_texture")
	}

	if _, err := s.store.GetCategory(ctx, categoryID, false); err != nil {
		return nil, translateStoreErr(ctx, err, "category")
	}
	seat, err := s.store.GetSeat(ctx, seatID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}
	if seat.TableID != tableID {
		return nil, invalidArg("seat does not belong to the given table")
	}
	seats, err := s.store.ListSeatsByTable(ctx, tableID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "seat")
	}

	subs, err := s.store.ListSubmissionsByCategory(ctx, categoryID, false)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "submission")
	}
	if len(subs) == 0 {
		return &NextSubmission{Done: true}, nil
	}

	ids := make([]string, len(subs))
	for i, sub := range subs {
		ids[i] = sub.ID
	}

	order := ids
	if phase == model.PhaseTasteTexture {
		seatCount := len(seats)
		if seatCount == 0 {
			seatCount = defaultSeatCount
		}
		seatNumber := seat.SeatNumber
		if seatNumber > seatCount {
			return nil, invalidArg(fmt.Sprintf("seat number %d exceeds table seat count %d", seatNumber, seatCount))
		}
		perm, err := sequence.SeatSequence(seatCount, len(ids), seatNumber)
		if err != nil {
			return nil, invalidArg(err.Error())
		}
		order = make([]string, len(perm))
		for i, idx := range perm {
			order[i] = ids[idx-1]
		}
	}

	scores, err := s.store.ListScoresBySeatCategoryPhase(ctx, seatID, categoryID, phase)
	if err != nil {
		return nil, translateStoreErr(ctx, err, "score")
	}
	scoredSubs := make(map[string]bool, len(scores))
	for _, sc := range scores {
		scoredSubs[sc.SubmissionID] = true
	}

	for i, id := range order {
		if !scoredSubs[id] {
			return &NextSubmission{
				SubmissionID: id,
				Position:     i + 1,
				Total:        len(order),
			}, nil
		}
	}
	return &NextSubmission{Done: true, Total: len(order)}, nil
}
