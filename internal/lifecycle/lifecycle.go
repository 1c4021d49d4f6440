// Package lifecycle enforces the forward-only status machines for events
// and submissions. Transitions are legal only between adjacent states; there
// is no skipping and no going back.
package lifecycle

import (
	"github.com/grillwire/cookoff/internal/model"
)

var eventNext = map[model.EventStatus]model.EventStatus{
	model.EventStatusDraft:     model.EventStatusActive,
	model.EventStatusActive:    model.EventStatusFinalized,
	model.EventStatusFinalized: model.EventStatusArchived,
}

var submissionNext = map[model.SubmissionStatus]model.SubmissionStatus{
	model.SubmissionStatusPending:     model.SubmissionStatusTurnedIn,
	model.SubmissionStatusTurnedIn:    model.SubmissionStatusBeingJudged,
	model.SubmissionStatusBeingJudged: model.SubmissionStatusScored,
	model.SubmissionStatusScored:      model.SubmissionStatusFinalized,
}

// CanTransitionEvent reports whether from -> to is the event machine's
// next step.
func CanTransitionEvent(from, to model.EventStatus) bool {
	next, ok := eventNext[from]
	return ok && next == to
}

// CanTransitionSubmission reports whether from -> to is the submission
// machine's next step.
func CanTransitionSubmission(from, to model.SubmissionStatus) bool {
	next, ok := submissionNext[from]
	return ok && next == to
}

// NextEventStatus returns the only status reachable from the given one.
// ok is false for terminal states.
func NextEventStatus(from model.EventStatus) (model.EventStatus, bool) {
	next, ok := eventNext[from]
	return next, ok
}

// NextSubmissionStatus returns the only status reachable from the given one.
// ok is false for terminal states.
func NextSubmissionStatus(from model.SubmissionStatus) (model.SubmissionStatus, bool) {
	next, ok := submissionNext[from]
	return next, ok
}
