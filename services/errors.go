package services

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the services wraps exactly one of them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("requested resource not found")
	ErrForbidden  = errors.New("operation not allowed for the current user")
	ErrConflict   = errors.New("operation conflicts with the current state")
	ErrInternal   = errors.New("internal error")
)

var (
	// Validation
	ErrTournamentNameRequired     = fmt.Errorf("%w: tournament name is required", ErrValidation)
	ErrTournamentDatesRequired    = fmt.Errorf("%w: tournament start and end dates are required", ErrValidation)
	ErrTournamentInvalidDateRange = fmt.Errorf("%w: tournament end date must not be before start date", ErrValidation)
	ErrTournamentInvalidStatus    = fmt.Errorf("%w: invalid tournament status provided", ErrValidation)
	ErrNotEnoughParticipants      = fmt.Errorf("%w: at least 2 participants are required", ErrValidation)
	ErrDuplicateParticipant       = fmt.Errorf("%w: participant listed more than once", ErrValidation)
	ErrBlankParticipant           = fmt.Errorf("%w: participant id must not be blank", ErrValidation)
	ErrParticipantNotInTeam       = fmt.Errorf("%w: participant does not belong to your team", ErrValidation)
	ErrCreatorWithoutTeam         = fmt.Errorf("%w: you must belong to a team to create a tournament", ErrValidation)
	ErrNegativeScore              = fmt.Errorf("%w: scores must not be negative", ErrValidation)
	ErrScoreTooHigh               = fmt.Errorf("%w: scores must be at most %d", ErrValidation, MaxScore)
	ErrDisputeReasonRequired      = fmt.Errorf("%w: dispute reason is required", ErrValidation)
	ErrDisputeReasonTooLong       = fmt.Errorf("%w: dispute reason must be at most %d characters", ErrValidation, MaxDisputeReasonLength)
	ErrTeamIDRequired             = fmt.Errorf("%w: team id is required", ErrValidation)
	ErrUserIDRequired             = fmt.Errorf("%w: user id is required", ErrValidation)

	// Not found
	ErrTournamentNotFound = fmt.Errorf("%w: tournament not found", ErrNotFound)
	ErrMatchNotFound      = fmt.Errorf("%w: match not found", ErrNotFound)
	ErrTeamNotFound       = fmt.Errorf("%w: you do not belong to a team", ErrNotFound)

	// Forbidden
	ErrNotMatchParticipant = fmt.Errorf("%w: only the two match participants can do this", ErrForbidden)
	ErrSelfApproval        = fmt.Errorf("%w: the submitter cannot approve their own score", ErrForbidden)
	ErrSelfDispute         = fmt.Errorf("%w: the submitter cannot dispute their own score", ErrForbidden)
	ErrNotTeamMember       = fmt.Errorf("%w: only members of the team can add members", ErrForbidden)

	// Conflict
	ErrMatchNotPending                   = fmt.Errorf("%w: score can only be submitted for a pending match", ErrConflict)
	ErrMatchNotSubmitted                 = fmt.Errorf("%w: match has no submitted score awaiting confirmation", ErrConflict)
	ErrMatchAlreadyCompleted             = fmt.Errorf("%w: match is already completed", ErrConflict)
	ErrConcurrentModification            = fmt.Errorf("%w: tournament was modified concurrently, reload and retry", ErrConflict)
	ErrTournamentInvalidStatusTransition = fmt.Errorf("%w: invalid tournament status transition", ErrConflict)
	ErrUserInAnotherTeam                 = fmt.Errorf("%w: user already belongs to another team", ErrConflict)

	// Internal
	ErrCorruptAggregate = fmt.Errorf("%w: tournament aggregate is inconsistent", ErrInternal)
)

// Category returns the category sentinel err belongs to, or ErrInternal for unknown errors.
func Category(err error) error {
	for _, category := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrConflict, ErrInternal} {
		if errors.Is(err, category) {
			return category
		}
	}
	return ErrInternal
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch Category(err) {
	case ErrValidation:
		return "validation"
	case ErrNotFound:
		return "not_found"
	case ErrForbidden:
		return "forbidden"
	case ErrConflict:
		return "conflict"
	}
	return "internal"
}
