package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/tournament-league/brackets"
	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/repositories"
)

func validateTournamentDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrTournamentDatesRequired
	}
	if end.Before(start) {
		return fmt.Errorf("%w: start %s, end %s", ErrTournamentInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidStatusTransition(current, next models.TournamentStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TournamentStatus][]models.TournamentStatus{
		models.TournamentScheduled: {models.TournamentActive, models.TournamentCompleted},
		models.TournamentActive:    {models.TournamentCompleted},
		models.TournamentCompleted: {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func mapPairingError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrNotEnoughParticipants):
		return ErrNotEnoughParticipants
	case errors.Is(err, brackets.ErrDuplicateParticipant):
		return fmt.Errorf("%w%s", ErrDuplicateParticipant, strings.TrimPrefix(err.Error(), brackets.ErrDuplicateParticipant.Error()))
	case errors.Is(err, brackets.ErrBlankParticipant):
		return ErrBlankParticipant
	}
	return fmt.Errorf("%w: generate pairings: %w", ErrInternal, err)
}

// handleRepositoryError translates persistence errors into service categories.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrConcurrentModification
	case errors.Is(err, repositories.ErrStandingNotFound):
		return fmt.Errorf("%w: %w", ErrCorruptAggregate, err)
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
