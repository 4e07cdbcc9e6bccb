package notify

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-league/models"
)

// Publisher delivers committed domain events. Callers treat delivery as best-effort.
type Publisher interface {
	Publish(ctx context.Context, event models.Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, models.Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event models.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func RoomForTournament(tournamentID string) string {
	return "tournament_" + tournamentID
}
