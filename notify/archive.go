package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/storage"
)

// Archive writes every event as a JSON object to the store, one object per event.
type Archive struct {
	store storage.ObjectStore
}

func NewArchive(store storage.ObjectStore) *Archive {
	return &Archive{store: store}
}

func (a *Archive) Publish(ctx context.Context, event models.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event for match %s: %w", event.Type, event.MatchID, err)
	}
	if _, err := a.store.Put(ctx, ArchiveKey(event), "application/json", bytes.NewReader(body)); err != nil {
		return fmt.Errorf("archive %s event for match %s: %w", event.Type, event.MatchID, err)
	}
	return nil
}

// ArchiveKey sorts lexically by time within a tournament.
func ArchiveKey(event models.Event) string {
	return fmt.Sprintf("events/%s/%s_%s_%s.json",
		event.TournamentID,
		event.OccurredAt.UTC().Format("20060102T150405.000000000Z"),
		event.MatchID,
		event.Type,
	)
}
