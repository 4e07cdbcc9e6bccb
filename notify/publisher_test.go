package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("socket gone")}
	ok := &recordingPublisher{}
	event := models.Event{Type: models.EventScoreApproved, TournamentID: "t1", MatchID: "m1"}

	err := Multi{failing, Nop{}, ok}.Publish(context.Background(), event)
	require.Error(t, err)
	assert.ErrorIs(t, err, failing.err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1, "a failing publisher must not starve the rest")

	assert.NoError(t, Multi{}.Publish(context.Background(), event))
}

type memoryStore struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (s *memoryStore) Put(_ context.Context, key, contentType string, body io.Reader) (*storage.PutResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return nil, err
	}
	s.objects[key] = buf.Bytes()
	s.types[key] = contentType
	return &storage.PutResult{Key: key}, nil
}

func (s *memoryStore) PublicURL(key string) string { return "https://cdn.example.com/" + key }

func TestArchiveStoresEventAsJSON(t *testing.T) {
	store := &memoryStore{objects: map[string][]byte{}, types: map[string]string{}}
	event := models.Event{
		Type:         models.EventScoreDisputed,
		TournamentID: "t1",
		MatchID:      "m7",
		Payload:      models.ScoreDisputedPayload{DisputedBy: "B", Reason: "wrong score", Message: "B disputed the score"},
		OccurredAt:   time.Date(2026, 3, 1, 12, 30, 0, 5, time.UTC),
	}

	require.NoError(t, NewArchive(store).Publish(context.Background(), event))

	key := "events/t1/20260301T123000.000000005Z_m7_disputed.json"
	require.Contains(t, store.objects, key)
	assert.Equal(t, key, ArchiveKey(event))
	assert.Equal(t, "application/json", store.types[key])
	assert.JSONEq(t, `{
		"type": "disputed",
		"tournament_id": "t1",
		"match_id": "m7",
		"payload": {"disputed_by": "B", "reason": "wrong score", "message": "B disputed the score"},
		"occurred_at": "2026-03-01T12:30:00.000000005Z"
	}`, string(store.objects[key]))
}

func TestArchiveWrapsStoreErrors(t *testing.T) {
	cause := errors.New("bucket unavailable")
	store := &memoryStore{err: cause}
	err := NewArchive(store).Publish(context.Background(), models.Event{Type: models.EventScoreApproved, TournamentID: "t1", MatchID: "m1"})
	assert.ErrorIs(t, err, cause)
}
