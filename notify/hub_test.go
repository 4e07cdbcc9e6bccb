package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/tournament-league/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.NewClient(conn, RoomForTournament(r.URL.Query().Get("t"))).Serve()
	}))
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, tournamentID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?t=" + tournamentID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubPublishReachesOnlyTournamentRoom(t *testing.T) {
	hub, srv := startHub(t)
	subscriber := dial(t, srv, "t1")
	other := dial(t, srv, "t2")

	require.Eventually(t, func() bool {
		return hub.RoomSize("tournament_t1") == 1 && hub.RoomSize("tournament_t2") == 1
	}, 2*time.Second, 10*time.Millisecond)

	event := models.Event{
		Type:         models.EventScoreSubmitted,
		TournamentID: "t1",
		MatchID:      "m1",
		Payload:      models.ScoreSubmittedPayload{Score1: 3, Score2: 1, SubmittedBy: "A", OpponentID: "B", Message: "A submitted 3-1"},
		OccurredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, hub.Publish(context.Background(), event))

	require.NoError(t, subscriber.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := subscriber.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Type         string                 `json:"type"`
		TournamentID string                 `json:"tournament_id"`
		MatchID      string                 `json:"match_id"`
		Payload      map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "submitted", got.Type)
	assert.Equal(t, "t1", got.TournamentID)
	assert.Equal(t, "m1", got.MatchID)
	assert.Equal(t, "B", got.Payload["opponent_id"])

	require.NoError(t, other.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = other.ReadMessage()
	assert.Error(t, err, "a different tournament's room must not receive the event")
}

func TestHubUnregistersClosedClients(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, srv, "t1")
	require.Eventually(t, func() bool { return hub.RoomSize("tournament_t1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.RoomSize("tournament_t1") == 0 }, 2*time.Second, 10*time.Millisecond)

	delivered, err := hub.BroadcastToRoom("tournament_t1", map[string]string{"type": "noop"})
	require.NoError(t, err)
	assert.Zero(t, delivered)
}
