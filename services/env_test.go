package services

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-league/brackets"
	"github.com/Dosada05/tournament-league/db"
	"github.com/Dosada05/tournament-league/metrics"
	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/repositories"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

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

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

type testEnv struct {
	// store is nil when the env runs on a SQL repository.
	store       *repositories.MemoryStore
	repo        repositories.TournamentRepository
	publisher   *recordingPublisher
	registry    *prometheus.Registry
	tournaments *tournamentService
	matches     *matchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	env := newTestEnvOn(t, store, store)
	env.store = store
	return env
}

func newTestEnvOn(t *testing.T, repo repositories.TournamentRepository, roster repositories.RosterRepository) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := &recordingPublisher{}
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ts := NewTournamentService(repo, roster, brackets.NewRoundRobinGenerator(), m, logger).(*tournamentService)
	ts.now = func() time.Time { return testNow }
	ms := NewMatchService(repo, publisher, m, logger).(*matchService)
	ms.now = func() time.Time { return testNow.Add(time.Hour) }

	ctx := context.Background()
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		require.NoError(t, roster.AddMember(ctx, "red", id))
	}
	require.NoError(t, roster.AddMember(ctx, "blue", "Z"))

	return &testEnv{repo: repo, publisher: publisher, registry: registry, tournaments: ts, matches: ms}
}

// envFactories runs a test against every storage backend the services can be deployed on.
func envFactories() map[string]func(t *testing.T) *testEnv {
	return map[string]func(t *testing.T) *testEnv{
		"memory": newTestEnv,
		"sqlite": func(t *testing.T) *testEnv {
			t.Helper()
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			conn, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "league.db"), 5*time.Second, logger)
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })
			require.NoError(t, db.Migrate(context.Background(), conn, "sqlite"))
			return newTestEnvOn(t,
				repositories.NewSQLTournamentRepository(conn, repositories.DialectSQLite, logger),
				repositories.NewSQLRosterRepository(conn, repositories.DialectSQLite),
			)
		},
	}
}

func (e *testEnv) createLeague(t *testing.T, participants ...string) *models.Tournament {
	t.Helper()
	tournament, err := e.tournaments.CreateTournament(context.Background(), "A", CreateTournamentInput{
		Name:           "Spring league",
		ParticipantIDs: participants,
		StartDate:      testNow.Add(24 * time.Hour),
		EndDate:        testNow.Add(14 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return tournament
}

// matchBetween returns the id of the match pairing p1 and p2 (in generated order).
func matchBetween(t *testing.T, tournament *models.Tournament, p1, p2 string) string {
	t.Helper()
	for _, m := range tournament.Matches {
		if m.Player1ID == p1 && m.Player2ID == p2 {
			return m.ID
		}
	}
	t.Fatalf("no match %s vs %s", p1, p2)
	return ""
}

func (e *testEnv) reload(t *testing.T, tournamentID string) *models.Tournament {
	t.Helper()
	tournament, err := e.repo.GetByID(context.Background(), tournamentID)
	require.NoError(t, err)
	return tournament
}
