package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/repositories"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(played, won, lost, draw, points, scored, against, diff int) models.StandingsRow {
	return models.StandingsRow{
		Played: played, Won: won, Lost: lost, Draw: draw, Points: points,
		GoalsScored: scored, GoalsAgainst: against, GoalDifference: diff,
	}
}

func withoutIdentity(r *models.StandingsRow) models.StandingsRow {
	c := *r
	c.PlayerID = ""
	c.Position = 0
	return c
}

func TestScenario_ThreePlayersOneApprovedMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B", "C")
	ab := matchBetween(t, tournament, "A", "B")

	submitted, err := env.matches.SubmitScore(ctx, ab, "A", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, models.MatchSubmitted, submitted.Status)

	completed, err := env.matches.ApproveScore(ctx, ab, "B")
	require.NoError(t, err)
	assert.Equal(t, models.MatchCompleted, completed.Status)
	assert.Equal(t, "B", completed.ApprovedBy)
	require.NotNil(t, completed.ApprovedAt)

	stored := env.reload(t, tournament.ID)
	assert.Equal(t, row(1, 1, 0, 0, 3, 3, 1, 2), withoutIdentity(stored.FindStanding("A")))
	assert.Equal(t, row(1, 0, 1, 0, 0, 1, 3, -2), withoutIdentity(stored.FindStanding("B")))
	assert.Equal(t, row(0, 0, 0, 0, 0, 0, 0, 0), withoutIdentity(stored.FindStanding("C")))

	leaderboard, err := env.tournaments.GetLeaderboard(ctx, tournament.ID)
	require.NoError(t, err)
	// B lost by two, so C's zero goal difference ranks above it.
	assert.Equal(t, []string{"A", "C", "B"}, playerOrder(leaderboard))
	assert.Equal(t, []int{1, 2, 3}, ranks(leaderboard))

	assert.Equal(t, []models.EventType{models.EventScoreSubmitted, models.EventScoreApproved}, env.publisher.types())
}

func TestSubmitScore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B", "C")
	ab := matchBetween(t, tournament, "A", "B")

	_, err := env.matches.SubmitScore(ctx, ab, "A", -1, 0)
	assert.ErrorIs(t, err, ErrNegativeScore)
	_, err = env.matches.SubmitScore(ctx, ab, "A", 0, MaxScore+1)
	assert.ErrorIs(t, err, ErrScoreTooHigh)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.matches.SubmitScore(ctx, ab, "C", 1, 0)
	assert.ErrorIs(t, err, ErrNotMatchParticipant)
	_, err = env.matches.SubmitScore(ctx, ab, "", 1, 0)
	assert.ErrorIs(t, err, ErrNotMatchParticipant)
	_, err = env.matches.SubmitScore(ctx, "missing", "A", 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.Equal(t, int64(1), env.reload(t, tournament.ID).Version, "rejected calls never write")

	got, err := env.matches.SubmitScore(ctx, ab, "B", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, models.MatchSubmitted, got.Status)
	require.NotNil(t, got.Score1)
	require.NotNil(t, got.Score2)
	assert.Equal(t, 2, *got.Score1)
	assert.Equal(t, 0, *got.Score2)
	assert.Equal(t, "B", got.SubmittedBy)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, testNow.Add(time.Hour), *got.SubmittedAt)

	stored := env.reload(t, tournament.ID)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, models.MatchSubmitted, stored.FindMatch(ab).Status)
	for _, r := range stored.Standings {
		assert.Zero(t, r.Played, "submitting does not touch standings")
	}

	_, err = env.matches.SubmitScore(ctx, ab, "A", 5, 5)
	assert.ErrorIs(t, err, ErrMatchNotPending)
	assert.ErrorIs(t, err, ErrConflict)

	event := env.publisher.events[0]
	assert.Equal(t, tournament.ID, event.TournamentID)
	assert.Equal(t, ab, event.MatchID)
	assert.Equal(t, models.ScoreSubmittedPayload{
		Score1: 2, Score2: 0, SubmittedBy: "B", OpponentID: "A",
		Message: "Score 2-0 submitted. Awaiting opponent approval.",
	}, event.Payload)
}

func TestApproveScore_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B", "C")
	ab := matchBetween(t, tournament, "A", "B")

	_, err := env.matches.ApproveScore(ctx, ab, "B")
	assert.ErrorIs(t, err, ErrMatchNotSubmitted, "nothing to approve while pending")

	_, err = env.matches.SubmitScore(ctx, ab, "A", 1, 1)
	require.NoError(t, err)

	_, err = env.matches.ApproveScore(ctx, ab, "A")
	assert.ErrorIs(t, err, ErrSelfApproval)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = env.matches.ApproveScore(ctx, ab, "C")
	assert.ErrorIs(t, err, ErrNotMatchParticipant)

	_, err = env.matches.ApproveScore(ctx, ab, "B")
	require.NoError(t, err)
	afterFirst := env.reload(t, tournament.ID)
	assert.Equal(t, row(1, 0, 0, 1, 1, 1, 1, 0), withoutIdentity(afterFirst.FindStanding("A")))
	assert.Equal(t, row(1, 0, 0, 1, 1, 1, 1, 0), withoutIdentity(afterFirst.FindStanding("B")))

	_, err = env.matches.ApproveScore(ctx, ab, "B")
	assert.ErrorIs(t, err, ErrConflict, "approval replay")
	_, err = env.matches.ApproveScore(ctx, ab, "A")
	assert.ErrorIs(t, err, ErrSelfApproval, "self approval is forbidden in any state")

	afterReplay := env.reload(t, tournament.ID)
	assert.Equal(t, afterFirst.Standings, afterReplay.Standings)
	assert.Equal(t, afterFirst.Version, afterReplay.Version)
}

func TestDisputeScore_Cycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B", "C")
	bc := matchBetween(t, tournament, "B", "C")

	_, err := env.matches.SubmitScore(ctx, bc, "B", 4, 0)
	require.NoError(t, err)

	_, err = env.matches.DisputeScore(ctx, bc, "C", "   ")
	assert.ErrorIs(t, err, ErrDisputeReasonRequired)
	_, err = env.matches.DisputeScore(ctx, bc, "C", strings.Repeat("x", MaxDisputeReasonLength+1))
	assert.ErrorIs(t, err, ErrDisputeReasonTooLong)
	_, err = env.matches.DisputeScore(ctx, bc, "B", "changed my mind")
	assert.ErrorIs(t, err, ErrSelfDispute)
	_, err = env.matches.DisputeScore(ctx, bc, "A", "I saw it")
	assert.ErrorIs(t, err, ErrNotMatchParticipant)

	disputed, err := env.matches.DisputeScore(ctx, bc, "C", "  it was 3-1  ")
	require.NoError(t, err)
	assert.Equal(t, models.MatchPending, disputed.Status)
	assert.Nil(t, disputed.Score1)
	assert.Nil(t, disputed.Score2)
	assert.Empty(t, disputed.SubmittedBy)
	assert.Nil(t, disputed.SubmittedAt)
	assert.Empty(t, disputed.ApprovedBy)
	assert.Equal(t, "C", disputed.DisputedBy)
	assert.Equal(t, "it was 3-1", disputed.DisputeReason)

	stored := env.reload(t, tournament.ID)
	for _, r := range stored.Standings {
		assert.Zero(t, r.Played, "dispute leaves standings untouched")
	}

	resubmitted, err := env.matches.SubmitScore(ctx, bc, "C", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, models.MatchSubmitted, resubmitted.Status)
	assert.Equal(t, "C", resubmitted.DisputedBy, "audit of the last dispute is kept")

	_, err = env.matches.ApproveScore(ctx, bc, "B")
	require.NoError(t, err)
	stored = env.reload(t, tournament.ID)
	assert.Equal(t, row(1, 0, 1, 0, 0, 1, 3, -2), withoutIdentity(stored.FindStanding("B")))
	assert.Equal(t, row(1, 1, 0, 0, 3, 3, 1, 2), withoutIdentity(stored.FindStanding("C")))

	_, err = env.matches.DisputeScore(ctx, bc, "B", "too late")
	assert.ErrorIs(t, err, ErrMatchAlreadyCompleted)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, []models.EventType{
		models.EventScoreSubmitted, models.EventScoreDisputed, models.EventScoreSubmitted, models.EventScoreApproved,
	}, env.publisher.types())
	assert.Equal(t, models.ScoreDisputedPayload{
		DisputedBy: "C", Reason: "it was 3-1", Message: "Score disputed: it was 3-1. Please re-enter the correct score.",
	}, env.publisher.events[1].Payload)
}

func TestDisputeScore_PendingMatch(t *testing.T) {
	env := newTestEnv(t)
	tournament := env.createLeague(t, "A", "B")
	_, err := env.matches.DisputeScore(context.Background(), tournament.Matches[0].ID, "B", "no score yet")
	assert.ErrorIs(t, err, ErrMatchNotSubmitted)
}

// staleRepo serves a snapshot taken before other writers committed.
type staleRepo struct {
	*repositories.MemoryStore
	snapshot *models.Tournament
}

func (r staleRepo) GetByMatchID(context.Context, string) (*models.Tournament, error) {
	return r.snapshot.Clone(), nil
}

func TestTransitions_StaleReadIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B", "C")
	snapshot := env.reload(t, tournament.ID)

	_, err := env.matches.SubmitScore(ctx, matchBetween(t, tournament, "A", "B"), "A", 1, 0)
	require.NoError(t, err)

	env.matches.repo = staleRepo{MemoryStore: env.store, snapshot: snapshot}
	_, err = env.matches.SubmitScore(ctx, matchBetween(t, tournament, "A", "C"), "C", 2, 2)
	require.ErrorIs(t, err, ErrConcurrentModification)
	assert.ErrorIs(t, err, ErrConflict)

	stored := env.reload(t, tournament.ID)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, models.MatchPending, stored.FindMatch(matchBetween(t, tournament, "A", "C")).Status)
}

func TestApproveScore_ConcurrentApprovalsApplyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B")
	ab := tournament.Matches[0].ID
	_, err := env.matches.SubmitScore(ctx, ab, "A", 2, 1)
	require.NoError(t, err)

	const callers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.matches.ApproveScore(ctx, ab, "B")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
				return
			}
			assert.ErrorIs(t, err, ErrConflict)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	stored := env.reload(t, tournament.ID)
	assert.Equal(t, 1, stored.FindStanding("A").Played)
	assert.Equal(t, 1, stored.FindStanding("B").Played)
	assert.Equal(t, 3, stored.FindStanding("A").Points)
}

// failingSaveRepo fails every commit after reading normally.
type failingSaveRepo struct {
	*repositories.MemoryStore
}

func (r failingSaveRepo) SaveMatchTransition(context.Context, repositories.MatchTransition) (int64, error) {
	return 0, errors.New("disk full")
}

func TestApproveScore_FailedCommitChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B")
	ab := tournament.Matches[0].ID
	_, err := env.matches.SubmitScore(ctx, ab, "A", 2, 1)
	require.NoError(t, err)
	before := env.reload(t, tournament.ID)
	eventsBefore := len(env.publisher.types())

	env.matches.repo = failingSaveRepo{env.store}
	_, err = env.matches.ApproveScore(ctx, ab, "B")
	require.ErrorIs(t, err, ErrInternal)

	after := env.reload(t, tournament.ID)
	assert.Equal(t, before, after)
	assert.Len(t, env.publisher.types(), eventsBefore, "no event for an uncommitted transition")
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.publisher.err = errors.New("hub down")
	tournament := env.createLeague(t, "A", "B")

	got, err := env.matches.SubmitScore(ctx, tournament.Matches[0].ID, "A", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, models.MatchSubmitted, got.Status)
	assert.Equal(t, models.MatchSubmitted, env.reload(t, tournament.ID).Matches[0].Status)

	require.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(`
# HELP league_events_published_total Domain events handed to the publisher, by type and outcome.
# TYPE league_events_published_total counter
league_events_published_total{result="error",type="submitted"} 1
`), "league_events_published_total"))
}

func TestTransitionMetrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createLeague(t, "A", "B")
	ab := tournament.Matches[0].ID

	_, _ = env.matches.SubmitScore(ctx, ab, "A", 1, 0)
	_, _ = env.matches.SubmitScore(ctx, ab, "A", 1, 0)
	_, _ = env.matches.ApproveScore(ctx, ab, "A")
	_, _ = env.matches.DisputeScore(ctx, ab, "B", "")

	require.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(`
# HELP league_match_transitions_total Match state transitions attempted, by transition and outcome.
# TYPE league_match_transitions_total counter
league_match_transitions_total{result="conflict",transition="submit"} 1
league_match_transitions_total{result="forbidden",transition="approve"} 1
league_match_transitions_total{result="ok",transition="submit"} 1
league_match_transitions_total{result="validation",transition="dispute"} 1
`), "league_match_transitions_total"))
}
