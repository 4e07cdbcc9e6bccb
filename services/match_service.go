package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/tournament-league/metrics"
	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/notify"
	"github.com/Dosada05/tournament-league/repositories"
)

const (
	MaxDisputeReasonLength = 500
	// MaxScore keeps a single result, and the goal totals summed from it, inside an INTEGER column.
	MaxScore = 9999
)

const (
	transitionSubmit  = "submit"
	transitionApprove = "approve"
	transitionDispute = "dispute"
)

// MatchService drives the score confirmation flow of a single match:
// pending -> submitted -> completed, with a dispute sending submitted back to pending.
type MatchService interface {
	SubmitScore(ctx context.Context, matchID, submitterID string, score1, score2 int) (*models.Match, error)
	// ApproveScore completes the match and applies the result to the standings in the same commit.
	ApproveScore(ctx context.Context, matchID, approverID string) (*models.Match, error)
	DisputeScore(ctx context.Context, matchID, disputerID, reason string) (*models.Match, error)
}

type matchService struct {
	repo      repositories.TournamentRepository
	publisher notify.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewMatchService(
	repo repositories.TournamentRepository,
	publisher notify.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) MatchService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	return &matchService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *matchService) SubmitScore(ctx context.Context, matchID, submitterID string, score1, score2 int) (_ *models.Match, err error) {
	defer func() { s.metrics.MatchTransition(transitionSubmit, resultLabel(err)) }()

	if score1 < 0 || score2 < 0 {
		return nil, ErrNegativeScore
	}
	if score1 > MaxScore || score2 > MaxScore {
		return nil, ErrScoreTooHigh
	}
	tournament, match, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(submitterID) {
		return nil, ErrNotMatchParticipant
	}
	if match.Status != models.MatchPending {
		return nil, fmt.Errorf("%w (status %s)", ErrMatchNotPending, match.Status)
	}

	now := s.now().UTC()
	next := match.Clone()
	next.Score1 = &score1
	next.Score2 = &score2
	next.Status = models.MatchSubmitted
	next.SubmittedBy = submitterID
	next.SubmittedAt = &now
	next.ApprovedBy = ""
	next.ApprovedAt = nil

	if err := s.commit(ctx, tournament, models.MatchPending, next, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "score submitted",
		slog.String("tournament_id", tournament.ID),
		slog.String("match_id", next.ID),
		slog.String("submitted_by", submitterID),
		slog.Int("score1", score1),
		slog.Int("score2", score2),
	)
	s.publish(ctx, models.Event{
		Type:         models.EventScoreSubmitted,
		TournamentID: tournament.ID,
		MatchID:      next.ID,
		OccurredAt:   now,
		Payload: models.ScoreSubmittedPayload{
			Score1:      score1,
			Score2:      score2,
			SubmittedBy: submitterID,
			OpponentID:  next.Opponent(submitterID),
			Message:     fmt.Sprintf("Score %d-%d submitted. Awaiting opponent approval.", score1, score2),
		},
	})
	return &next, nil
}

func (s *matchService) ApproveScore(ctx context.Context, matchID, approverID string) (_ *models.Match, err error) {
	defer func() { s.metrics.MatchTransition(transitionApprove, resultLabel(err)) }()

	tournament, match, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(approverID) {
		return nil, ErrNotMatchParticipant
	}
	if approverID == match.SubmittedBy {
		return nil, ErrSelfApproval
	}
	if match.Status != models.MatchSubmitted {
		return nil, fmt.Errorf("%w (status %s)", ErrMatchNotSubmitted, match.Status)
	}
	if match.Score1 == nil || match.Score2 == nil {
		return nil, fmt.Errorf("%w: submitted match %s has no scores", ErrCorruptAggregate, match.ID)
	}

	row1 := tournament.FindStanding(match.Player1ID)
	row2 := tournament.FindStanding(match.Player2ID)
	if row1 == nil || row2 == nil {
		return nil, fmt.Errorf("%w: missing standings row for match %s", ErrCorruptAggregate, match.ID)
	}
	updated1, updated2 := ApplyResult(*row1, *row2, *match.Score1, *match.Score2)

	now := s.now().UTC()
	next := match.Clone()
	next.Status = models.MatchCompleted
	next.ApprovedBy = approverID
	next.ApprovedAt = &now

	if err := s.commit(ctx, tournament, models.MatchSubmitted, next, []models.StandingsRow{updated1, updated2}); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "score approved",
		slog.String("tournament_id", tournament.ID),
		slog.String("match_id", next.ID),
		slog.String("approved_by", approverID),
	)
	s.publish(ctx, models.Event{
		Type:         models.EventScoreApproved,
		TournamentID: tournament.ID,
		MatchID:      next.ID,
		OccurredAt:   now,
		Payload: models.ScoreApprovedPayload{
			Score1:     *next.Score1,
			Score2:     *next.Score2,
			ApprovedBy: approverID,
			Message:    fmt.Sprintf("Score %d-%d approved and finalized!", *next.Score1, *next.Score2),
		},
	})
	return &next, nil
}

func (s *matchService) DisputeScore(ctx context.Context, matchID, disputerID, reason string) (_ *models.Match, err error) {
	defer func() { s.metrics.MatchTransition(transitionDispute, resultLabel(err)) }()

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrDisputeReasonRequired
	}
	if utf8.RuneCountInString(reason) > MaxDisputeReasonLength {
		return nil, ErrDisputeReasonTooLong
	}
	tournament, match, err := s.load(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasPlayer(disputerID) {
		return nil, ErrNotMatchParticipant
	}
	if disputerID == match.SubmittedBy {
		return nil, ErrSelfDispute
	}
	switch match.Status {
	case models.MatchSubmitted:
	case models.MatchCompleted:
		return nil, ErrMatchAlreadyCompleted
	default:
		return nil, fmt.Errorf("%w (status %s)", ErrMatchNotSubmitted, match.Status)
	}

	now := s.now().UTC()
	next := match.Clone()
	next.Status = models.MatchPending
	next.Score1 = nil
	next.Score2 = nil
	next.SubmittedBy = ""
	next.SubmittedAt = nil
	next.ApprovedBy = ""
	next.ApprovedAt = nil
	next.DisputedBy = disputerID
	next.DisputeReason = reason

	if err := s.commit(ctx, tournament, models.MatchSubmitted, next, nil); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "score disputed",
		slog.String("tournament_id", tournament.ID),
		slog.String("match_id", next.ID),
		slog.String("disputed_by", disputerID),
	)
	s.publish(ctx, models.Event{
		Type:         models.EventScoreDisputed,
		TournamentID: tournament.ID,
		MatchID:      next.ID,
		OccurredAt:   now,
		Payload: models.ScoreDisputedPayload{
			DisputedBy: disputerID,
			Reason:     reason,
			Message:    fmt.Sprintf("Score disputed: %s. Please re-enter the correct score.", reason),
		},
	})
	return &next, nil
}

// load returns the aggregate and a copy of the match; the copy is safe to inspect after
// the aggregate is mutated.
func (s *matchService) load(ctx context.Context, matchID string) (*models.Tournament, models.Match, error) {
	tournament, err := s.repo.GetByMatchID(ctx, matchID)
	if err != nil {
		return nil, models.Match{}, handleRepositoryError(err)
	}
	match := tournament.FindMatch(matchID)
	if match == nil {
		return nil, models.Match{}, fmt.Errorf("%w: match %s missing from tournament %s", ErrCorruptAggregate, matchID, tournament.ID)
	}
	return tournament, match.Clone(), nil
}

func (s *matchService) commit(ctx context.Context, tournament *models.Tournament, from models.MatchStatus, next models.Match, standings []models.StandingsRow) error {
	_, err := s.repo.SaveMatchTransition(ctx, repositories.MatchTransition{
		TournamentID:    tournament.ID,
		ExpectedVersion: tournament.Version,
		FromStatus:      from,
		Match:           next,
		Standings:       standings,
	})
	return handleRepositoryError(err)
}

// publish runs after the commit; a delivery failure is logged and never undoes the transition.
func (s *matchService) publish(ctx context.Context, event models.Event) {
	err := s.publisher.Publish(ctx, event)
	s.metrics.EventPublished(string(event.Type), err)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish match event",
			slog.String("type", string(event.Type)),
			slog.String("tournament_id", event.TournamentID),
			slog.String("match_id", event.MatchID),
			slog.Any("error", err),
		)
	}
}
