package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-league/brackets"
	"github.com/Dosada05/tournament-league/metrics"
	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	tournamentListLimit = 100
	statusUpdateWorkers = 4
)

type CreateTournamentInput struct {
	Name           string
	ParticipantIDs []string
	StartDate      time.Time
	EndDate        time.Time
}

type TournamentService interface {
	CreateTournament(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error)
	// GetTournament is scoped to the actor's team; other teams' tournaments are reported as not found.
	GetTournament(ctx context.Context, actorID, tournamentID string) (*models.Tournament, error)
	ListTournaments(ctx context.Context, actorID string, status *models.TournamentStatus) ([]models.Tournament, error)
	// ListMatches returns matches in generated order, optionally only those of playerID.
	ListMatches(ctx context.Context, actorID, tournamentID, playerID string) ([]models.Match, error)
	GetLeaderboard(ctx context.Context, tournamentID string) ([]models.LeaderboardEntry, error)
	UpdateTournamentStatus(ctx context.Context, actorID, tournamentID string, status models.TournamentStatus) (*models.Tournament, error)
	AutoUpdateTournamentStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	repo      repositories.TournamentRepository
	roster    repositories.RosterRepository
	generator brackets.PairingGenerator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

func NewTournamentService(
	repo repositories.TournamentRepository,
	roster repositories.RosterRepository,
	generator brackets.PairingGenerator,
	m *metrics.Metrics,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		repo:      repo,
		roster:    roster,
		generator: generator,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, creatorID string, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}
	if err := validateTournamentDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	participantIDs := make([]string, len(input.ParticipantIDs))
	for i, id := range input.ParticipantIDs {
		participantIDs[i] = strings.TrimSpace(id)
	}
	pairings, err := s.generator.Generate(participantIDs)
	if err != nil {
		return nil, mapPairingError(err)
	}

	teamID, err := s.roster.TeamOf(ctx, creatorID)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, ErrCreatorWithoutTeam
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve team of %s: %w", ErrInternal, creatorID, err)
	}
	members, err := s.roster.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: list members of team %s: %w", ErrInternal, teamID, err)
	}
	inTeam := make(map[string]struct{}, len(members))
	for _, m := range members {
		inTeam[m.UserID] = struct{}{}
	}
	for _, id := range participantIDs {
		if _, ok := inTeam[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrParticipantNotInTeam, id)
		}
	}

	tournament := &models.Tournament{
		ID:             s.newID(),
		Name:           name,
		OwnerTeamID:    teamID,
		CreatedBy:      creatorID,
		ParticipantIDs: participantIDs,
		StartDate:      input.StartDate.UTC(),
		EndDate:        input.EndDate.UTC(),
		Status:         models.TournamentScheduled,
		Version:        1,
		CreatedAt:      s.now().UTC(),
	}
	tournament.Matches = make([]models.Match, len(pairings))
	for i, p := range pairings {
		tournament.Matches[i] = models.Match{
			ID:           s.newID(),
			TournamentID: tournament.ID,
			Seq:          p.Seq,
			Player1ID:    p.Player1ID,
			Player2ID:    p.Player2ID,
			Status:       models.MatchPending,
		}
	}
	tournament.Standings = make([]models.StandingsRow, len(participantIDs))
	for i, id := range participantIDs {
		tournament.Standings[i] = models.StandingsRow{PlayerID: id, Position: i}
	}

	if err := s.repo.Create(ctx, tournament); err != nil {
		return nil, handleRepositoryError(err)
	}

	s.metrics.TournamentCreated()
	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("team_id", teamID),
		slog.String("pairing", s.generator.GetName()),
		slog.Int("participants", len(participantIDs)),
		slog.Int("matches", len(tournament.Matches)),
	)
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, actorID, tournamentID string) (*models.Tournament, error) {
	return s.loadForTeamMember(ctx, actorID, tournamentID)
}

func (s *tournamentService) loadForTeamMember(ctx context.Context, actorID, tournamentID string) (*models.Tournament, error) {
	tournament, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	teamID, err := s.roster.TeamOf(ctx, actorID)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve team of %s: %w", ErrInternal, actorID, err)
	}
	if teamID != tournament.OwnerTeamID {
		return nil, ErrTournamentNotFound
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context, actorID string, status *models.TournamentStatus) ([]models.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}
	teamID, err := s.roster.TeamOf(ctx, actorID)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return []models.Tournament{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: resolve team of %s: %w", ErrInternal, actorID, err)
	}

	tournaments, err := s.repo.List(ctx, repositories.ListTournamentsFilter{
		OwnerTeamID: teamID,
		Status:      status,
		Limit:       tournamentListLimit,
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return tournaments, nil
}

func (s *tournamentService) ListMatches(ctx context.Context, actorID, tournamentID, playerID string) ([]models.Match, error) {
	tournament, err := s.loadForTeamMember(ctx, actorID, tournamentID)
	if err != nil {
		return nil, err
	}
	if playerID == "" {
		return tournament.Matches, nil
	}
	matches := make([]models.Match, 0)
	for _, m := range tournament.Matches {
		if m.HasPlayer(playerID) {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

func (s *tournamentService) GetLeaderboard(ctx context.Context, tournamentID string) ([]models.LeaderboardEntry, error) {
	tournament, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return RankStandings(tournament.Standings), nil
}

func (s *tournamentService) UpdateTournamentStatus(ctx context.Context, actorID, tournamentID string, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, ErrTournamentInvalidStatus
	}
	tournament, err := s.loadForTeamMember(ctx, actorID, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Status == status {
		return tournament, nil
	}
	if !isValidStatusTransition(tournament.Status, status) {
		return nil, fmt.Errorf("%w: from %s to %s", ErrTournamentInvalidStatusTransition, tournament.Status, status)
	}

	version, err := s.repo.UpdateStatus(ctx, tournament.ID, tournament.Version, status)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.logger.InfoContext(ctx, "tournament status updated",
		slog.String("tournament_id", tournament.ID),
		slog.String("from", string(tournament.Status)),
		slog.String("to", string(status)),
		slog.String("actor_id", actorID),
	)
	tournament.Status = status
	tournament.Version = version
	return tournament, nil
}

// AutoUpdateTournamentStatusesByDates moves scheduled tournaments whose start date has passed
// to active, and those whose end date has passed to completed. Tournaments changed
// concurrently are skipped until the next run.
func (s *tournamentService) AutoUpdateTournamentStatusesByDates(ctx context.Context) error {
	now := s.now().UTC()
	due, err := s.repo.GetTournamentsForAutoStatusUpdate(ctx, now)
	if err != nil {
		return fmt.Errorf("%w: list tournaments for status update: %w", ErrInternal, err)
	}

	var (
		mu      sync.Mutex
		errs    []error
		updated int
		g       errgroup.Group
	)
	g.SetLimit(statusUpdateWorkers)
	for _, t := range due {
		next := statusByDates(t, now)
		if next == t.Status || !isValidStatusTransition(t.Status, next) {
			continue
		}
		g.Go(func() error {
			_, err := s.repo.UpdateStatus(ctx, t.ID, t.Version, next)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				updated++
				s.logger.InfoContext(ctx, "tournament status updated by schedule",
					slog.String("tournament_id", t.ID),
					slog.String("from", string(t.Status)),
					slog.String("to", string(next)),
				)
			case errors.Is(err, repositories.ErrVersionConflict), errors.Is(err, repositories.ErrTournamentNotFound):
				s.logger.DebugContext(ctx, "skipping tournament changed during status update", slog.String("tournament_id", t.ID))
			default:
				errs = append(errs, fmt.Errorf("update status of tournament %s: %w", t.ID, err))
			}
			// Failures are collected so one tournament does not stop the others.
			return nil
		})
	}
	_ = g.Wait()
	if updated > 0 {
		s.logger.InfoContext(ctx, "scheduled status update finished", slog.Int("updated", updated), slog.Int("due", len(due)))
	}
	return errors.Join(errs...)
}

func statusByDates(t models.Tournament, now time.Time) models.TournamentStatus {
	switch {
	case t.EndDate.Before(now):
		return models.TournamentCompleted
	case t.Status == models.TournamentScheduled && !t.StartDate.After(now):
		return models.TournamentActive
	}
	return t.Status
}
