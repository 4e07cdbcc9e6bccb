package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/repositories"
)

// RosterService exposes the slice of team membership the league needs: tournament
// participants must come from the creator's team.
type RosterService interface {
	MyTeam(ctx context.Context, actorID string) (string, []models.TeamMember, error)
	// AddMember adds userID to teamID. Members may add anyone without a team; a user without a
	// team may add themselves, which is how a team gets its first member.
	AddMember(ctx context.Context, actorID, teamID, userID string) (*models.TeamMember, error)
}

type rosterService struct {
	roster repositories.RosterRepository
	logger *slog.Logger
}

func NewRosterService(roster repositories.RosterRepository, logger *slog.Logger) RosterService {
	return &rosterService{roster: roster, logger: logger}
}

func (s *rosterService) MyTeam(ctx context.Context, actorID string) (string, []models.TeamMember, error) {
	teamID, err := s.teamOf(ctx, actorID)
	if err != nil {
		return "", nil, err
	}
	if teamID == "" {
		return "", nil, ErrTeamNotFound
	}
	members, err := s.roster.ListMembers(ctx, teamID)
	if err != nil {
		return "", nil, fmt.Errorf("%w: list members of team %s: %w", ErrInternal, teamID, err)
	}
	return teamID, members, nil
}

func (s *rosterService) AddMember(ctx context.Context, actorID, teamID, userID string) (*models.TeamMember, error) {
	teamID = strings.TrimSpace(teamID)
	userID = strings.TrimSpace(userID)
	if teamID == "" {
		return nil, ErrTeamIDRequired
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	actorTeam, err := s.teamOf(ctx, actorID)
	if err != nil {
		return nil, err
	}
	joiningSelf := userID == actorID && actorTeam == ""
	if actorTeam != teamID && !joiningSelf {
		return nil, ErrNotTeamMember
	}

	current, err := s.teamOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch current {
	case teamID:
		return s.member(ctx, teamID, userID)
	case "":
	default:
		return nil, ErrUserInAnotherTeam
	}

	if err := s.roster.AddMember(ctx, teamID, userID); err != nil {
		return nil, fmt.Errorf("%w: add %s to team %s: %w", ErrInternal, userID, teamID, err)
	}
	s.logger.InfoContext(ctx, "team member added",
		slog.String("team_id", teamID),
		slog.String("user_id", userID),
		slog.String("actor_id", actorID),
	)
	return s.member(ctx, teamID, userID)
}

// teamOf returns "" for users without a team.
func (s *rosterService) teamOf(ctx context.Context, userID string) (string, error) {
	teamID, err := s.roster.TeamOf(ctx, userID)
	if errors.Is(err, repositories.ErrTeamMemberNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: resolve team of %s: %w", ErrInternal, userID, err)
	}
	return teamID, nil
}

func (s *rosterService) member(ctx context.Context, teamID, userID string) (*models.TeamMember, error) {
	members, err := s.roster.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("%w: list members of team %s: %w", ErrInternal, teamID, err)
	}
	for _, m := range members {
		if m.UserID == userID {
			return &m, nil
		}
	}
	return nil, fmt.Errorf("%w: member %s missing from team %s after insert", ErrInternal, userID, teamID)
}
