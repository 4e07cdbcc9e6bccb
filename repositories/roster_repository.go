package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-league/models"
)

// RosterRepository maps users to their team. A user belongs to at most one team.
type RosterRepository interface {
	TeamOf(ctx context.Context, userID string) (string, error)
	AddMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

type sqlRosterRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLRosterRepository(db *sql.DB, dialect Dialect) RosterRepository {
	return &sqlRosterRepository{db: db, dialect: dialect}
}

func (r *sqlRosterRepository) TeamOf(ctx context.Context, userID string) (string, error) {
	var teamID string
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`SELECT team_id FROM team_members WHERE user_id = $1`), userID).Scan(&teamID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTeamMemberNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get team of user %s: %w", userID, err)
	}
	return teamID, nil
}

// AddMember moves the user to teamID if they were already on another team.
func (r *sqlRosterRepository) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO team_members (user_id, team_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET team_id = excluded.team_id`),
		userID, teamID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add user %s to team %s: %w", userID, teamID, err)
	}
	return nil
}

func (r *sqlRosterRepository) ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`
		SELECT team_id, user_id, created_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY created_at ASC, user_id ASC`), teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %s: %w", teamID, err)
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team member rows iteration: %w", err)
	}
	return members, nil
}
