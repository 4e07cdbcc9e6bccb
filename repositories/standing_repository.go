package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/tournament-league/models"
)

type sqlStandingTable struct {
	dialect Dialect
}

const standingColumns = `player_id, position, played, won, lost, draw, points,
		goals_scored, goals_against, goal_difference`

func (r sqlStandingTable) batchCreate(ctx context.Context, tx *sql.Tx, tournamentID string, standings []models.StandingsRow) error {
	if len(standings) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, r.dialect.rebind(`
		INSERT INTO standings (tournament_id, `+standingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`))
	if err != nil {
		return fmt.Errorf("batchCreate standings: failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range standings {
		_, err = stmt.ExecContext(ctx,
			tournamentID, s.PlayerID, s.Position, s.Played, s.Won, s.Lost, s.Draw, s.Points,
			s.GoalsScored, s.GoalsAgainst, s.GoalDifference,
		)
		if err != nil {
			return fmt.Errorf("batchCreate standings: failed for player %s: %w", s.PlayerID, err)
		}
	}
	return nil
}

// listByTournament returns rows in roster order; ranking is the service's job.
func (r sqlStandingTable) listByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.StandingsRow, error) {
	rows, err := exec.QueryContext(ctx, r.dialect.rebind(`
		SELECT `+standingColumns+`
		FROM standings
		WHERE tournament_id = $1
		ORDER BY position ASC`), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	standings := make([]models.StandingsRow, 0)
	for rows.Next() {
		var s models.StandingsRow
		if err := rows.Scan(
			&s.PlayerID, &s.Position, &s.Played, &s.Won, &s.Lost, &s.Draw, &s.Points,
			&s.GoalsScored, &s.GoalsAgainst, &s.GoalDifference,
		); err != nil {
			return nil, fmt.Errorf("failed to scan standing row: %w", err)
		}
		standings = append(standings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return standings, nil
}

func (r sqlStandingTable) update(ctx context.Context, exec SQLExecutor, tournamentID string, s models.StandingsRow) error {
	result, err := exec.ExecContext(ctx, r.dialect.rebind(`
		UPDATE standings SET
			played = $1, won = $2, lost = $3, draw = $4, points = $5,
			goals_scored = $6, goals_against = $7, goal_difference = $8
		WHERE tournament_id = $9 AND player_id = $10`),
		s.Played, s.Won, s.Lost, s.Draw, s.Points,
		s.GoalsScored, s.GoalsAgainst, s.GoalDifference,
		tournamentID, s.PlayerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update standing for player %s: %w", s.PlayerID, err)
	}
	return checkAffectedRows(result, ErrStandingNotFound)
}
