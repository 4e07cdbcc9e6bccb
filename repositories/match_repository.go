package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-league/models"
)

// sqlMatchTable holds the matches-table queries used by the tournament aggregate repository.
// Every method takes the executor so it can run inside the aggregate's transaction.
type sqlMatchTable struct {
	dialect Dialect
}

const matchColumns = `id, tournament_id, seq, player1_id, player2_id, score1, score2, status,
		submitted_by, submitted_at, approved_by, approved_at, disputed_by, dispute_reason`

func (r sqlMatchTable) batchCreate(ctx context.Context, tx *sql.Tx, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, r.dialect.rebind(`
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`))
	if err != nil {
		return fmt.Errorf("batchCreate matches: failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		_, err = stmt.ExecContext(ctx,
			m.ID, m.TournamentID, m.Seq, m.Player1ID, m.Player2ID,
			nullInt(m.Score1), nullInt(m.Score2), string(m.Status),
			nullString(m.SubmittedBy), nullTime(m.SubmittedAt),
			nullString(m.ApprovedBy), nullTime(m.ApprovedAt),
			nullString(m.DisputedBy), nullString(m.DisputeReason),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s vs %s", ErrMatchPairConflict, m.Player1ID, m.Player2ID)
			}
			return fmt.Errorf("batchCreate matches: failed for match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (r sqlMatchTable) listByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]models.Match, error) {
	rows, err := exec.QueryContext(ctx, r.dialect.rebind(`
		SELECT `+matchColumns+`
		FROM matches
		WHERE tournament_id = $1
		ORDER BY seq ASC`), tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %s: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r sqlMatchTable) tournamentIDOf(ctx context.Context, exec SQLExecutor, matchID string) (string, error) {
	var tournamentID string
	err := exec.QueryRowContext(ctx, r.dialect.rebind(`SELECT tournament_id FROM matches WHERE id = $1`), matchID).Scan(&tournamentID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrMatchNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up match %s: %w", matchID, err)
	}
	return tournamentID, nil
}

// updateIfStatus overwrites the mutable columns only while the stored status still equals from.
func (r sqlMatchTable) updateIfStatus(ctx context.Context, exec SQLExecutor, m models.Match, from models.MatchStatus) error {
	result, err := exec.ExecContext(ctx, r.dialect.rebind(`
		UPDATE matches SET
			score1 = $1, score2 = $2, status = $3,
			submitted_by = $4, submitted_at = $5,
			approved_by = $6, approved_at = $7,
			disputed_by = $8, dispute_reason = $9
		WHERE id = $10 AND tournament_id = $11 AND status = $12`),
		nullInt(m.Score1), nullInt(m.Score2), string(m.Status),
		nullString(m.SubmittedBy), nullTime(m.SubmittedAt),
		nullString(m.ApprovedBy), nullTime(m.ApprovedAt),
		nullString(m.DisputedBy), nullString(m.DisputeReason),
		m.ID, m.TournamentID, string(from),
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrVersionConflict)
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (models.Match, error) {
	var (
		m                                   models.Match
		status                              string
		score1, score2                      sql.NullInt64
		submittedBy, approvedBy, disputedBy sql.NullString
		disputeReason                       sql.NullString
		submittedAt, approvedAt             sql.NullTime
	)
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.Seq, &m.Player1ID, &m.Player2ID,
		&score1, &score2, &status,
		&submittedBy, &submittedAt, &approvedBy, &approvedAt, &disputedBy, &disputeReason,
	)
	if err != nil {
		return models.Match{}, err
	}
	m.Status = models.MatchStatus(status)
	if score1.Valid {
		v := int(score1.Int64)
		m.Score1 = &v
	}
	if score2.Valid {
		v := int(score2.Int64)
		m.Score2 = &v
	}
	if submittedAt.Valid {
		t := submittedAt.Time
		m.SubmittedAt = &t
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		m.ApprovedAt = &t
	}
	m.SubmittedBy = submittedBy.String
	m.ApprovedBy = approvedBy.String
	m.DisputedBy = disputedBy.String
	m.DisputeReason = disputeReason.String
	return m, nil
}
