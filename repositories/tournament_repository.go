package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tournament-league/models"
)

type ListTournamentsFilter struct {
	OwnerTeamID string
	Status      *models.TournamentStatus
	Limit       int
}

// MatchTransition is one state-machine step committed as a unit: the tournament version
// check, the match compare-and-set on FromStatus, and any standings rows to overwrite.
type MatchTransition struct {
	TournamentID    string
	ExpectedVersion int64
	FromStatus      models.MatchStatus
	Match           models.Match
	Standings       []models.StandingsRow
}

type TournamentRepository interface {
	// Create stores the tournament with its matches and standings atomically.
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	GetByMatchID(ctx context.Context, matchID string) (*models.Tournament, error)
	// List returns tournament headers only (no matches or standings).
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	// SaveMatchTransition returns the new version, or ErrVersionConflict if the tournament
	// or the match changed since it was read.
	SaveMatchTransition(ctx context.Context, tr MatchTransition) (int64, error)
	UpdateStatus(ctx context.Context, id string, expectedVersion int64, status models.TournamentStatus) (int64, error)
	GetTournamentsForAutoStatusUpdate(ctx context.Context, now time.Time) ([]models.Tournament, error)
}

type sqlTournamentRepository struct {
	db        *sql.DB
	dialect   Dialect
	matches   sqlMatchTable
	standings sqlStandingTable
	logger    *slog.Logger
}

func NewSQLTournamentRepository(db *sql.DB, dialect Dialect, logger *slog.Logger) TournamentRepository {
	return &sqlTournamentRepository{
		db:        db,
		dialect:   dialect,
		matches:   sqlMatchTable{dialect: dialect},
		standings: sqlStandingTable{dialect: dialect},
		logger:    logger,
	}
}

const tournamentColumns = `id, name, owner_team_id, created_by, start_date, end_date, status, version, created_at`

func (r *sqlTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	return withTx(ctx, r.db, r.logger, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.dialect.rebind(`
			INSERT INTO tournaments (`+tournamentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`),
			t.ID, t.Name, t.OwnerTeamID, t.CreatedBy, t.StartDate, t.EndDate, string(t.Status), t.Version, t.CreatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrTournamentConflict, t.ID)
			}
			return fmt.Errorf("failed to insert tournament: %w", err)
		}
		if err := r.matches.batchCreate(ctx, tx, t.Matches); err != nil {
			return err
		}
		return r.standings.batchCreate(ctx, tx, t.ID, t.Standings)
	})
}

// GetByID reads the header, then matches and standings, inside one snapshot. The returned
// version never predates the rows, so a transition computed from them fails the version
// check if anything committed in between.
func (r *sqlTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	var t *models.Tournament
	err := withTxOptions(ctx, r.db, r.dialect.snapshotTxOptions(), r.logger, func(tx *sql.Tx) error {
		var err error
		t, err = r.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *sqlTournamentRepository) GetByMatchID(ctx context.Context, matchID string) (*models.Tournament, error) {
	var t *models.Tournament
	err := withTxOptions(ctx, r.db, r.dialect.snapshotTxOptions(), r.logger, func(tx *sql.Tx) error {
		tournamentID, err := r.matches.tournamentIDOf(ctx, tx, matchID)
		if err != nil {
			return err
		}
		t, err = r.load(ctx, tx, tournamentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// load must read the header first.
func (r *sqlTournamentRepository) load(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	t, err := r.getHeader(ctx, exec, id)
	if err != nil {
		return nil, err
	}
	if t.Matches, err = r.matches.listByTournament(ctx, exec, id); err != nil {
		return nil, err
	}
	if t.Standings, err = r.standings.listByTournament(ctx, exec, id); err != nil {
		return nil, err
	}
	t.ParticipantIDs = make([]string, len(t.Standings))
	for i, s := range t.Standings {
		t.ParticipantIDs[i] = s.PlayerID
	}
	return t, nil
}

func (r *sqlTournamentRepository) getHeader(ctx context.Context, exec SQLExecutor, id string) (*models.Tournament, error) {
	row := exec.QueryRowContext(ctx, r.dialect.rebind(`SELECT `+tournamentColumns+` FROM tournaments WHERE id = $1`), id)
	t, err := scanTournament(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tournament %s: %w", id, err)
	}
	return t, nil
}

func (r *sqlTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments WHERE owner_team_id = $1`)
	args := []interface{}{filter.OwnerTeamID}
	argID := 2

	if filter.Status != nil {
		queryBuilder.WriteString(" AND status = $" + strconv.Itoa(argID))
		args = append(args, string(*filter.Status))
		argID++
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC, id ASC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT $" + strconv.Itoa(argID))
		args = append(args, filter.Limit)
	}

	return r.queryTournaments(ctx, queryBuilder.String(), args...)
}

func (r *sqlTournamentRepository) GetTournamentsForAutoStatusUpdate(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	return r.queryTournaments(ctx, `
		SELECT `+tournamentColumns+`
		FROM tournaments
		WHERE (status = 'scheduled' AND start_date <= $1)
		   OR (status = 'active' AND end_date < $2)
		ORDER BY start_date ASC`, now, now)
}

func (r *sqlTournamentRepository) queryTournaments(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		t, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}

func (r *sqlTournamentRepository) SaveMatchTransition(ctx context.Context, tr MatchTransition) (int64, error) {
	err := withTx(ctx, r.db, r.logger, func(tx *sql.Tx) error {
		if err := r.bumpVersion(ctx, tx, tr.TournamentID, tr.ExpectedVersion); err != nil {
			return err
		}
		if err := r.matches.updateIfStatus(ctx, tx, tr.Match, tr.FromStatus); err != nil {
			return err
		}
		for _, s := range tr.Standings {
			if err := r.standings.update(ctx, tx, tr.TournamentID, s); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return tr.ExpectedVersion + 1, nil
}

func (r *sqlTournamentRepository) UpdateStatus(ctx context.Context, id string, expectedVersion int64, status models.TournamentStatus) (int64, error) {
	err := withTx(ctx, r.db, r.logger, func(tx *sql.Tx) error {
		if err := r.bumpVersion(ctx, tx, id, expectedVersion); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, r.dialect.rebind(`UPDATE tournaments SET status = $1 WHERE id = $2`), string(status), id)
		return err
	})
	if err != nil {
		return 0, err
	}
	return expectedVersion + 1, nil
}

// bumpVersion is the optimistic lock: it only succeeds while the stored version is unchanged.
// Readers take the version together with the rows it covers, see GetByID.
func (r *sqlTournamentRepository) bumpVersion(ctx context.Context, tx *sql.Tx, id string, expected int64) error {
	result, err := tx.ExecContext(ctx, r.dialect.rebind(`
		UPDATE tournaments SET version = version + 1
		WHERE id = $1 AND version = $2`), id, expected)
	if err != nil {
		return fmt.Errorf("failed to bump version of tournament %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	err = tx.QueryRowContext(ctx, r.dialect.rebind(`SELECT 1 FROM tournaments WHERE id = $1`), id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTournamentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check tournament %s: %w", id, err)
	}
	return ErrVersionConflict
}

func scanTournament(rowScanner interface{ Scan(...interface{}) error }) (*models.Tournament, error) {
	var (
		t      models.Tournament
		status string
	)
	err := rowScanner.Scan(
		&t.ID, &t.Name, &t.OwnerTeamID, &t.CreatedBy, &t.StartDate, &t.EndDate, &status, &t.Version, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = models.TournamentStatus(status)
	return &t, nil
}
