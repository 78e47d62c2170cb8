package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ffarena/progression/models"
	"github.com/lib/pq"
)

var (
	ErrBracketMatchNotFound = errors.New("bracket match not found")
	ErrBracketDayInvalid    = errors.New("bracket match day conflict or invalid")
	ErrBracketUIDConflict   = errors.New("bracket match uid already exists for this day")
)

type BracketMatchRepository interface {
	// CreateAll persists a freshly built bracket; callers run it inside a
	// transaction so seeding is all-or-nothing.
	CreateAll(ctx context.Context, exec SQLExecutor, matches []*models.BracketMatch) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.BracketMatch, error)
	GetByDayAndUID(ctx context.Context, exec SQLExecutor, dayID int, uid string) (*models.BracketMatch, error)
	ListByDay(ctx context.Context, dayID int) ([]*models.BracketMatch, error)
	CountByDay(ctx context.Context, exec SQLExecutor, dayID int) (int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int, status models.MatchStatus) error
	SetTeamSlot(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) error
	DeleteByDay(ctx context.Context, exec SQLExecutor, dayID int) error
}

type postgresBracketMatchRepository struct {
	db *sql.DB
}

func NewPostgresBracketMatchRepository(db *sql.DB) BracketMatchRepository {
	return &postgresBracketMatchRepository{db: db}
}

func (r *postgresBracketMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBracketMatchRepository) CreateAll(ctx context.Context, exec SQLExecutor, matches []*models.BracketMatch) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bracket_matches
			(day_id, uid, round, slot, team1_id, team2_id, winner_id, status, next_match_uid, next_slot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`
	for _, m := range matches {
		err := executor.QueryRowContext(ctx, query,
			m.DayID, m.UID, m.Round, m.Slot, m.Team1ID, m.Team2ID,
			m.WinnerID, m.Status, m.NextMatchUID, m.NextSlot,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return r.handleBracketError(err)
		}
	}
	return nil
}

func (r *postgresBracketMatchRepository) scanBracketMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.BracketMatch, error) {
	var m models.BracketMatch
	err := rowScanner.Scan(
		&m.ID, &m.DayID, &m.UID, &m.Round, &m.Slot,
		&m.Team1ID, &m.Team2ID, &m.WinnerID, &m.Status,
		&m.NextMatchUID, &m.NextSlot, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketMatchNotFound
		}
		return nil, err
	}
	return &m, nil
}

const bracketMatchColumns = `id, day_id, uid, round, slot, team1_id, team2_id, winner_id, status, next_match_uid, next_slot, created_at`

func (r *postgresBracketMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + bracketMatchColumns + ` FROM bracket_matches WHERE id = $1`
	return r.scanBracketMatch(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresBracketMatchRepository) GetByDayAndUID(ctx context.Context, exec SQLExecutor, dayID int, uid string) (*models.BracketMatch, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + bracketMatchColumns + ` FROM bracket_matches WHERE day_id = $1 AND uid = $2`
	return r.scanBracketMatch(executor.QueryRowContext(ctx, query, dayID, uid))
}

func (r *postgresBracketMatchRepository) ListByDay(ctx context.Context, dayID int) ([]*models.BracketMatch, error) {
	query := `SELECT ` + bracketMatchColumns + `
		FROM bracket_matches
		WHERE day_id = $1
		ORDER BY round ASC, slot ASC`
	rows, err := r.db.QueryContext(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bracket matches for day %d: %w", dayID, err)
	}
	defer rows.Close()

	matches := make([]*models.BracketMatch, 0)
	for rows.Next() {
		m, scanErr := r.scanBracketMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan bracket match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bracket match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresBracketMatchRepository) CountByDay(ctx context.Context, exec SQLExecutor, dayID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx, `SELECT COUNT(*) FROM bracket_matches WHERE day_id = $1`, dayID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bracket matches for day %d: %w", dayID, err)
	}
	return count, nil
}

func (r *postgresBracketMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE bracket_matches SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for bracket match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}

func (r *postgresBracketMatchRepository) SetWinner(ctx context.Context, exec SQLExecutor, id int, winnerID int, status models.MatchStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE bracket_matches SET winner_id = $1, status = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, winnerID, status, id)
	if err != nil {
		return fmt.Errorf("failed to set winner for bracket match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}

func (r *postgresBracketMatchRepository) SetTeamSlot(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) error {
	executor := r.getExecutor(exec)
	var query string
	switch slot {
	case 1:
		query = `UPDATE bracket_matches SET team1_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE bracket_matches SET team2_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("invalid bracket slot %d", slot)
	}
	result, err := executor.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return fmt.Errorf("failed to set slot %d for bracket match %d: %w", slot, id, err)
	}
	return checkAffectedRows(result, ErrBracketMatchNotFound)
}

func (r *postgresBracketMatchRepository) DeleteByDay(ctx context.Context, exec SQLExecutor, dayID int) error {
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM bracket_matches WHERE day_id = $1`, dayID)
	return err
}

func (r *postgresBracketMatchRepository) handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "bracket_matches_day_id_fkey":
			return ErrBracketDayInvalid
		case "bracket_matches_day_id_uid_key":
			return ErrBracketUIDConflict
		}
	}
	return err
}
