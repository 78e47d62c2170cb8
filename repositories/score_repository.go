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
	ErrScoreNotFound     = errors.New("score not found")
	ErrScoreMatchInvalid = errors.New("score match conflict or invalid")
	ErrScoreTeamInvalid  = errors.New("score team conflict or invalid")
)

type ScoreRepository interface {
	// Upsert inserts or overwrites the single score row for (match, team).
	Upsert(ctx context.Context, exec SQLExecutor, score *models.Score) error
	GetByMatchAndTeam(ctx context.Context, matchID, teamID int) (*models.Score, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.Score, error)
	ListByDay(ctx context.Context, dayID int) ([]*models.Score, error)
	ListAll(ctx context.Context) ([]*models.Score, error)
	Delete(ctx context.Context, exec SQLExecutor, matchID, teamID int) error
}

type postgresScoreRepository struct {
	db *sql.DB
}

func NewPostgresScoreRepository(db *sql.DB) ScoreRepository {
	return &postgresScoreRepository{db: db}
}

func (r *postgresScoreRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresScoreRepository) Upsert(ctx context.Context, exec SQLExecutor, score *models.Score) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO scores (match_id, team_id, kills, placement, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (match_id, team_id)
		DO UPDATE SET kills = EXCLUDED.kills, placement = EXCLUDED.placement, updated_at = NOW()
		RETURNING id, updated_at`
	err := executor.QueryRowContext(ctx, query,
		score.MatchID, score.TeamID, score.Kills, score.Placement,
	).Scan(&score.ID, &score.UpdatedAt)
	return r.handleScoreError(err)
}

func (r *postgresScoreRepository) scanScore(rowScanner interface{ Scan(...interface{}) error }) (*models.Score, error) {
	var s models.Score
	err := rowScanner.Scan(&s.ID, &s.MatchID, &s.TeamID, &s.Kills, &s.Placement, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoreNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *postgresScoreRepository) GetByMatchAndTeam(ctx context.Context, matchID, teamID int) (*models.Score, error) {
	query := `
		SELECT id, match_id, team_id, kills, placement, updated_at
		FROM scores
		WHERE match_id = $1 AND team_id = $2`
	return r.scanScore(r.db.QueryRowContext(ctx, query, matchID, teamID))
}

func (r *postgresScoreRepository) listScores(ctx context.Context, query string, args ...interface{}) ([]*models.Score, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	scores := make([]*models.Score, 0)
	for rows.Next() {
		s, scanErr := r.scanScore(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", scanErr)
		}
		scores = append(scores, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during score rows iteration: %w", err)
	}
	return scores, nil
}

func (r *postgresScoreRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.Score, error) {
	query := `
		SELECT id, match_id, team_id, kills, placement, updated_at
		FROM scores
		WHERE match_id = $1
		ORDER BY id ASC`
	return r.listScores(ctx, query, matchID)
}

func (r *postgresScoreRepository) ListByDay(ctx context.Context, dayID int) ([]*models.Score, error) {
	query := `
		SELECT s.id, s.match_id, s.team_id, s.kills, s.placement, s.updated_at
		FROM scores s
		JOIN matches m ON s.match_id = m.id
		WHERE m.day_id = $1
		ORDER BY s.id ASC`
	return r.listScores(ctx, query, dayID)
}

func (r *postgresScoreRepository) ListAll(ctx context.Context) ([]*models.Score, error) {
	query := `
		SELECT id, match_id, team_id, kills, placement, updated_at
		FROM scores
		ORDER BY id ASC`
	return r.listScores(ctx, query)
}

func (r *postgresScoreRepository) Delete(ctx context.Context, exec SQLExecutor, matchID, teamID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM scores WHERE match_id = $1 AND team_id = $2`
	result, err := executor.ExecContext(ctx, query, matchID, teamID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrScoreNotFound)
}

func (r *postgresScoreRepository) handleScoreError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "scores_match_id_fkey":
			return ErrScoreMatchInvalid
		case "scores_team_id_fkey":
			return ErrScoreTeamInvalid
		}
	}
	return err
}
