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
	ErrDayNotFound         = errors.New("day not found")
	ErrDaySequenceConflict = errors.New("day sequence number is already in use")
)

type DayRepository interface {
	Create(ctx context.Context, exec SQLExecutor, day *models.Day) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Day, error)
	List(ctx context.Context) ([]*models.Day, error)
	// UpdateLifecycle persists a status transition together with the
	// timestamps it stamped or cleared, as one write.
	UpdateLifecycle(ctx context.Context, exec SQLExecutor, day *models.Day) error
	Delete(ctx context.Context, id int) error
}

type postgresDayRepository struct {
	db *sql.DB
}

func NewPostgresDayRepository(db *sql.DB) DayRepository {
	return &postgresDayRepository{db: db}
}

func (r *postgresDayRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDayRepository) Create(ctx context.Context, exec SQLExecutor, day *models.Day) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO days (sequence, name, status, qualify_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		day.Sequence, day.Name, day.Status, day.QualifyCount,
	).Scan(&day.ID, &day.CreatedAt)
	return r.handleDayError(err)
}

func (r *postgresDayRepository) scanDay(rowScanner interface{ Scan(...interface{}) error }) (*models.Day, error) {
	var d models.Day
	err := rowScanner.Scan(
		&d.ID, &d.Sequence, &d.Name, &d.Status, &d.QualifyCount,
		&d.StartTime, &d.EndTime, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDayNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *postgresDayRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Day, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, sequence, name, status, qualify_count, start_time, end_time, created_at
		FROM days
		WHERE id = $1`
	return r.scanDay(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresDayRepository) List(ctx context.Context) ([]*models.Day, error) {
	query := `
		SELECT id, sequence, name, status, qualify_count, start_time, end_time, created_at
		FROM days
		ORDER BY sequence ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	days := make([]*models.Day, 0)
	for rows.Next() {
		d, scanErr := r.scanDay(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan day row: %w", scanErr)
		}
		days = append(days, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during day rows iteration: %w", err)
	}
	return days, nil
}

func (r *postgresDayRepository) UpdateLifecycle(ctx context.Context, exec SQLExecutor, day *models.Day) error {
	executor := r.getExecutor(exec)
	query := `UPDATE days SET status = $1, start_time = $2, end_time = $3 WHERE id = $4`
	result, err := executor.ExecContext(ctx, query, day.Status, day.StartTime, day.EndTime, day.ID)
	if err != nil {
		return fmt.Errorf("failed to update lifecycle for day %d: %w", day.ID, err)
	}
	return checkAffectedRows(result, ErrDayNotFound)
}

func (r *postgresDayRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM days WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDayNotFound)
}

func (r *postgresDayRepository) handleDayError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "days_sequence_key":
			return ErrDaySequenceConflict
		}
	}
	return err
}
