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
	ErrGroupNotFound   = errors.New("group not found")
	ErrGroupDayInvalid = errors.New("group day conflict or invalid")
)

type GroupRepository interface {
	Create(ctx context.Context, exec SQLExecutor, group *models.Group) error
	ListByDay(ctx context.Context, dayID int) ([]*models.Group, error)
	Delete(ctx context.Context, id int) error
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGroupRepository) Create(ctx context.Context, exec SQLExecutor, group *models.Group) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO groups (day_id, name, team_ids)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		group.DayID, group.Name, pq.Array(group.TeamIDs),
	).Scan(&group.ID, &group.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "groups_day_id_fkey" {
			return ErrGroupDayInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGroupRepository) ListByDay(ctx context.Context, dayID int) ([]*models.Group, error) {
	query := `
		SELECT id, day_id, name, team_ids, created_at
		FROM groups
		WHERE day_id = $1
		ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, dayID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups for day %d: %w", dayID, err)
	}
	defer rows.Close()

	groups := make([]*models.Group, 0)
	for rows.Next() {
		var g models.Group
		var teamIDs pq.Int64Array
		if scanErr := rows.Scan(&g.ID, &g.DayID, &g.Name, &teamIDs, &g.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", scanErr)
		}
		g.TeamIDs = make([]int, len(teamIDs))
		for i, id := range teamIDs {
			g.TeamIDs[i] = int(id)
		}
		groups = append(groups, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during group rows iteration: %w", err)
	}
	return groups, nil
}

func (r *postgresGroupRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM groups WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrGroupNotFound)
}
