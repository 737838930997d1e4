package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type circleRepository struct {
	db DBTX
}

const circleColumns = `id, workspace_id, name, slug, purpose, parent_circle_id, status,
	circle_type, decision_model, represents_to_parent, archived_at, created_at, updated_at, updated_by`

// Create inserts a circle.
func (r *circleRepository) Create(ctx context.Context, circle domain.Circle) (domain.Circle, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO circles (workspace_id, name, slug, purpose, parent_circle_id, status,
			circle_type, decision_model, represents_to_parent, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+circleColumns,
		circle.WorkspaceID, circle.Name, circle.Slug, circle.Purpose, circle.ParentCircleID,
		circle.Status, circle.CircleType, circle.DecisionModel, circle.RepresentsToParent, circle.ArchivedAt,
	)
	created, err := scanCircle(row)
	if err != nil {
		return domain.Circle{}, fmt.Errorf("failed to create circle: %w", err)
	}
	return created, nil
}

// GetByID retrieves a circle by ID.
func (r *circleRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Circle, error) {
	row := r.db.QueryRow(ctx, `SELECT `+circleColumns+` FROM circles WHERE id = $1`, id)
	circle, err := scanCircle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Circle{}, ErrNotFound
		}
		return domain.Circle{}, fmt.Errorf("failed to get circle: %w", err)
	}
	return circle, nil
}

// Update writes the mutable fields of a circle.
func (r *circleRepository) Update(ctx context.Context, circle domain.Circle) (domain.Circle, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE circles
		SET name = $2, slug = $3, purpose = $4, parent_circle_id = $5, status = $6,
			circle_type = $7, decision_model = $8, represents_to_parent = $9,
			archived_at = $10, updated_at = $11, updated_by = $12
		WHERE id = $1
		RETURNING `+circleColumns,
		circle.ID, circle.Name, circle.Slug, circle.Purpose, circle.ParentCircleID,
		circle.Status, circle.CircleType, circle.DecisionModel, circle.RepresentsToParent,
		circle.ArchivedAt, circle.UpdatedAt, circle.UpdatedBy,
	)
	updated, err := scanCircle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Circle{}, ErrNotFound
		}
		return domain.Circle{}, fmt.Errorf("failed to update circle: %w", err)
	}
	return updated, nil
}

// ListSlugs returns every circle slug in a workspace.
func (r *circleRepository) ListSlugs(ctx context.Context, workspaceID uuid.UUID) (map[string]struct{}, error) {
	rows, err := r.db.Query(ctx, `SELECT slug FROM circles WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list circle slugs: %w", err)
	}
	defer rows.Close()

	slugs := make(map[string]struct{})
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("failed to scan circle slug: %w", err)
		}
		slugs[slug] = struct{}{}
	}
	return slugs, rows.Err()
}

func scanCircle(row pgx.Row) (domain.Circle, error) {
	var circle domain.Circle
	err := row.Scan(
		&circle.ID,
		&circle.WorkspaceID,
		&circle.Name,
		&circle.Slug,
		&circle.Purpose,
		&circle.ParentCircleID,
		&circle.Status,
		&circle.CircleType,
		&circle.DecisionModel,
		&circle.RepresentsToParent,
		&circle.ArchivedAt,
		&circle.CreatedAt,
		&circle.UpdatedAt,
		&circle.UpdatedBy,
	)
	return circle, err
}
