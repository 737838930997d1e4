package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type roleRepository struct {
	db DBTX
}

const roleColumns = `id, workspace_id, circle_id, name, purpose, template_id, status,
	is_hiring, archived_at, created_at, updated_at, updated_by`

// Create inserts a role.
func (r *roleRepository) Create(ctx context.Context, role domain.Role) (domain.Role, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO circle_roles (workspace_id, circle_id, name, purpose, template_id, status, is_hiring, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+roleColumns,
		role.WorkspaceID, role.CircleID, role.Name, role.Purpose, role.TemplateID,
		role.Status, role.IsHiring, role.ArchivedAt,
	)
	created, err := scanRole(row)
	if err != nil {
		return domain.Role{}, fmt.Errorf("failed to create role: %w", err)
	}
	return created, nil
}

// GetByID retrieves a role by ID.
func (r *roleRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Role, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM circle_roles WHERE id = $1`, id)
	role, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Role{}, ErrNotFound
		}
		return domain.Role{}, fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// Update writes the mutable fields of a role.
func (r *roleRepository) Update(ctx context.Context, role domain.Role) (domain.Role, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE circle_roles
		SET name = $2, purpose = $3, template_id = $4, status = $5, is_hiring = $6,
			archived_at = $7, updated_at = $8, updated_by = $9
		WHERE id = $1
		RETURNING `+roleColumns,
		role.ID, role.Name, role.Purpose, role.TemplateID, role.Status, role.IsHiring,
		role.ArchivedAt, role.UpdatedAt, role.UpdatedBy,
	)
	updated, err := scanRole(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Role{}, ErrNotFound
		}
		return domain.Role{}, fmt.Errorf("failed to update role: %w", err)
	}
	return updated, nil
}

func scanRole(row pgx.Row) (domain.Role, error) {
	var role domain.Role
	err := row.Scan(
		&role.ID,
		&role.WorkspaceID,
		&role.CircleID,
		&role.Name,
		&role.Purpose,
		&role.TemplateID,
		&role.Status,
		&role.IsHiring,
		&role.ArchivedAt,
		&role.CreatedAt,
		&role.UpdatedAt,
		&role.UpdatedBy,
	)
	return role, err
}
