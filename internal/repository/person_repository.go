package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type personRepository struct {
	db DBTX
}

const personColumns = "id, workspace_id, user_id, name, email, status, created_at, updated_at"

// Create inserts a workspace membership.
func (r *personRepository) Create(ctx context.Context, person domain.Person) (domain.Person, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO people (workspace_id, user_id, name, email, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+personColumns,
		person.WorkspaceID, person.UserID, person.Name, person.Email, person.Status,
	)
	created, err := scanPerson(row)
	if err != nil {
		return domain.Person{}, fmt.Errorf("failed to create person: %w", err)
	}
	return created, nil
}

// GetByID retrieves a person by ID.
func (r *personRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Person, error) {
	row := r.db.QueryRow(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`, id)
	person, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Person{}, ErrNotFound
		}
		return domain.Person{}, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// GetByUserAndWorkspace resolves the person a user acts as within a workspace.
func (r *personRepository) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (domain.Person, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+personColumns+`
		FROM people
		WHERE user_id = $1 AND workspace_id = $2`,
		userID, workspaceID,
	)
	person, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Person{}, ErrNotFound
		}
		return domain.Person{}, fmt.Errorf("failed to get person for user %s: %w", userID, err)
	}
	return person, nil
}

func scanPerson(row pgx.Row) (domain.Person, error) {
	var person domain.Person
	err := row.Scan(
		&person.ID,
		&person.WorkspaceID,
		&person.UserID,
		&person.Name,
		&person.Email,
		&person.Status,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	return person, err
}
