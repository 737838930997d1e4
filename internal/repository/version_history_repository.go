package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type versionHistoryRepository struct {
	db DBTX
}

const historyColumns = `id, workspace_id, entity_type, entity_id, change_type,
	changed_by_person_id, changed_at, change_description, before_snapshot, after_snapshot`

// Create appends an audit record. Entries are never updated or deleted.
func (r *versionHistoryRepository) Create(ctx context.Context, entry domain.VersionHistoryEntry) (domain.VersionHistoryEntry, error) {
	beforeJSON, err := json.Marshal(entry.Before)
	if err != nil {
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to marshal before snapshot: %w", err)
	}
	afterJSON, err := json.Marshal(entry.After)
	if err != nil {
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to marshal after snapshot: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO org_version_history (workspace_id, entity_type, entity_id, change_type,
			changed_by_person_id, changed_at, change_description, before_snapshot, after_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+historyColumns,
		entry.WorkspaceID, entry.EntityType, entry.EntityID, entry.ChangeType,
		entry.ChangedBy, entry.ChangedAt, entry.ChangeDescription, beforeJSON, afterJSON,
	)
	created, err := scanHistoryEntry(row)
	if err != nil {
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to create version history entry: %w", err)
	}
	return created, nil
}

// GetByID retrieves an audit record by ID.
func (r *versionHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.VersionHistoryEntry, error) {
	row := r.db.QueryRow(ctx, `SELECT `+historyColumns+` FROM org_version_history WHERE id = $1`, id)
	entry, err := scanHistoryEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.VersionHistoryEntry{}, ErrNotFound
		}
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to get version history entry: %w", err)
	}
	return entry, nil
}

// ListByWorkspace returns a workspace's audit records, newest first.
func (r *versionHistoryRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.VersionHistoryEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+historyColumns+` FROM org_version_history WHERE workspace_id = $1 ORDER BY changed_at DESC, id`, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list version history: %w", err)
	}
	defer rows.Close()

	var entries []domain.VersionHistoryEntry
	for rows.Next() {
		entry, err := scanHistoryEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan version history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanHistoryEntry(row pgx.Row) (domain.VersionHistoryEntry, error) {
	var entry domain.VersionHistoryEntry
	var beforeJSON, afterJSON []byte
	err := row.Scan(
		&entry.ID,
		&entry.WorkspaceID,
		&entry.EntityType,
		&entry.EntityID,
		&entry.ChangeType,
		&entry.ChangedBy,
		&entry.ChangedAt,
		&entry.ChangeDescription,
		&beforeJSON,
		&afterJSON,
	)
	if err != nil {
		return domain.VersionHistoryEntry{}, err
	}
	if err := json.Unmarshal(beforeJSON, &entry.Before); err != nil {
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to decode before snapshot: %w", err)
	}
	if err := json.Unmarshal(afterJSON, &entry.After); err != nil {
		return domain.VersionHistoryEntry{}, fmt.Errorf("failed to decode after snapshot: %w", err)
	}
	return entry, nil
}
