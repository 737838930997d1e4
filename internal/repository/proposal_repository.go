package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type proposalRepository struct {
	db DBTX
}

const proposalColumns = `id, workspace_id, entity_type, entity_id, circle_id, title, description,
	status, created_by_person_id, meeting_id, agenda_item_id, submitted_at,
	processed_at, processed_by, version_history_entry_id, created_at, updated_at`

// Create inserts a proposal.
func (r *proposalRepository) Create(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO circle_proposals (workspace_id, entity_type, entity_id, circle_id, title,
			description, status, created_by_person_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+proposalColumns,
		proposal.WorkspaceID, proposal.EntityType, proposal.EntityID, proposal.CircleID,
		proposal.Title, proposal.Description, proposal.Status, proposal.CreatedBy,
		proposal.CreatedAt, proposal.UpdatedAt,
	)
	created, err := scanProposal(row)
	if err != nil {
		return domain.Proposal{}, fmt.Errorf("failed to create proposal: %w", err)
	}
	return created, nil
}

// GetByID retrieves a proposal by ID.
func (r *proposalRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Proposal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE id = $1`, id)
	proposal, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Proposal{}, ErrNotFound
		}
		return domain.Proposal{}, fmt.Errorf("failed to get proposal: %w", err)
	}
	return proposal, nil
}

// GetByAgendaItem resolves a proposal via its agenda-item back-reference.
func (r *proposalRepository) GetByAgendaItem(ctx context.Context, agendaItemID uuid.UUID) (domain.Proposal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE agenda_item_id = $1`, agendaItemID)
	proposal, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Proposal{}, ErrNotFound
		}
		return domain.Proposal{}, fmt.Errorf("failed to get proposal by agenda item: %w", err)
	}
	return proposal, nil
}

// Update writes the mutable fields of a proposal.
func (r *proposalRepository) Update(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE circle_proposals
		SET title = $2, description = $3, status = $4, meeting_id = $5, agenda_item_id = $6,
			submitted_at = $7, processed_at = $8, processed_by = $9,
			version_history_entry_id = $10, updated_at = $11
		WHERE id = $1
		RETURNING `+proposalColumns,
		proposal.ID, proposal.Title, proposal.Description, proposal.Status, proposal.MeetingID,
		proposal.AgendaItemID, proposal.SubmittedAt, proposal.ProcessedAt, proposal.ProcessedBy,
		proposal.VersionHistoryEntryID, proposal.UpdatedAt,
	)
	updated, err := scanProposal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Proposal{}, ErrNotFound
		}
		return domain.Proposal{}, fmt.Errorf("failed to update proposal: %w", err)
	}
	return updated, nil
}

// ListByWorkspace returns all proposals in a workspace, newest first.
func (r *proposalRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE workspace_id = $1 ORDER BY created_at DESC, id`, workspaceID)
}

// ListByWorkspaceAndStatus returns workspace proposals in one status, newest first.
func (r *proposalRepository) ListByWorkspaceAndStatus(ctx context.Context, workspaceID uuid.UUID, status domain.ProposalStatus) ([]domain.Proposal, error) {
	return r.list(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE workspace_id = $1 AND status = $2 ORDER BY created_at DESC, id`, workspaceID, status)
}

// ListByCircle returns all proposals targeting a circle, newest first.
func (r *proposalRepository) ListByCircle(ctx context.Context, circleID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE circle_id = $1 ORDER BY created_at DESC, id`, circleID)
}

// ListByCreator returns all proposals created by a person, newest first.
func (r *proposalRepository) ListByCreator(ctx context.Context, personID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(ctx, `SELECT `+proposalColumns+` FROM circle_proposals WHERE created_by_person_id = $1 ORDER BY created_at DESC, id`, personID)
}

func (r *proposalRepository) list(ctx context.Context, sql string, args ...any) ([]domain.Proposal, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []domain.Proposal
	for rows.Next() {
		proposal, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan proposal: %w", err)
		}
		proposals = append(proposals, proposal)
	}
	return proposals, rows.Err()
}

// AddEvolution appends a field-level change to a proposal.
func (r *proposalRepository) AddEvolution(ctx context.Context, evolution domain.Evolution) (domain.Evolution, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO proposal_evolutions (proposal_id, field_path, field_label, before_value,
			after_value, change_type, evolution_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, proposal_id, field_path, field_label, before_value, after_value, change_type, evolution_order, created_at`,
		evolution.ProposalID, evolution.FieldPath, evolution.FieldLabel, evolution.BeforeValue,
		evolution.AfterValue, evolution.ChangeType, evolution.Order, evolution.CreatedAt,
	)
	created, err := scanEvolution(row)
	if err != nil {
		return domain.Evolution{}, fmt.Errorf("failed to add evolution: %w", err)
	}
	return created, nil
}

// GetEvolution retrieves an evolution by ID.
func (r *proposalRepository) GetEvolution(ctx context.Context, id uuid.UUID) (domain.Evolution, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, proposal_id, field_path, field_label, before_value, after_value, change_type, evolution_order, created_at
		FROM proposal_evolutions WHERE id = $1`, id)
	evolution, err := scanEvolution(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Evolution{}, ErrNotFound
		}
		return domain.Evolution{}, fmt.Errorf("failed to get evolution: %w", err)
	}
	return evolution, nil
}

// DeleteEvolution removes an evolution row.
func (r *proposalRepository) DeleteEvolution(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM proposal_evolutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evolution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvolutions returns a proposal's evolutions sorted by order ascending.
func (r *proposalRepository) ListEvolutions(ctx context.Context, proposalID uuid.UUID) ([]domain.Evolution, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, proposal_id, field_path, field_label, before_value, after_value, change_type, evolution_order, created_at
		FROM proposal_evolutions
		WHERE proposal_id = $1
		ORDER BY evolution_order`,
		proposalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list evolutions: %w", err)
	}
	defer rows.Close()

	var evolutions []domain.Evolution
	for rows.Next() {
		evolution, err := scanEvolution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evolution: %w", err)
		}
		evolutions = append(evolutions, evolution)
	}
	return evolutions, rows.Err()
}

// CountEvolutions returns the number of evolutions on a proposal.
func (r *proposalRepository) CountEvolutions(ctx context.Context, proposalID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM proposal_evolutions WHERE proposal_id = $1`, proposalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count evolutions: %w", err)
	}
	return count, nil
}

// ListObjections returns the objections raised against a proposal.
func (r *proposalRepository) ListObjections(ctx context.Context, proposalID uuid.UUID) ([]domain.Objection, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, proposal_id, raised_by_person_id, summary, status, created_at
		FROM proposal_objections
		WHERE proposal_id = $1
		ORDER BY created_at`,
		proposalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list objections: %w", err)
	}
	defer rows.Close()

	var objections []domain.Objection
	for rows.Next() {
		var objection domain.Objection
		if err := rows.Scan(&objection.ID, &objection.ProposalID, &objection.RaisedBy, &objection.Summary, &objection.Status, &objection.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan objection: %w", err)
		}
		objections = append(objections, objection)
	}
	return objections, rows.Err()
}

// ListAttachments returns the attachments linked to a proposal.
func (r *proposalRepository) ListAttachments(ctx context.Context, proposalID uuid.UUID) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, proposal_id, file_name, url, added_by_person_id, created_at
		FROM proposal_attachments
		WHERE proposal_id = $1
		ORDER BY created_at`,
		proposalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(&attachment.ID, &attachment.ProposalID, &attachment.FileName, &attachment.URL, &attachment.AddedBy, &attachment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}

func scanProposal(row pgx.Row) (domain.Proposal, error) {
	var proposal domain.Proposal
	err := row.Scan(
		&proposal.ID,
		&proposal.WorkspaceID,
		&proposal.EntityType,
		&proposal.EntityID,
		&proposal.CircleID,
		&proposal.Title,
		&proposal.Description,
		&proposal.Status,
		&proposal.CreatedBy,
		&proposal.MeetingID,
		&proposal.AgendaItemID,
		&proposal.SubmittedAt,
		&proposal.ProcessedAt,
		&proposal.ProcessedBy,
		&proposal.VersionHistoryEntryID,
		&proposal.CreatedAt,
		&proposal.UpdatedAt,
	)
	return proposal, err
}

func scanEvolution(row pgx.Row) (domain.Evolution, error) {
	var evolution domain.Evolution
	err := row.Scan(
		&evolution.ID,
		&evolution.ProposalID,
		&evolution.FieldPath,
		&evolution.FieldLabel,
		&evolution.BeforeValue,
		&evolution.AfterValue,
		&evolution.ChangeType,
		&evolution.Order,
		&evolution.CreatedAt,
	)
	return evolution, err
}
