package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"circlegov/internal/domain"
)

type meetingRepository struct {
	db DBTX
}

const meetingColumns = "id, workspace_id, circle_id, title, recorder_person_id, scheduled_at, created_at, updated_at"

// Create inserts a meeting.
func (r *meetingRepository) Create(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO meetings (workspace_id, circle_id, title, recorder_person_id, scheduled_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+meetingColumns,
		meeting.WorkspaceID, meeting.CircleID, meeting.Title, meeting.RecorderID, meeting.ScheduledAt,
	)
	created, err := scanMeeting(row)
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("failed to create meeting: %w", err)
	}
	return created, nil
}

// GetByID retrieves a meeting by ID.
func (r *meetingRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Meeting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	meeting, err := scanMeeting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Meeting{}, ErrNotFound
		}
		return domain.Meeting{}, fmt.Errorf("failed to get meeting: %w", err)
	}
	return meeting, nil
}

// ListAgendaItems returns a meeting's agenda sorted by order.
func (r *meetingRepository) ListAgendaItems(ctx context.Context, meetingID uuid.UUID) ([]domain.AgendaItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, meeting_id, title, item_order, status, created_by_person_id, created_at
		FROM meeting_agenda_items
		WHERE meeting_id = $1
		ORDER BY item_order`,
		meetingID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list agenda items: %w", err)
	}
	defer rows.Close()

	var items []domain.AgendaItem
	for rows.Next() {
		var item domain.AgendaItem
		if err := rows.Scan(&item.ID, &item.MeetingID, &item.Title, &item.Order, &item.Status, &item.CreatedBy, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan agenda item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateAgendaItem appends an item to a meeting's agenda.
func (r *meetingRepository) CreateAgendaItem(ctx context.Context, item domain.AgendaItem) (domain.AgendaItem, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO meeting_agenda_items (meeting_id, title, item_order, status, created_by_person_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, meeting_id, title, item_order, status, created_by_person_id, created_at`,
		item.MeetingID, item.Title, item.Order, item.Status, item.CreatedBy, item.CreatedAt,
	)
	var created domain.AgendaItem
	err := row.Scan(&created.ID, &created.MeetingID, &created.Title, &created.Order, &created.Status, &created.CreatedBy, &created.CreatedAt)
	if err != nil {
		return domain.AgendaItem{}, fmt.Errorf("failed to create agenda item: %w", err)
	}
	return created, nil
}

func scanMeeting(row pgx.Row) (domain.Meeting, error) {
	var meeting domain.Meeting
	err := row.Scan(
		&meeting.ID,
		&meeting.WorkspaceID,
		&meeting.CircleID,
		&meeting.Title,
		&meeting.RecorderID,
		&meeting.ScheduledAt,
		&meeting.CreatedAt,
		&meeting.UpdatedAt,
	)
	return meeting, err
}
