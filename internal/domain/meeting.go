package domain

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is a governance meeting. CircleID is nil for ad-hoc
// meetings, which cannot host proposal imports.
type Meeting struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	CircleID    *uuid.UUID
	Title       string
	RecorderID  uuid.UUID
	ScheduledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AgendaItemStatus enumerates agenda item progress states.
type AgendaItemStatus string

const (
	AgendaStatusTodo AgendaItemStatus = "todo"
	AgendaStatusDone AgendaItemStatus = "done"
)

// AgendaItem is one entry on a meeting's agenda.
type AgendaItem struct {
	ID        uuid.UUID
	MeetingID uuid.UUID
	Title     string
	Order     int
	Status    AgendaItemStatus
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

// AgendaTitleForProposal builds the agenda item title used when a
// proposal is put up for deliberation.
func AgendaTitleForProposal(proposalTitle string) string {
	return "📋 Proposal: " + proposalTitle
}

// NextAgendaOrder returns one greater than the maximum existing
// order, or 1 when the meeting has no agenda items yet.
func NextAgendaOrder(items []AgendaItem) int {
	if len(items) == 0 {
		return 1
	}
	max := items[0].Order
	for _, item := range items[1:] {
		if item.Order > max {
			max = item.Order
		}
	}
	return max + 1
}
