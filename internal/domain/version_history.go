package domain

import (
	"time"

	"github.com/google/uuid"
)

// VersionHistoryEntry is an append-only audit record capturing a
// structured before/after snapshot of an entity change. Created only
// when a proposal is approved; the proposal holds a forward reference
// to it.
type VersionHistoryEntry struct {
	ID                uuid.UUID
	WorkspaceID       uuid.UUID
	EntityType        EntityType
	EntityID          uuid.UUID
	ChangeType        string
	ChangedBy         uuid.UUID
	ChangedAt         time.Time
	ChangeDescription string
	Before            map[string]any
	After             map[string]any
}

// NewVersionHistoryEntry builds the audit record for an approved
// proposal from allow-listed before/after snapshots.
func NewVersionHistoryEntry(
	proposal Proposal,
	actor uuid.UUID,
	changedAt time.Time,
	before map[string]any,
	after map[string]any,
) VersionHistoryEntry {
	return VersionHistoryEntry{
		WorkspaceID:       proposal.WorkspaceID,
		EntityType:        proposal.EntityType,
		EntityID:          proposal.EntityID,
		ChangeType:        "update",
		ChangedBy:         actor,
		ChangedAt:         changedAt,
		ChangeDescription: "Approved via proposal: " + proposal.Title,
		Before:            before,
		After:             after,
	}
}
