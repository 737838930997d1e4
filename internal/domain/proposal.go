package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType discriminates the target of a proposal.
type EntityType string

const (
	EntityTypeCircle EntityType = "circle"
	EntityTypeRole   EntityType = "role"
)

// ProposalStatus enumerates the lifecycle states of a proposal.
type ProposalStatus string

const (
	StatusDraft      ProposalStatus = "draft"
	StatusSubmitted  ProposalStatus = "submitted"
	StatusInMeeting  ProposalStatus = "in_meeting"
	StatusObjections ProposalStatus = "objections"
	StatusIntegrated ProposalStatus = "integrated"
	StatusApproved   ProposalStatus = "approved"
	StatusRejected   ProposalStatus = "rejected"
	StatusWithdrawn  ProposalStatus = "withdrawn"
)

// ProposalStatuses lists every valid status value.
var ProposalStatuses = []ProposalStatus{
	StatusDraft,
	StatusSubmitted,
	StatusInMeeting,
	StatusObjections,
	StatusIntegrated,
	StatusApproved,
	StatusRejected,
	StatusWithdrawn,
}

// TerminalStatuses are states no transition leaves.
var TerminalStatuses = []ProposalStatus{StatusApproved, StatusRejected, StatusWithdrawn}

// validTransitions encodes the forward edges of the lifecycle.
// objections and integrated are reserved for the objection/integration
// workflow; they have no producing transition here but remain
// approve/reject-eligible and withdrawable.
var validTransitions = map[ProposalStatus][]ProposalStatus{
	StatusDraft:      {StatusSubmitted, StatusWithdrawn},
	StatusSubmitted:  {StatusInMeeting, StatusWithdrawn},
	StatusInMeeting:  {StatusApproved, StatusRejected, StatusWithdrawn},
	StatusObjections: {StatusWithdrawn},
	StatusIntegrated: {StatusApproved, StatusRejected, StatusWithdrawn},
	StatusApproved:   {},
	StatusRejected:   {},
	StatusWithdrawn:  {},
}

// IsValidStatus reports whether value names a known status.
func IsValidStatus(value ProposalStatus) bool {
	_, ok := validTransitions[value]
	return ok
}

// IsTerminal reports whether status is a terminal state.
func IsTerminal(status ProposalStatus) bool {
	for _, terminal := range TerminalStatuses {
		if status == terminal {
			return true
		}
	}
	return false
}

// CanTransition reports whether the lifecycle permits current -> next.
func CanTransition(current, next ProposalStatus) bool {
	for _, allowed := range validTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Proposal is a request to change one target entity (circle or role)
// within a workspace.
type Proposal struct {
	ID                    uuid.UUID
	WorkspaceID           uuid.UUID
	EntityType            EntityType
	EntityID              uuid.UUID
	CircleID              *uuid.UUID
	Title                 string
	Description           string
	Status                ProposalStatus
	CreatedBy             uuid.UUID
	MeetingID             *uuid.UUID
	AgendaItemID          *uuid.UUID
	SubmittedAt           *time.Time
	ProcessedAt           *time.Time
	ProcessedBy           *uuid.UUID
	VersionHistoryEntryID *uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ChangeType classifies a single proposed field change.
type ChangeType string

const (
	ChangeTypeAdd    ChangeType = "add"
	ChangeTypeUpdate ChangeType = "update"
	ChangeTypeRemove ChangeType = "remove"
)

// Evolution is one atomic field-level change proposed against the
// target entity. Before/after values are stored as JSON-serialized
// strings. Evolutions are immutable once the proposal leaves draft.
type Evolution struct {
	ID          uuid.UUID
	ProposalID  uuid.UUID
	FieldPath   string
	FieldLabel  string
	BeforeValue *string
	AfterValue  *string
	ChangeType  ChangeType
	Order       int
	CreatedAt   time.Time
}

// NextEvolutionOrder returns one greater than the maximum existing
// order, or 0 when the proposal has no evolutions yet.
func NextEvolutionOrder(existing []Evolution) int {
	max := -1
	for _, evolution := range existing {
		if evolution.Order > max {
			max = evolution.Order
		}
	}
	return max + 1
}

// Objection records a standing concern raised against a proposal
// during deliberation. Read-only in this service.
type Objection struct {
	ID         uuid.UUID
	ProposalID uuid.UUID
	RaisedBy   uuid.UUID
	Summary    string
	Status     string
	CreatedAt  time.Time
}

// Attachment links supporting material to a proposal. Read-only in
// this service.
type Attachment struct {
	ID         uuid.UUID
	ProposalID uuid.UUID
	FileName   string
	URL        string
	AddedBy    uuid.UUID
	CreatedAt  time.Time
}
