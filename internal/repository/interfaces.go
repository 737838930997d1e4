package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"circlegov/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
// Services translate it into the coded not-found error for the
// aggregate being looked up.
var ErrNotFound = errors.New("not found")

// PersonRepository defines the interface for workspace membership lookups.
type PersonRepository interface {
	Create(ctx context.Context, person domain.Person) (domain.Person, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Person, error)
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) (domain.Person, error)
}

// CircleRepository defines the interface for circle operations.
type CircleRepository interface {
	Create(ctx context.Context, circle domain.Circle) (domain.Circle, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Circle, error)
	Update(ctx context.Context, circle domain.Circle) (domain.Circle, error)
	// ListSlugs returns every circle slug in a workspace, used to
	// regenerate a workspace-unique slug on approval.
	ListSlugs(ctx context.Context, workspaceID uuid.UUID) (map[string]struct{}, error)
}

// RoleRepository defines the interface for role operations.
type RoleRepository interface {
	Create(ctx context.Context, role domain.Role) (domain.Role, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Role, error)
	Update(ctx context.Context, role domain.Role) (domain.Role, error)
}

// MeetingRepository defines the interface for meetings and their agendas.
type MeetingRepository interface {
	Create(ctx context.Context, meeting domain.Meeting) (domain.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Meeting, error)
	ListAgendaItems(ctx context.Context, meetingID uuid.UUID) ([]domain.AgendaItem, error)
	CreateAgendaItem(ctx context.Context, item domain.AgendaItem) (domain.AgendaItem, error)
}

// ProposalRepository defines the interface for proposals and their
// evolutions, objections and attachments.
type ProposalRepository interface {
	Create(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Proposal, error)
	GetByAgendaItem(ctx context.Context, agendaItemID uuid.UUID) (domain.Proposal, error)
	Update(ctx context.Context, proposal domain.Proposal) (domain.Proposal, error)

	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.Proposal, error)
	ListByWorkspaceAndStatus(ctx context.Context, workspaceID uuid.UUID, status domain.ProposalStatus) ([]domain.Proposal, error)
	ListByCircle(ctx context.Context, circleID uuid.UUID) ([]domain.Proposal, error)
	ListByCreator(ctx context.Context, personID uuid.UUID) ([]domain.Proposal, error)

	AddEvolution(ctx context.Context, evolution domain.Evolution) (domain.Evolution, error)
	GetEvolution(ctx context.Context, id uuid.UUID) (domain.Evolution, error)
	DeleteEvolution(ctx context.Context, id uuid.UUID) error
	// ListEvolutions returns a proposal's evolutions sorted by order ascending.
	ListEvolutions(ctx context.Context, proposalID uuid.UUID) ([]domain.Evolution, error)
	CountEvolutions(ctx context.Context, proposalID uuid.UUID) (int, error)

	ListObjections(ctx context.Context, proposalID uuid.UUID) ([]domain.Objection, error)
	ListAttachments(ctx context.Context, proposalID uuid.UUID) ([]domain.Attachment, error)
}

// VersionHistoryRepository stores append-only audit records.
type VersionHistoryRepository interface {
	Create(ctx context.Context, entry domain.VersionHistoryEntry) (domain.VersionHistoryEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.VersionHistoryEntry, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]domain.VersionHistoryEntry, error)
}

// Repos bundles every repository over one execution scope (pool or
// transaction).
type Repos struct {
	People    PersonRepository
	Circles   CircleRepository
	Roles     RoleRepository
	Meetings  MeetingRepository
	Proposals ProposalRepository
	History   VersionHistoryRepository
}

// Store hands out repositories and runs functions inside a single
// database transaction. Every mutation entry point runs through InTx
// so a failure partway aborts the whole call.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}
