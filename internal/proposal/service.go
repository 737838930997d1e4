// Package proposal implements the governance proposal lifecycle:
// draft authoring, meeting submission, and decision resolution for
// proposed changes to circles and roles.
package proposal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"circlegov/internal/domain"
	"circlegov/internal/events"
	"circlegov/internal/repository"
	"circlegov/internal/session"
)

// Service executes proposal operations. Every mutation runs inside a
// single store transaction; lifecycle events are published after the
// transaction commits.
type Service struct {
	store    repository.Store
	sessions session.Store
	events   events.Publisher
	log      zerolog.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets the lifecycle event publisher.
func WithPublisher(publisher events.Publisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithClock overrides the service clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a proposal service.
func NewService(store repository.Store, sessions session.Store, opts ...Option) *Service {
	service := &Service{
		store:    store,
		sessions: sessions,
		events:   events.NoopPublisher{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// personForWorkspace resolves the session token to the person acting
// in the given workspace, enforcing active membership.
func (s *Service) personForWorkspace(ctx context.Context, repos repository.Repos, token string, workspaceID uuid.UUID) (domain.Person, error) {
	userID, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return domain.Person{}, err
	}

	person, err := repos.People.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Person{}, domain.NewError(domain.CodeWorkspaceAccessDenied, "You do not have access to this workspace")
		}
		return domain.Person{}, err
	}
	if !person.IsActive() {
		return domain.Person{}, domain.NewError(domain.CodeWorkspaceAccessDenied, "You do not have access to this workspace")
	}
	return person, nil
}

// requireProposal loads a proposal or fails with PROPOSAL_NOT_FOUND.
func requireProposal(ctx context.Context, repos repository.Repos, proposalID uuid.UUID) (domain.Proposal, error) {
	proposal, err := repos.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Proposal{}, domain.NewError(domain.CodeProposalNotFound, "Proposal not found")
		}
		return domain.Proposal{}, err
	}
	return proposal, nil
}

// requireMeeting loads a meeting or fails with MEETING_NOT_FOUND.
func requireMeeting(ctx context.Context, repos repository.Repos, meetingID uuid.UUID, message string) (domain.Meeting, error) {
	meeting, err := repos.Meetings.GetByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Meeting{}, domain.NewError(domain.CodeMeetingNotFound, message)
		}
		return domain.Meeting{}, err
	}
	return meeting, nil
}

// loadTargetEntity fetches the proposal's target circle or role.
// Returns repository.ErrNotFound (wrapped) when the entity is gone.
func loadTargetEntity(ctx context.Context, repos repository.Repos, entityType domain.EntityType, entityID uuid.UUID) (domain.TargetEntity, error) {
	switch entityType {
	case domain.EntityTypeCircle:
		circle, err := repos.Circles.GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return &circle, nil
	case domain.EntityTypeRole:
		role, err := repos.Roles.GetByID(ctx, entityID)
		if err != nil {
			return nil, err
		}
		return &role, nil
	}
	return nil, domain.NewErrorf(domain.CodeGenericError, "unknown entity type %q", entityType)
}

// publish emits a lifecycle event, logging instead of failing when the
// broker is unreachable.
func (s *Service) publish(ctx context.Context, name string, proposal domain.Proposal, actor uuid.UUID) {
	event := events.ProposalEvent{
		Event:       name,
		ProposalID:  proposal.ID,
		WorkspaceID: proposal.WorkspaceID,
		Status:      string(proposal.Status),
		ActorID:     actor,
		OccurredAt:  s.now(),
		MeetingID:   proposal.MeetingID,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", name).Stringer("proposal_id", proposal.ID).Msg("failed to publish proposal event")
	}
}
