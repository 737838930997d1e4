package proposal

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
)

const defaultListLimit = 50

// ListOptions filter a workspace proposal listing.
type ListOptions struct {
	Status    *domain.ProposalStatus
	CircleID  *uuid.UUID
	CreatorID *uuid.UUID
	Limit     int
}

// List returns a workspace's proposals, newest first. Circle and
// creator filters take precedence over the status index; a status
// filter still applies on top of them.
func (s *Service) List(ctx context.Context, token string, workspaceID uuid.UUID, opts ListOptions) ([]domain.Proposal, error) {
	repos := s.store.Repos()
	if _, err := s.personForWorkspace(ctx, repos, token, workspaceID); err != nil {
		return nil, err
	}

	var proposals []domain.Proposal
	var err error
	switch {
	case opts.CircleID != nil:
		proposals, err = repos.Proposals.ListByCircle(ctx, *opts.CircleID)
	case opts.CreatorID != nil:
		proposals, err = repos.Proposals.ListByCreator(ctx, *opts.CreatorID)
	case opts.Status != nil:
		proposals, err = repos.Proposals.ListByWorkspaceAndStatus(ctx, workspaceID, *opts.Status)
	default:
		proposals, err = repos.Proposals.ListByWorkspace(ctx, workspaceID)
	}
	if err != nil {
		return nil, err
	}

	filtered := proposals[:0:0]
	for _, proposal := range proposals {
		if proposal.WorkspaceID != workspaceID {
			continue
		}
		if opts.Status != nil && proposal.Status != *opts.Status {
			continue
		}
		filtered = append(filtered, proposal)
	}
	sortNewestFirst(filtered)

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// TargetRef identifies a proposal's target entity for display.
type TargetRef struct {
	Type domain.EntityType `json:"type"`
	Name string            `json:"name"`
}

// Details is a proposal expanded with its evolutions, objections,
// attachments, creator and target entity.
type Details struct {
	domain.Proposal
	Evolutions   []domain.Evolution  `json:"evolutions"`
	Objections   []domain.Objection  `json:"objections"`
	Attachments  []domain.Attachment `json:"attachments"`
	Creator      *domain.PersonRef   `json:"creator,omitempty"`
	TargetEntity *TargetRef          `json:"targetEntity,omitempty"`
}

// Get returns a proposal with its expansions, or nil when it does not
// exist. Membership in the proposal's workspace is required.
func (s *Service) Get(ctx context.Context, token string, proposalID uuid.UUID) (*Details, error) {
	repos := s.store.Repos()
	if _, err := s.sessions.Validate(ctx, token); err != nil {
		return nil, err
	}

	proposal, err := repos.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.personForWorkspace(ctx, repos, token, proposal.WorkspaceID); err != nil {
		return nil, err
	}

	details := &Details{Proposal: proposal}
	if details.Evolutions, err = repos.Proposals.ListEvolutions(ctx, proposal.ID); err != nil {
		return nil, err
	}
	if details.Objections, err = repos.Proposals.ListObjections(ctx, proposal.ID); err != nil {
		return nil, err
	}
	if details.Attachments, err = repos.Proposals.ListAttachments(ctx, proposal.ID); err != nil {
		return nil, err
	}

	creator, err := repos.People.GetByID(ctx, proposal.CreatedBy)
	if err == nil {
		ref := creator.Ref()
		details.Creator = &ref
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	entity, err := loadTargetEntity(ctx, repos, proposal.EntityType, proposal.EntityID)
	if err == nil {
		details.TargetEntity = &TargetRef{Type: entity.EntityType(), Name: entity.DisplayName()}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return details, nil
}

// GetByAgendaItem resolves the proposal linked to a meeting agenda
// item, or nil when the item carries no proposal.
func (s *Service) GetByAgendaItem(ctx context.Context, token string, agendaItemID uuid.UUID) (*domain.Proposal, error) {
	repos := s.store.Repos()
	if _, err := s.sessions.Validate(ctx, token); err != nil {
		return nil, err
	}

	proposal, err := repos.Proposals.GetByAgendaItem(ctx, agendaItemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if _, err := s.personForWorkspace(ctx, repos, token, proposal.WorkspaceID); err != nil {
		return nil, err
	}
	return &proposal, nil
}

// ListByCircle returns a circle's proposals. Terminal proposals are
// excluded unless includeTerminal is set. An unknown circle yields an
// empty list.
func (s *Service) ListByCircle(ctx context.Context, token string, circleID uuid.UUID, includeTerminal bool) ([]domain.Proposal, error) {
	repos := s.store.Repos()
	if _, err := s.sessions.Validate(ctx, token); err != nil {
		return nil, err
	}

	circle, err := repos.Circles.GetByID(ctx, circleID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Proposal{}, nil
		}
		return nil, err
	}
	if _, err := s.personForWorkspace(ctx, repos, token, circle.WorkspaceID); err != nil {
		return nil, err
	}

	proposals, err := repos.Proposals.ListByCircle(ctx, circleID)
	if err != nil {
		return nil, err
	}

	filtered := proposals[:0:0]
	for _, proposal := range proposals {
		if !includeTerminal && domain.IsTerminal(proposal.Status) {
			continue
		}
		filtered = append(filtered, proposal)
	}
	sortNewestFirst(filtered)
	return filtered, nil
}

// ListMyDrafts returns the caller's draft proposals in a workspace,
// most recently edited first.
func (s *Service) ListMyDrafts(ctx context.Context, token string, workspaceID uuid.UUID) ([]domain.Proposal, error) {
	repos := s.store.Repos()
	person, err := s.personForWorkspace(ctx, repos, token, workspaceID)
	if err != nil {
		return nil, err
	}

	proposals, err := repos.Proposals.ListByCreator(ctx, person.ID)
	if err != nil {
		return nil, err
	}

	drafts := proposals[:0:0]
	for _, proposal := range proposals {
		if proposal.WorkspaceID != workspaceID || proposal.Status != domain.StatusDraft {
			continue
		}
		drafts = append(drafts, proposal)
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

// ListForMeetingImport returns the submitted, not-yet-linked proposals
// of a meeting's circle, the candidates for ImportToMeeting. A meeting
// without a circle has no candidates.
func (s *Service) ListForMeetingImport(ctx context.Context, token string, meetingID uuid.UUID) ([]domain.Proposal, error) {
	repos := s.store.Repos()
	if _, err := s.sessions.Validate(ctx, token); err != nil {
		return nil, err
	}

	meeting, err := requireMeeting(ctx, repos, meetingID, "Meeting not found")
	if err != nil {
		return nil, err
	}
	if _, err := s.personForWorkspace(ctx, repos, token, meeting.WorkspaceID); err != nil {
		return nil, err
	}
	if meeting.CircleID == nil {
		return []domain.Proposal{}, nil
	}

	proposals, err := repos.Proposals.ListByCircle(ctx, *meeting.CircleID)
	if err != nil {
		return nil, err
	}

	candidates := proposals[:0:0]
	for _, proposal := range proposals {
		if proposal.Status != domain.StatusSubmitted || proposal.MeetingID != nil {
			continue
		}
		if proposal.WorkspaceID != meeting.WorkspaceID {
			continue
		}
		candidates = append(candidates, proposal)
	}
	sortNewestFirst(candidates)
	return candidates, nil
}

func sortNewestFirst(proposals []domain.Proposal) {
	sort.SliceStable(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
}
