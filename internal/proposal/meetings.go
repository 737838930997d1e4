package proposal

import (
	"context"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
)

// Submit moves a draft onto a meeting's agenda. The proposal must have
// at least one evolution, and the meeting must belong to the
// proposal's workspace.
func (s *Service) Submit(ctx context.Context, token string, proposalID, meetingID uuid.UUID) (domain.Proposal, error) {
	var updated domain.Proposal
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		proposal, err := requireProposal(ctx, repos, proposalID)
		if err != nil {
			return err
		}
		person, err := s.personForWorkspace(ctx, repos, token, proposal.WorkspaceID)
		if err != nil {
			return err
		}
		if proposal.CreatedBy != person.ID {
			return domain.NewError(domain.CodeProposalAccessDenied, "Only the proposal creator can submit")
		}
		if proposal.Status != domain.StatusDraft {
			return domain.NewError(domain.CodeProposalInvalidState, "Can only submit draft proposals")
		}

		meeting, err := requireMeeting(ctx, repos, meetingID, "Meeting not found")
		if err != nil {
			return err
		}
		if meeting.WorkspaceID != proposal.WorkspaceID {
			return domain.NewError(domain.CodeProposalWorkspaceMismatch, "Meeting and proposal belong to different workspaces")
		}

		count, err := repos.Proposals.CountEvolutions(ctx, proposal.ID)
		if err != nil {
			return err
		}
		if count == 0 {
			return domain.NewError(domain.CodeValidationRequiredField, "Proposal must have at least one proposed change")
		}

		item, err := s.appendAgendaItem(ctx, repos, meeting, proposal.Title, person.ID)
		if err != nil {
			return err
		}

		now := s.now()
		proposal.Status = domain.StatusSubmitted
		proposal.MeetingID = &meeting.ID
		proposal.AgendaItemID = &item.ID
		proposal.SubmittedAt = &now
		proposal.UpdatedAt = now
		updated, err = repos.Proposals.Update(ctx, proposal)
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "submitted", updated, updated.CreatedBy)
	return updated, nil
}

// ImportToMeeting pulls submitted proposals of a meeting's circle onto
// its agenda, moving each to in_meeting. The whole batch succeeds or
// fails together.
func (s *Service) ImportToMeeting(ctx context.Context, token string, meetingID uuid.UUID, proposalIDs []uuid.UUID) ([]domain.Proposal, error) {
	var imported []domain.Proposal
	var actor uuid.UUID
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		meeting, err := requireMeeting(ctx, repos, meetingID, "Meeting not found")
		if err != nil {
			return err
		}
		person, err := s.personForWorkspace(ctx, repos, token, meeting.WorkspaceID)
		if err != nil {
			return err
		}
		actor = person.ID
		if meeting.CircleID == nil {
			return domain.NewError(domain.CodeMeetingCircleMismatch, "Cannot import proposals into a meeting without a circle")
		}

		for _, proposalID := range proposalIDs {
			proposal, err := requireProposal(ctx, repos, proposalID)
			if err != nil {
				return err
			}
			if proposal.Status != domain.StatusSubmitted {
				return domain.NewErrorf(domain.CodeProposalInvalidState, "Proposal %q is not in submitted status", proposal.Title)
			}
			if proposal.CircleID == nil || *proposal.CircleID != *meeting.CircleID {
				return domain.NewErrorf(domain.CodeProposalWorkspaceMismatch, "Proposal %q does not belong to this meeting's circle", proposal.Title)
			}
			if proposal.MeetingID != nil {
				return domain.NewErrorf(domain.CodeProposalInvalidState, "Proposal %q is already linked to a meeting", proposal.Title)
			}
			count, err := repos.Proposals.CountEvolutions(ctx, proposal.ID)
			if err != nil {
				return err
			}
			if count == 0 {
				return domain.NewErrorf(domain.CodeValidationRequiredField, "Proposal %q has no proposed changes", proposal.Title)
			}

			item, err := s.appendAgendaItem(ctx, repos, meeting, proposal.Title, person.ID)
			if err != nil {
				return err
			}

			now := s.now()
			proposal.Status = domain.StatusInMeeting
			proposal.MeetingID = &meeting.ID
			proposal.AgendaItemID = &item.ID
			proposal.UpdatedAt = now
			updated, err := repos.Proposals.Update(ctx, proposal)
			if err != nil {
				return err
			}
			imported = append(imported, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, proposal := range imported {
		s.publish(ctx, "in_meeting", proposal, actor)
	}
	return imported, nil
}

// StartProcessing marks a submitted proposal as under deliberation.
// Only the meeting recorder may do this.
func (s *Service) StartProcessing(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error) {
	var updated domain.Proposal
	var actor uuid.UUID
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		proposal, err := requireProposal(ctx, repos, proposalID)
		if err != nil {
			return err
		}
		if proposal.Status != domain.StatusSubmitted {
			return domain.NewError(domain.CodeProposalInvalidState, "Proposal must be submitted to start processing")
		}
		if proposal.MeetingID == nil {
			return domain.NewError(domain.CodeMeetingNotFound, "Linked meeting not found")
		}
		meeting, err := requireMeeting(ctx, repos, *proposal.MeetingID, "Linked meeting not found")
		if err != nil {
			return err
		}
		person, err := s.personForWorkspace(ctx, repos, token, meeting.WorkspaceID)
		if err != nil {
			return err
		}
		if meeting.RecorderID != person.ID {
			return domain.NewError(domain.CodeProposalAccessDenied, "Only the meeting recorder can process proposals")
		}

		proposal.Status = domain.StatusInMeeting
		proposal.UpdatedAt = s.now()
		updated, err = repos.Proposals.Update(ctx, proposal)
		actor = person.ID
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "in_meeting", updated, actor)
	return updated, nil
}

// appendAgendaItem adds a proposal agenda item at the end of the
// meeting's agenda.
func (s *Service) appendAgendaItem(ctx context.Context, repos repository.Repos, meeting domain.Meeting, proposalTitle string, createdBy uuid.UUID) (domain.AgendaItem, error) {
	items, err := repos.Meetings.ListAgendaItems(ctx, meeting.ID)
	if err != nil {
		return domain.AgendaItem{}, err
	}
	return repos.Meetings.CreateAgendaItem(ctx, domain.AgendaItem{
		MeetingID: meeting.ID,
		Title:     domain.AgendaTitleForProposal(proposalTitle),
		Order:     domain.NextAgendaOrder(items),
		Status:    domain.AgendaStatusTodo,
		CreatedBy: createdBy,
		CreatedAt: s.now(),
	})
}
