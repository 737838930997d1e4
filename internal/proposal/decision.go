package proposal

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
)

// decisionContext gathers the guards shared by Approve and Reject:
// eligible state, linked meeting, and the acting recorder.
func (s *Service) decisionContext(ctx context.Context, repos repository.Repos, token string, proposalID uuid.UUID, verb string) (domain.Proposal, domain.Person, error) {
	proposal, err := requireProposal(ctx, repos, proposalID)
	if err != nil {
		return domain.Proposal{}, domain.Person{}, err
	}
	if proposal.Status != domain.StatusInMeeting && proposal.Status != domain.StatusIntegrated {
		return domain.Proposal{}, domain.Person{}, domain.NewErrorf(domain.CodeProposalInvalidState, "Proposal must be in meeting or integrated to %s", verb)
	}
	if proposal.MeetingID == nil {
		return domain.Proposal{}, domain.Person{}, domain.NewErrorf(domain.CodeProposalInvalidState, "Proposal must be linked to a meeting to %s", verb)
	}
	meeting, err := requireMeeting(ctx, repos, *proposal.MeetingID, "Linked meeting not found")
	if err != nil {
		return domain.Proposal{}, domain.Person{}, err
	}
	person, err := s.personForWorkspace(ctx, repos, token, meeting.WorkspaceID)
	if err != nil {
		return domain.Proposal{}, domain.Person{}, err
	}
	if meeting.RecorderID != person.ID {
		return domain.Proposal{}, domain.Person{}, domain.NewErrorf(domain.CodeProposalAccessDenied, "Only the meeting recorder can %s proposals", verb)
	}
	return proposal, person, nil
}

// Approve applies a proposal's evolutions to its target entity,
// records an audit entry with before/after snapshots, and finalizes
// the proposal. Everything happens in one transaction: a failed field
// application aborts the whole approval.
func (s *Service) Approve(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error) {
	var updated domain.Proposal
	var actor uuid.UUID
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		proposal, person, err := s.decisionContext(ctx, repos, token, proposalID, "approve")
		if err != nil {
			return err
		}
		actor = person.ID

		entity, err := loadTargetEntity(ctx, repos, proposal.EntityType, proposal.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewError(domain.CodeGenericError, "Target entity no longer exists - was it deleted?")
			}
			return err
		}
		before := entity.Snapshot()

		evolutions, err := repos.Proposals.ListEvolutions(ctx, proposal.ID)
		if err != nil {
			return err
		}
		if len(evolutions) == 0 {
			return domain.NewError(domain.CodeProposalInvalidState, "Proposal has no changes to apply")
		}

		nameChanged := false
		for _, evolution := range evolutions {
			// remove evolutions carry no after value and are skipped
			if evolution.ChangeType == domain.ChangeTypeRemove || evolution.AfterValue == nil {
				continue
			}
			var value any
			if err := json.Unmarshal([]byte(*evolution.AfterValue), &value); err != nil {
				return domain.NewErrorf(domain.CodeGenericError, "evolution %s has an invalid after value: %v", evolution.ID, err)
			}
			if err := entity.ApplyField(evolution.FieldPath, value); err != nil {
				return err
			}
			if evolution.FieldPath == "name" {
				nameChanged = true
			}
		}

		now := s.now()
		switch target := entity.(type) {
		case *domain.Circle:
			if nameChanged {
				slugs, err := repos.Circles.ListSlugs(ctx, target.WorkspaceID)
				if err != nil {
					return err
				}
				target.Slug = domain.EnsureUniqueSlug(domain.SlugifyName(target.Name), slugs)
			}
			target.UpdatedAt = now
			target.UpdatedBy = &person.ID
			if _, err := repos.Circles.Update(ctx, *target); err != nil {
				return err
			}
		case *domain.Role:
			target.UpdatedAt = now
			target.UpdatedBy = &person.ID
			if _, err := repos.Roles.Update(ctx, *target); err != nil {
				return err
			}
		}

		applied, err := loadTargetEntity(ctx, repos, proposal.EntityType, proposal.EntityID)
		if err != nil {
			return domain.NewError(domain.CodeGenericError, "Failed to retrieve updated entity")
		}

		entry, err := repos.History.Create(ctx, domain.NewVersionHistoryEntry(proposal, person.ID, now, before, applied.Snapshot()))
		if err != nil {
			return err
		}

		proposal.Status = domain.StatusApproved
		proposal.ProcessedAt = &now
		proposal.ProcessedBy = &person.ID
		proposal.VersionHistoryEntryID = &entry.ID
		proposal.UpdatedAt = now
		updated, err = repos.Proposals.Update(ctx, proposal)
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "approved", updated, actor)
	return updated, nil
}

// Reject finalizes a proposal without touching its target entity. Same
// guards as Approve; no audit entry is written.
func (s *Service) Reject(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error) {
	var updated domain.Proposal
	var actor uuid.UUID
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		proposal, person, err := s.decisionContext(ctx, repos, token, proposalID, "reject")
		if err != nil {
			return err
		}
		actor = person.ID

		now := s.now()
		proposal.Status = domain.StatusRejected
		proposal.ProcessedAt = &now
		proposal.ProcessedBy = &person.ID
		proposal.UpdatedAt = now
		updated, err = repos.Proposals.Update(ctx, proposal)
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "rejected", updated, actor)
	return updated, nil
}
