package proposal

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
)

// CreateInput describes a new draft proposal.
type CreateInput struct {
	WorkspaceID uuid.UUID
	EntityType  domain.EntityType
	EntityID    uuid.UUID
	Title       string
	Description string
}

// Create opens a new draft proposal against a circle or role.
func (s *Service) Create(ctx context.Context, token string, input CreateInput) (domain.Proposal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Proposal{}, domain.NewError(domain.CodeValidationRequiredField, "Title is required")
	}

	var created domain.Proposal
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		person, err := s.personForWorkspace(ctx, repos, token, input.WorkspaceID)
		if err != nil {
			return err
		}

		var circleID *uuid.UUID
		switch input.EntityType {
		case domain.EntityTypeCircle:
			circle, err := repos.Circles.GetByID(ctx, input.EntityID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.NewError(domain.CodeCircleNotFound, "Circle not found")
				}
				return err
			}
			if circle.WorkspaceID != input.WorkspaceID {
				return domain.NewError(domain.CodeProposalWorkspaceMismatch, "Circle does not belong to this workspace")
			}
			circleID = &circle.ID
		case domain.EntityTypeRole:
			role, err := repos.Roles.GetByID(ctx, input.EntityID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.NewError(domain.CodeRoleNotFound, "Role not found")
				}
				return err
			}
			if role.WorkspaceID != input.WorkspaceID {
				return domain.NewError(domain.CodeProposalWorkspaceMismatch, "Role does not belong to this workspace")
			}
			parent := role.CircleID
			circleID = &parent
		default:
			return domain.NewErrorf(domain.CodeGenericError, "unknown entity type %q", input.EntityType)
		}

		now := s.now()
		created, err = repos.Proposals.Create(ctx, domain.Proposal{
			WorkspaceID: input.WorkspaceID,
			EntityType:  input.EntityType,
			EntityID:    input.EntityID,
			CircleID:    circleID,
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Status:      domain.StatusDraft,
			CreatedBy:   person.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "created", created, created.CreatedBy)
	return created, nil
}

// AddEvolutionInput describes one proposed field change.
type AddEvolutionInput struct {
	ProposalID  uuid.UUID
	FieldPath   string
	FieldLabel  string
	BeforeValue *string
	AfterValue  *string
	ChangeType  domain.ChangeType
}

// AddEvolution appends a field change to a draft. Only the creator may
// edit a draft; the order is assigned server-side.
func (s *Service) AddEvolution(ctx context.Context, token string, input AddEvolutionInput) (domain.Evolution, error) {
	if input.FieldPath == "" {
		return domain.Evolution{}, domain.NewError(domain.CodeValidationRequiredField, "Field path is required")
	}
	switch input.ChangeType {
	case domain.ChangeTypeAdd, domain.ChangeTypeUpdate, domain.ChangeTypeRemove:
	default:
		return domain.Evolution{}, domain.NewErrorf(domain.CodeGenericError, "unknown change type %q", input.ChangeType)
	}

	var created domain.Evolution
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		proposal, err := requireProposal(ctx, repos, input.ProposalID)
		if err != nil {
			return err
		}
		person, err := s.personForWorkspace(ctx, repos, token, proposal.WorkspaceID)
		if err != nil {
			return err
		}
		if proposal.CreatedBy != person.ID {
			return domain.NewError(domain.CodeProposalAccessDenied, "Only the proposal creator can add evolutions")
		}
		if proposal.Status != domain.StatusDraft {
			return domain.NewError(domain.CodeProposalInvalidState, "Can only edit draft proposals")
		}

		existing, err := repos.Proposals.ListEvolutions(ctx, proposal.ID)
		if err != nil {
			return err
		}

		created, err = repos.Proposals.AddEvolution(ctx, domain.Evolution{
			ProposalID:  proposal.ID,
			FieldPath:   input.FieldPath,
			FieldLabel:  input.FieldLabel,
			BeforeValue: input.BeforeValue,
			AfterValue:  input.AfterValue,
			ChangeType:  input.ChangeType,
			Order:       domain.NextEvolutionOrder(existing),
			CreatedAt:   s.now(),
		})
		if err != nil {
			return err
		}

		proposal.UpdatedAt = s.now()
		_, err = repos.Proposals.Update(ctx, proposal)
		return err
	})
	if err != nil {
		return domain.Evolution{}, err
	}
	return created, nil
}

// RemoveEvolution deletes a field change from a draft.
func (s *Service) RemoveEvolution(ctx context.Context, token string, evolutionID uuid.UUID) error {
	return s.store.InTx(ctx, func(repos repository.Repos) error {
		evolution, err := repos.Proposals.GetEvolution(ctx, evolutionID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewError(domain.CodeGenericError, "Evolution not found")
			}
			return err
		}
		proposal, err := requireProposal(ctx, repos, evolution.ProposalID)
		if err != nil {
			return err
		}
		person, err := s.personForWorkspace(ctx, repos, token, proposal.WorkspaceID)
		if err != nil {
			return err
		}
		if proposal.CreatedBy != person.ID {
			return domain.NewError(domain.CodeProposalAccessDenied, "Only the proposal creator can remove evolutions")
		}
		if proposal.Status != domain.StatusDraft {
			return domain.NewError(domain.CodeProposalInvalidState, "Can only edit draft proposals")
		}

		if err := repos.Proposals.DeleteEvolution(ctx, evolutionID); err != nil {
			return err
		}

		proposal.UpdatedAt = s.now()
		_, err = repos.Proposals.Update(ctx, proposal)
		return err
	})
}

// Withdraw retires a proposal from any non-terminal state. Creator only.
func (s *Service) Withdraw(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error) {
	var updated domain.Proposal
	var actor uuid.UUID
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
			return domain.NewError(domain.CodeProposalAccessDenied, "Only the proposal creator can withdraw")
		}
		if domain.IsTerminal(proposal.Status) {
			return domain.NewError(domain.CodeProposalInvalidState, "Cannot withdraw a proposal that has already been finalized")
		}

		proposal.Status = domain.StatusWithdrawn
		proposal.UpdatedAt = s.now()
		updated, err = repos.Proposals.Update(ctx, proposal)
		actor = person.ID
		return err
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "withdrawn", updated, actor)
	return updated, nil
}

// diffField pairs a diffable field path with its human label. The
// order here fixes the order of generated evolutions.
type diffField struct {
	path  string
	label string
}

var circleDiffFields = []diffField{
	{"name", "Name"},
	{"purpose", "Purpose"},
	{"circleType", "Circle Type"},
	{"decisionModel", "Decision Model"},
	{"representsToParent", "Represents to Parent"},
}

// CreateFromDiffInput creates an already-submitted proposal from an
// edited copy of the target entity's fields.
type CreateFromDiffInput struct {
	WorkspaceID uuid.UUID
	EntityType  domain.EntityType
	EntityID    uuid.UUID
	Title       string
	Description string
	Edited      map[string]any
}

// CreateFromDiff diffs the edited field values against the entity's
// current state and creates a submitted proposal with one evolution
// per changed field. Unchanged fields produce no evolution.
func (s *Service) CreateFromDiff(ctx context.Context, token string, input CreateFromDiffInput) (domain.Proposal, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Proposal{}, domain.NewError(domain.CodeValidationRequiredField, "Title is required")
	}

	var created domain.Proposal
	err := s.store.InTx(ctx, func(repos repository.Repos) error {
		person, err := s.personForWorkspace(ctx, repos, token, input.WorkspaceID)
		if err != nil {
			return err
		}

		entity, err := loadTargetEntity(ctx, repos, input.EntityType, input.EntityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewError(domain.CodeGenericError, "Entity not found")
			}
			return err
		}
		if entity.Workspace() != input.WorkspaceID {
			return domain.NewError(domain.CodeProposalWorkspaceMismatch, "Entity does not belong to this workspace")
		}

		var circleID *uuid.UUID
		switch target := entity.(type) {
		case *domain.Circle:
			circleID = &target.ID
		case *domain.Role:
			parent := target.CircleID
			circleID = &parent
		}

		now := s.now()
		created, err = repos.Proposals.Create(ctx, domain.Proposal{
			WorkspaceID: input.WorkspaceID,
			EntityType:  input.EntityType,
			EntityID:    input.EntityID,
			CircleID:    circleID,
			Title:       title,
			Description: strings.TrimSpace(input.Description),
			Status:      domain.StatusSubmitted,
			CreatedBy:   person.ID,
			SubmittedAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}

		order := 0
		for _, field := range circleDiffFields {
			edited, present := input.Edited[field.path]
			if !present {
				continue
			}
			current, _ := entity.FieldValue(field.path)
			if jsonValue(current) == jsonValue(edited) {
				continue
			}

			evolution := domain.Evolution{
				ProposalID: created.ID,
				FieldPath:  field.path,
				FieldLabel: field.label,
				AfterValue: jsonPtr(edited),
				ChangeType: domain.ChangeTypeUpdate,
				Order:      order,
				CreatedAt:  now,
			}
			if current == nil {
				evolution.ChangeType = domain.ChangeTypeAdd
			} else {
				evolution.BeforeValue = jsonPtr(current)
			}
			if _, err := repos.Proposals.AddEvolution(ctx, evolution); err != nil {
				return err
			}
			order++
		}
		return nil
	})
	if err != nil {
		return domain.Proposal{}, err
	}

	s.publish(ctx, "submitted", created, created.CreatedBy)
	return created, nil
}

// jsonValue serializes a value for diff comparison. nil and absent
// values compare as the empty string.
func jsonValue(value any) string {
	if value == nil {
		return ""
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}

func jsonPtr(value any) *string {
	encoded := jsonValue(value)
	return &encoded
}
