package export

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
	"circlegov/internal/session"
)

type stubStore struct {
	people    map[uuid.UUID]domain.Person
	proposals []domain.Proposal
	evolution map[uuid.UUID][]domain.Evolution
}

func (s *stubStore) Repos() repository.Repos {
	return repository.Repos{
		People:    stubPeople{s},
		Proposals: stubProposals{s},
	}
}

func (s *stubStore) InTx(_ context.Context, fn func(repository.Repos) error) error {
	return fn(s.Repos())
}

type stubPeople struct{ s *stubStore }

func (r stubPeople) Create(_ context.Context, person domain.Person) (domain.Person, error) {
	return person, nil
}

func (r stubPeople) GetByID(_ context.Context, id uuid.UUID) (domain.Person, error) {
	person, ok := r.s.people[id]
	if !ok {
		return domain.Person{}, repository.ErrNotFound
	}
	return person, nil
}

func (r stubPeople) GetByUserAndWorkspace(_ context.Context, userID, workspaceID uuid.UUID) (domain.Person, error) {
	for _, person := range r.s.people {
		if person.UserID == userID && person.WorkspaceID == workspaceID {
			return person, nil
		}
	}
	return domain.Person{}, repository.ErrNotFound
}

type stubProposals struct{ s *stubStore }

func (r stubProposals) Create(_ context.Context, p domain.Proposal) (domain.Proposal, error) {
	return p, nil
}

func (r stubProposals) GetByID(_ context.Context, _ uuid.UUID) (domain.Proposal, error) {
	return domain.Proposal{}, repository.ErrNotFound
}

func (r stubProposals) GetByAgendaItem(_ context.Context, _ uuid.UUID) (domain.Proposal, error) {
	return domain.Proposal{}, repository.ErrNotFound
}

func (r stubProposals) Update(_ context.Context, p domain.Proposal) (domain.Proposal, error) {
	return p, nil
}

func (r stubProposals) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]domain.Proposal, error) {
	var out []domain.Proposal
	for _, proposal := range r.s.proposals {
		if proposal.WorkspaceID == workspaceID {
			out = append(out, proposal)
		}
	}
	return out, nil
}

func (r stubProposals) ListByWorkspaceAndStatus(_ context.Context, _ uuid.UUID, _ domain.ProposalStatus) ([]domain.Proposal, error) {
	return nil, nil
}

func (r stubProposals) ListByCircle(_ context.Context, _ uuid.UUID) ([]domain.Proposal, error) {
	return nil, nil
}

func (r stubProposals) ListByCreator(_ context.Context, _ uuid.UUID) ([]domain.Proposal, error) {
	return nil, nil
}

func (r stubProposals) AddEvolution(_ context.Context, e domain.Evolution) (domain.Evolution, error) {
	return e, nil
}

func (r stubProposals) GetEvolution(_ context.Context, _ uuid.UUID) (domain.Evolution, error) {
	return domain.Evolution{}, repository.ErrNotFound
}

func (r stubProposals) DeleteEvolution(_ context.Context, _ uuid.UUID) error { return nil }

func (r stubProposals) ListEvolutions(_ context.Context, proposalID uuid.UUID) ([]domain.Evolution, error) {
	return r.s.evolution[proposalID], nil
}

func (r stubProposals) CountEvolutions(_ context.Context, proposalID uuid.UUID) (int, error) {
	return len(r.s.evolution[proposalID]), nil
}

func (r stubProposals) ListObjections(_ context.Context, _ uuid.UUID) ([]domain.Objection, error) {
	return nil, nil
}

func (r stubProposals) ListAttachments(_ context.Context, _ uuid.UUID) ([]domain.Attachment, error) {
	return nil, nil
}

func TestExportWorkspace(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	workspaceID := uuid.New()
	userID := uuid.New()
	personID := uuid.New()

	before := `"Old"`
	after := `"New"`
	approvedAt := now.Add(-time.Hour)
	decider := uuid.New()
	entryID := uuid.New()
	proposal := domain.Proposal{
		ID:                    uuid.New(),
		WorkspaceID:           workspaceID,
		EntityType:            domain.EntityTypeCircle,
		EntityID:              uuid.New(),
		Title:                 "Rename circle",
		Status:                domain.StatusApproved,
		CreatedBy:             personID,
		ProcessedAt:           &approvedAt,
		ProcessedBy:           &decider,
		VersionHistoryEntryID: &entryID,
		CreatedAt:             now.Add(-48 * time.Hour),
		UpdatedAt:             approvedAt,
	}

	store := &stubStore{
		people: map[uuid.UUID]domain.Person{
			personID: {ID: personID, WorkspaceID: workspaceID, UserID: userID, Name: "ada", Status: domain.PersonStatusActive},
		},
		proposals: []domain.Proposal{proposal},
		evolution: map[uuid.UUID][]domain.Evolution{
			proposal.ID: {{
				ID:          uuid.New(),
				ProposalID:  proposal.ID,
				FieldPath:   "name",
				FieldLabel:  "Name",
				BeforeValue: &before,
				AfterValue:  &after,
				ChangeType:  domain.ChangeTypeUpdate,
			}},
		},
	}

	sessions := session.NewMemoryStore()
	require.NoError(t, sessions.Put(ctx, "tok", userID, time.Hour))

	service := NewService(store, sessions, WithClock(func() time.Time { return now }))
	workbook, err := service.ExportWorkspace(ctx, "tok", workspaceID)
	require.NoError(t, err)
	require.Contains(t, workbook.FileName, "governance-")
	require.Contains(t, workbook.FileName, "2026-07-01")

	title, err := workbook.File.GetCellValue(sheetProposals, "B2")
	require.NoError(t, err)
	require.Equal(t, "Rename circle", title)

	field, err := workbook.File.GetCellValue(sheetChanges, "C2")
	require.NoError(t, err)
	require.Equal(t, "Name", field)

	outcome, err := workbook.File.GetCellValue(sheetDecisions, "C2")
	require.NoError(t, err)
	require.Equal(t, "approved", outcome)
}

func TestExportWorkspaceDenied(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{people: map[uuid.UUID]domain.Person{}}
	sessions := session.NewMemoryStore()
	require.NoError(t, sessions.Put(ctx, "tok", uuid.New(), time.Hour))

	service := NewService(store, sessions)
	_, err := service.ExportWorkspace(ctx, "tok", uuid.New())
	require.Equal(t, domain.CodeWorkspaceAccessDenied, domain.CodeOf(err))
}
