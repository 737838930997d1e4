package proposal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"circlegov/internal/domain"
	"circlegov/internal/session"
)

const (
	creatorToken  = "tok-creator"
	recorderToken = "tok-recorder"
	outsiderToken = "tok-outsider"
)

// fixture wires a service against the in-memory store with one
// workspace, a creator, a meeting recorder, an outsider in another
// workspace, a circle with a role, and a circle meeting.
type fixture struct {
	t       *testing.T
	store   *fakeStore
	events  *capturingPublisher
	service *Service
	now     time.Time

	workspaceID uuid.UUID
	creator     domain.Person
	recorder    domain.Person
	circle      domain.Circle
	role        domain.Role
	meeting     domain.Meeting
	adhoc       domain.Meeting
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		t:           t,
		store:       newFakeStore(),
		events:      &capturingPublisher{},
		now:         time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC),
		workspaceID: uuid.New(),
	}

	sessions := session.NewMemoryStore().WithClock(func() time.Time { return f.now })
	f.service = NewService(f.store, sessions,
		WithClock(func() time.Time { return f.now }),
		WithPublisher(f.events),
	)

	ctx := context.Background()
	repos := f.store.Repos()

	addPerson := func(name, token string, workspaceID uuid.UUID) domain.Person {
		userID := uuid.New()
		require.NoError(t, sessions.Put(ctx, token, userID, 24*time.Hour))
		person, err := repos.People.Create(ctx, domain.Person{
			WorkspaceID: workspaceID,
			UserID:      userID,
			Name:        name,
			Email:       name + "@example.com",
			Status:      domain.PersonStatusActive,
			CreatedAt:   f.now,
			UpdatedAt:   f.now,
		})
		require.NoError(t, err)
		return person
	}

	f.creator = addPerson("ada", creatorToken, f.workspaceID)
	f.recorder = addPerson("grace", recorderToken, f.workspaceID)
	addPerson("mallory", outsiderToken, uuid.New())

	var err error
	f.circle, err = repos.Circles.Create(ctx, domain.Circle{
		WorkspaceID:   f.workspaceID,
		Name:          "Product Circle",
		Slug:          "product-circle",
		Purpose:       "Ship the product",
		Status:        "active",
		CircleType:    "hierarchy",
		DecisionModel: "consent",
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	})
	require.NoError(t, err)

	f.role, err = repos.Roles.Create(ctx, domain.Role{
		WorkspaceID: f.workspaceID,
		CircleID:    f.circle.ID,
		Name:        "Facilitator",
		Purpose:     "Hold the meetings",
		Status:      "active",
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	})
	require.NoError(t, err)

	f.meeting, err = repos.Meetings.Create(ctx, domain.Meeting{
		WorkspaceID: f.workspaceID,
		CircleID:    &f.circle.ID,
		Title:       "Governance sync",
		RecorderID:  f.recorder.ID,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	})
	require.NoError(t, err)

	f.adhoc, err = repos.Meetings.Create(ctx, domain.Meeting{
		WorkspaceID: f.workspaceID,
		Title:       "Ad-hoc chat",
		RecorderID:  f.recorder.ID,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) ctx() context.Context { return context.Background() }

// draft creates a circle draft with the given number of evolutions.
func (f *fixture) draft(evolutions int) domain.Proposal {
	f.t.Helper()
	created, err := f.service.Create(f.ctx(), creatorToken, CreateInput{
		WorkspaceID: f.workspaceID,
		EntityType:  domain.EntityTypeCircle,
		EntityID:    f.circle.ID,
		Title:       "Rename the circle",
		Description: "Better name",
	})
	require.NoError(f.t, err)

	for i := 0; i < evolutions; i++ {
		before := jsonValue(f.circle.Name)
		after := jsonValue("Platform Circle")
		_, err := f.service.AddEvolution(f.ctx(), creatorToken, AddEvolutionInput{
			ProposalID:  created.ID,
			FieldPath:   "name",
			FieldLabel:  "Name",
			BeforeValue: &before,
			AfterValue:  &after,
			ChangeType:  domain.ChangeTypeUpdate,
		})
		require.NoError(f.t, err)
	}
	return f.proposal(created.ID)
}

// submitted creates a draft with one evolution and submits it to the
// circle meeting.
func (f *fixture) submitted() domain.Proposal {
	f.t.Helper()
	draft := f.draft(1)
	submitted, err := f.service.Submit(f.ctx(), creatorToken, draft.ID, f.meeting.ID)
	require.NoError(f.t, err)
	return submitted
}

// inMeeting creates a submitted proposal and has the recorder start
// processing it.
func (f *fixture) inMeeting() domain.Proposal {
	f.t.Helper()
	submitted := f.submitted()
	processing, err := f.service.StartProcessing(f.ctx(), recorderToken, submitted.ID)
	require.NoError(f.t, err)
	return processing
}

// proposal reloads a proposal straight from the store.
func (f *fixture) proposal(id uuid.UUID) domain.Proposal {
	f.t.Helper()
	proposal, ok := f.store.data.proposals[id]
	require.True(f.t, ok, "proposal %s not in store", id)
	return proposal
}

// addEvolution inserts a raw evolution, bypassing draft-only guards.
func (f *fixture) addEvolution(proposalID uuid.UUID, fieldPath, fieldLabel string, after any, order int) domain.Evolution {
	f.t.Helper()
	evolution, err := f.store.Repos().Proposals.AddEvolution(f.ctx(), domain.Evolution{
		ProposalID: proposalID,
		FieldPath:  fieldPath,
		FieldLabel: fieldLabel,
		AfterValue: jsonPtr(after),
		ChangeType: domain.ChangeTypeUpdate,
		Order:      order,
		CreatedAt:  f.now,
	})
	require.NoError(f.t, err)
	return evolution
}

// requireCode asserts err carries the given error code.
func requireCode(t *testing.T, err error, code domain.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, domain.CodeOf(err), "unexpected error: %v", err)
}
