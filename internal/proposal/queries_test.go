package proposal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"circlegov/internal/domain"
)

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	f.draft(1)
	submitted := f.submitted()

	status := domain.StatusSubmitted
	proposals, err := f.service.List(f.ctx(), creatorToken, f.workspaceID, ListOptions{Status: &status})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.Equal(t, submitted.ID, proposals[0].ID)
}

func TestListAllInWorkspace(t *testing.T) {
	f := newFixture(t)
	f.draft(1)
	f.submitted()

	proposals, err := f.service.List(f.ctx(), creatorToken, f.workspaceID, ListOptions{})
	require.NoError(t, err)
	require.Len(t, proposals, 2)
}

func TestListByCircleFilter(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(1)

	other, err := f.store.Repos().Circles.Create(f.ctx(), domain.Circle{
		WorkspaceID: f.workspaceID,
		Name:        "Ops Circle",
		Slug:        "ops-circle",
	})
	require.NoError(t, err)
	_, err = f.service.Create(f.ctx(), creatorToken, CreateInput{
		WorkspaceID: f.workspaceID,
		EntityType:  domain.EntityTypeCircle,
		EntityID:    other.ID,
		Title:       "Ops change",
	})
	require.NoError(t, err)

	proposals, err := f.service.List(f.ctx(), creatorToken, f.workspaceID, ListOptions{CircleID: &f.circle.ID})
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.Equal(t, draft.ID, proposals[0].ID)
}

func TestListLimit(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 5; i++ {
		f.draft(1)
	}

	proposals, err := f.service.List(f.ctx(), creatorToken, f.workspaceID, ListOptions{Limit: 3})
	require.NoError(t, err)
	require.Len(t, proposals, 3)
}

func TestListOutsiderDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.List(f.ctx(), outsiderToken, f.workspaceID, ListOptions{})
	requireCode(t, err, domain.CodeWorkspaceAccessDenied)
}

func TestGetExpandsDetails(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(2)

	details, err := f.service.Get(f.ctx(), creatorToken, draft.ID)
	require.NoError(t, err)
	require.NotNil(t, details)

	require.Equal(t, draft.ID, details.ID)
	require.Len(t, details.Evolutions, 2)
	require.Less(t, details.Evolutions[0].Order, details.Evolutions[1].Order)
	require.NotNil(t, details.Creator)
	require.Equal(t, f.creator.ID, details.Creator.ID)
	require.NotNil(t, details.TargetEntity)
	require.Equal(t, domain.EntityTypeCircle, details.TargetEntity.Type)
	require.Equal(t, "Product Circle", details.TargetEntity.Name)
}

func TestGetUnknownReturnsNil(t *testing.T) {
	f := newFixture(t)

	details, err := f.service.Get(f.ctx(), creatorToken, uuid.New())
	require.NoError(t, err)
	require.Nil(t, details)
}

func TestGetOutsiderDenied(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(1)

	_, err := f.service.Get(f.ctx(), outsiderToken, draft.ID)
	requireCode(t, err, domain.CodeWorkspaceAccessDenied)
}

func TestGetInvalidSession(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(1)

	_, err := f.service.Get(f.ctx(), "no-such-token", draft.ID)
	requireCode(t, err, domain.CodeSessionNotFound)
}

func TestGetByAgendaItem(t *testing.T) {
	f := newFixture(t)
	submitted := f.submitted()

	found, err := f.service.GetByAgendaItem(f.ctx(), creatorToken, *submitted.AgendaItemID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, submitted.ID, found.ID)
}

func TestGetByAgendaItemUnlinked(t *testing.T) {
	f := newFixture(t)

	found, err := f.service.GetByAgendaItem(f.ctx(), creatorToken, uuid.New())
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestListByCircleExcludesTerminal(t *testing.T) {
	f := newFixture(t)
	active := f.draft(1)
	withdrawn := f.draft(1)
	_, err := f.service.Withdraw(f.ctx(), creatorToken, withdrawn.ID)
	require.NoError(t, err)

	proposals, err := f.service.ListByCircle(f.ctx(), creatorToken, f.circle.ID, false)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	require.Equal(t, active.ID, proposals[0].ID)

	all, err := f.service.ListByCircle(f.ctx(), creatorToken, f.circle.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestListByCircleUnknownCircle(t *testing.T) {
	f := newFixture(t)

	proposals, err := f.service.ListByCircle(f.ctx(), creatorToken, uuid.New(), false)
	require.NoError(t, err)
	require.Empty(t, proposals)
}

func TestListMyDrafts(t *testing.T) {
	f := newFixture(t)
	draft := f.draft(1)
	f.submitted() // not a draft anymore

	drafts, err := f.service.ListMyDrafts(f.ctx(), creatorToken, f.workspaceID)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, draft.ID, drafts[0].ID)

	// the recorder has no drafts of their own
	none, err := f.service.ListMyDrafts(f.ctx(), recorderToken, f.workspaceID)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListForMeetingImport(t *testing.T) {
	f := newFixture(t)
	candidate := f.diffSubmitted("Importable", "Alpha Circle")
	f.submitted() // linked to the meeting already, not a candidate
	f.draft(1)    // drafts are not candidates

	candidates, err := f.service.ListForMeetingImport(f.ctx(), recorderToken, f.meeting.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, candidate.ID, candidates[0].ID)
}

func TestListForMeetingImportAdhoc(t *testing.T) {
	f := newFixture(t)
	f.diffSubmitted("Importable", "Alpha Circle")

	candidates, err := f.service.ListForMeetingImport(f.ctx(), recorderToken, f.adhoc.ID)
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestListForMeetingImportUnknownMeeting(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListForMeetingImport(f.ctx(), recorderToken, uuid.New())
	requireCode(t, err, domain.CodeMeetingNotFound)
}
