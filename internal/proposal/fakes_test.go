package proposal

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/events"
	"circlegov/internal/repository"
)

// fakeData is the in-memory table set backing service tests.
type fakeData struct {
	people      map[uuid.UUID]domain.Person
	circles     map[uuid.UUID]domain.Circle
	roles       map[uuid.UUID]domain.Role
	meetings    map[uuid.UUID]domain.Meeting
	agendaItems map[uuid.UUID]domain.AgendaItem
	proposals   map[uuid.UUID]domain.Proposal
	evolutions  map[uuid.UUID]domain.Evolution
	objections  map[uuid.UUID]domain.Objection
	attachments map[uuid.UUID]domain.Attachment
	history     map[uuid.UUID]domain.VersionHistoryEntry
}

func newFakeData() *fakeData {
	return &fakeData{
		people:      make(map[uuid.UUID]domain.Person),
		circles:     make(map[uuid.UUID]domain.Circle),
		roles:       make(map[uuid.UUID]domain.Role),
		meetings:    make(map[uuid.UUID]domain.Meeting),
		agendaItems: make(map[uuid.UUID]domain.AgendaItem),
		proposals:   make(map[uuid.UUID]domain.Proposal),
		evolutions:  make(map[uuid.UUID]domain.Evolution),
		objections:  make(map[uuid.UUID]domain.Objection),
		attachments: make(map[uuid.UUID]domain.Attachment),
		history:     make(map[uuid.UUID]domain.VersionHistoryEntry),
	}
}

func (d *fakeData) clone() *fakeData {
	copied := newFakeData()
	for id, row := range d.people {
		copied.people[id] = row
	}
	for id, row := range d.circles {
		copied.circles[id] = row
	}
	for id, row := range d.roles {
		copied.roles[id] = row
	}
	for id, row := range d.meetings {
		copied.meetings[id] = row
	}
	for id, row := range d.agendaItems {
		copied.agendaItems[id] = row
	}
	for id, row := range d.proposals {
		copied.proposals[id] = row
	}
	for id, row := range d.evolutions {
		copied.evolutions[id] = row
	}
	for id, row := range d.objections {
		copied.objections[id] = row
	}
	for id, row := range d.attachments {
		copied.attachments[id] = row
	}
	for id, row := range d.history {
		copied.history[id] = row
	}
	return copied
}

// fakeStore satisfies repository.Store. InTx restores the pre-call
// state on error so tests can assert transactional rollback.
type fakeStore struct {
	data *fakeData
}

func newFakeStore() *fakeStore { return &fakeStore{data: newFakeData()} }

func (s *fakeStore) Repos() repository.Repos {
	return repository.Repos{
		People:    fakePeople{s.data},
		Circles:   fakeCircles{s.data},
		Roles:     fakeRoles{s.data},
		Meetings:  fakeMeetings{s.data},
		Proposals: fakeProposals{s.data},
		History:   fakeHistory{s.data},
	}
}

func (s *fakeStore) InTx(_ context.Context, fn func(repository.Repos) error) error {
	snapshot := s.data.clone()
	if err := fn(s.Repos()); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

type fakePeople struct{ d *fakeData }

func (r fakePeople) Create(_ context.Context, person domain.Person) (domain.Person, error) {
	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}
	r.d.people[person.ID] = person
	return person, nil
}

func (r fakePeople) GetByID(_ context.Context, id uuid.UUID) (domain.Person, error) {
	person, ok := r.d.people[id]
	if !ok {
		return domain.Person{}, repository.ErrNotFound
	}
	return person, nil
}

func (r fakePeople) GetByUserAndWorkspace(_ context.Context, userID, workspaceID uuid.UUID) (domain.Person, error) {
	for _, person := range r.d.people {
		if person.UserID == userID && person.WorkspaceID == workspaceID {
			return person, nil
		}
	}
	return domain.Person{}, repository.ErrNotFound
}

type fakeCircles struct{ d *fakeData }

func (r fakeCircles) Create(_ context.Context, circle domain.Circle) (domain.Circle, error) {
	if circle.ID == uuid.Nil {
		circle.ID = uuid.New()
	}
	r.d.circles[circle.ID] = circle
	return circle, nil
}

func (r fakeCircles) GetByID(_ context.Context, id uuid.UUID) (domain.Circle, error) {
	circle, ok := r.d.circles[id]
	if !ok {
		return domain.Circle{}, repository.ErrNotFound
	}
	return circle, nil
}

func (r fakeCircles) Update(_ context.Context, circle domain.Circle) (domain.Circle, error) {
	if _, ok := r.d.circles[circle.ID]; !ok {
		return domain.Circle{}, repository.ErrNotFound
	}
	r.d.circles[circle.ID] = circle
	return circle, nil
}

func (r fakeCircles) ListSlugs(_ context.Context, workspaceID uuid.UUID) (map[string]struct{}, error) {
	slugs := make(map[string]struct{})
	for _, circle := range r.d.circles {
		if circle.WorkspaceID == workspaceID {
			slugs[circle.Slug] = struct{}{}
		}
	}
	return slugs, nil
}

type fakeRoles struct{ d *fakeData }

func (r fakeRoles) Create(_ context.Context, role domain.Role) (domain.Role, error) {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	r.d.roles[role.ID] = role
	return role, nil
}

func (r fakeRoles) GetByID(_ context.Context, id uuid.UUID) (domain.Role, error) {
	role, ok := r.d.roles[id]
	if !ok {
		return domain.Role{}, repository.ErrNotFound
	}
	return role, nil
}

func (r fakeRoles) Update(_ context.Context, role domain.Role) (domain.Role, error) {
	if _, ok := r.d.roles[role.ID]; !ok {
		return domain.Role{}, repository.ErrNotFound
	}
	r.d.roles[role.ID] = role
	return role, nil
}

type fakeMeetings struct{ d *fakeData }

func (r fakeMeetings) Create(_ context.Context, meeting domain.Meeting) (domain.Meeting, error) {
	if meeting.ID == uuid.Nil {
		meeting.ID = uuid.New()
	}
	r.d.meetings[meeting.ID] = meeting
	return meeting, nil
}

func (r fakeMeetings) GetByID(_ context.Context, id uuid.UUID) (domain.Meeting, error) {
	meeting, ok := r.d.meetings[id]
	if !ok {
		return domain.Meeting{}, repository.ErrNotFound
	}
	return meeting, nil
}

func (r fakeMeetings) ListAgendaItems(_ context.Context, meetingID uuid.UUID) ([]domain.AgendaItem, error) {
	var items []domain.AgendaItem
	for _, item := range r.d.agendaItems {
		if item.MeetingID == meetingID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Order < items[j].Order })
	return items, nil
}

func (r fakeMeetings) CreateAgendaItem(_ context.Context, item domain.AgendaItem) (domain.AgendaItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.d.agendaItems[item.ID] = item
	return item, nil
}

type fakeProposals struct{ d *fakeData }

func (r fakeProposals) Create(_ context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	r.d.proposals[proposal.ID] = proposal
	return proposal, nil
}

func (r fakeProposals) GetByID(_ context.Context, id uuid.UUID) (domain.Proposal, error) {
	proposal, ok := r.d.proposals[id]
	if !ok {
		return domain.Proposal{}, repository.ErrNotFound
	}
	return proposal, nil
}

func (r fakeProposals) GetByAgendaItem(_ context.Context, agendaItemID uuid.UUID) (domain.Proposal, error) {
	for _, proposal := range r.d.proposals {
		if proposal.AgendaItemID != nil && *proposal.AgendaItemID == agendaItemID {
			return proposal, nil
		}
	}
	return domain.Proposal{}, repository.ErrNotFound
}

func (r fakeProposals) Update(_ context.Context, proposal domain.Proposal) (domain.Proposal, error) {
	if _, ok := r.d.proposals[proposal.ID]; !ok {
		return domain.Proposal{}, repository.ErrNotFound
	}
	r.d.proposals[proposal.ID] = proposal
	return proposal, nil
}

func (r fakeProposals) list(match func(domain.Proposal) bool) []domain.Proposal {
	var proposals []domain.Proposal
	for _, proposal := range r.d.proposals {
		if match(proposal) {
			proposals = append(proposals, proposal)
		}
	}
	sort.Slice(proposals, func(i, j int) bool {
		return proposals[i].CreatedAt.After(proposals[j].CreatedAt)
	})
	return proposals
}

func (r fakeProposals) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(func(p domain.Proposal) bool { return p.WorkspaceID == workspaceID }), nil
}

func (r fakeProposals) ListByWorkspaceAndStatus(_ context.Context, workspaceID uuid.UUID, status domain.ProposalStatus) ([]domain.Proposal, error) {
	return r.list(func(p domain.Proposal) bool {
		return p.WorkspaceID == workspaceID && p.Status == status
	}), nil
}

func (r fakeProposals) ListByCircle(_ context.Context, circleID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(func(p domain.Proposal) bool {
		return p.CircleID != nil && *p.CircleID == circleID
	}), nil
}

func (r fakeProposals) ListByCreator(_ context.Context, personID uuid.UUID) ([]domain.Proposal, error) {
	return r.list(func(p domain.Proposal) bool { return p.CreatedBy == personID }), nil
}

func (r fakeProposals) AddEvolution(_ context.Context, evolution domain.Evolution) (domain.Evolution, error) {
	if evolution.ID == uuid.Nil {
		evolution.ID = uuid.New()
	}
	r.d.evolutions[evolution.ID] = evolution
	return evolution, nil
}

func (r fakeProposals) GetEvolution(_ context.Context, id uuid.UUID) (domain.Evolution, error) {
	evolution, ok := r.d.evolutions[id]
	if !ok {
		return domain.Evolution{}, repository.ErrNotFound
	}
	return evolution, nil
}

func (r fakeProposals) DeleteEvolution(_ context.Context, id uuid.UUID) error {
	if _, ok := r.d.evolutions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.d.evolutions, id)
	return nil
}

func (r fakeProposals) ListEvolutions(_ context.Context, proposalID uuid.UUID) ([]domain.Evolution, error) {
	var evolutions []domain.Evolution
	for _, evolution := range r.d.evolutions {
		if evolution.ProposalID == proposalID {
			evolutions = append(evolutions, evolution)
		}
	}
	sort.Slice(evolutions, func(i, j int) bool { return evolutions[i].Order < evolutions[j].Order })
	return evolutions, nil
}

func (r fakeProposals) CountEvolutions(ctx context.Context, proposalID uuid.UUID) (int, error) {
	evolutions, _ := r.ListEvolutions(ctx, proposalID)
	return len(evolutions), nil
}

func (r fakeProposals) ListObjections(_ context.Context, proposalID uuid.UUID) ([]domain.Objection, error) {
	var objections []domain.Objection
	for _, objection := range r.d.objections {
		if objection.ProposalID == proposalID {
			objections = append(objections, objection)
		}
	}
	return objections, nil
}

func (r fakeProposals) ListAttachments(_ context.Context, proposalID uuid.UUID) ([]domain.Attachment, error) {
	var attachments []domain.Attachment
	for _, attachment := range r.d.attachments {
		if attachment.ProposalID == proposalID {
			attachments = append(attachments, attachment)
		}
	}
	return attachments, nil
}

type fakeHistory struct{ d *fakeData }

func (r fakeHistory) Create(_ context.Context, entry domain.VersionHistoryEntry) (domain.VersionHistoryEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.d.history[entry.ID] = entry
	return entry, nil
}

func (r fakeHistory) GetByID(_ context.Context, id uuid.UUID) (domain.VersionHistoryEntry, error) {
	entry, ok := r.d.history[id]
	if !ok {
		return domain.VersionHistoryEntry{}, repository.ErrNotFound
	}
	return entry, nil
}

func (r fakeHistory) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]domain.VersionHistoryEntry, error) {
	var entries []domain.VersionHistoryEntry
	for _, entry := range r.d.history {
		if entry.WorkspaceID == workspaceID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	published []events.ProposalEvent
}

func (p *capturingPublisher) Publish(_ context.Context, event events.ProposalEvent) error {
	p.published = append(p.published, event)
	return nil
}
