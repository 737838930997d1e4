package api

import (
	"time"

	"github.com/google/uuid"

	"circlegov/internal/domain"
	"circlegov/internal/proposal"
)

// proposalPayload is the wire shape of a proposal.
type proposalPayload struct {
	ID                    uuid.UUID             `json:"id"`
	WorkspaceID           uuid.UUID             `json:"workspaceId"`
	EntityType            domain.EntityType     `json:"entityType"`
	EntityID              uuid.UUID             `json:"entityId"`
	CircleID              *uuid.UUID            `json:"circleId,omitempty"`
	Title                 string                `json:"title"`
	Description           string                `json:"description,omitempty"`
	Status                domain.ProposalStatus `json:"status"`
	CreatedBy             uuid.UUID             `json:"createdBy"`
	MeetingID             *uuid.UUID            `json:"meetingId,omitempty"`
	AgendaItemID          *uuid.UUID            `json:"agendaItemId,omitempty"`
	SubmittedAt           *time.Time            `json:"submittedAt,omitempty"`
	ProcessedAt           *time.Time            `json:"processedAt,omitempty"`
	ProcessedBy           *uuid.UUID            `json:"processedBy,omitempty"`
	VersionHistoryEntryID *uuid.UUID            `json:"versionHistoryEntryId,omitempty"`
	CreatedAt             time.Time             `json:"createdAt"`
	UpdatedAt             time.Time             `json:"updatedAt"`
}

func toProposalPayload(p domain.Proposal) proposalPayload {
	return proposalPayload{
		ID:                    p.ID,
		WorkspaceID:           p.WorkspaceID,
		EntityType:            p.EntityType,
		EntityID:              p.EntityID,
		CircleID:              p.CircleID,
		Title:                 p.Title,
		Description:           p.Description,
		Status:                p.Status,
		CreatedBy:             p.CreatedBy,
		MeetingID:             p.MeetingID,
		AgendaItemID:          p.AgendaItemID,
		SubmittedAt:           p.SubmittedAt,
		ProcessedAt:           p.ProcessedAt,
		ProcessedBy:           p.ProcessedBy,
		VersionHistoryEntryID: p.VersionHistoryEntryID,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func toProposalPayloads(proposals []domain.Proposal) []proposalPayload {
	payloads := make([]proposalPayload, 0, len(proposals))
	for _, p := range proposals {
		payloads = append(payloads, toProposalPayload(p))
	}
	return payloads
}

type evolutionPayload struct {
	ID          uuid.UUID         `json:"id"`
	ProposalID  uuid.UUID         `json:"proposalId"`
	FieldPath   string            `json:"fieldPath"`
	FieldLabel  string            `json:"fieldLabel"`
	BeforeValue *string           `json:"beforeValue,omitempty"`
	AfterValue  *string           `json:"afterValue,omitempty"`
	ChangeType  domain.ChangeType `json:"changeType"`
	Order       int               `json:"order"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toEvolutionPayload(e domain.Evolution) evolutionPayload {
	return evolutionPayload{
		ID:          e.ID,
		ProposalID:  e.ProposalID,
		FieldPath:   e.FieldPath,
		FieldLabel:  e.FieldLabel,
		BeforeValue: e.BeforeValue,
		AfterValue:  e.AfterValue,
		ChangeType:  e.ChangeType,
		Order:       e.Order,
		CreatedAt:   e.CreatedAt,
	}
}

type objectionPayload struct {
	ID        uuid.UUID `json:"id"`
	RaisedBy  uuid.UUID `json:"raisedBy"`
	Summary   string    `json:"summary"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type attachmentPayload struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"fileName"`
	URL       string    `json:"url"`
	AddedBy   uuid.UUID `json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type detailsPayload struct {
	proposalPayload
	Evolutions   []evolutionPayload   `json:"evolutions"`
	Objections   []objectionPayload   `json:"objections"`
	Attachments  []attachmentPayload  `json:"attachments"`
	Creator      *domain.PersonRef    `json:"creator,omitempty"`
	TargetEntity *proposal.TargetRef  `json:"targetEntity,omitempty"`
}

func toDetailsPayload(details *proposal.Details) detailsPayload {
	payload := detailsPayload{
		proposalPayload: toProposalPayload(details.Proposal),
		Evolutions:      make([]evolutionPayload, 0, len(details.Evolutions)),
		Objections:      make([]objectionPayload, 0, len(details.Objections)),
		Attachments:     make([]attachmentPayload, 0, len(details.Attachments)),
		Creator:         details.Creator,
		TargetEntity:    details.TargetEntity,
	}
	for _, e := range details.Evolutions {
		payload.Evolutions = append(payload.Evolutions, toEvolutionPayload(e))
	}
	for _, o := range details.Objections {
		payload.Objections = append(payload.Objections, objectionPayload{
			ID: o.ID, RaisedBy: o.RaisedBy, Summary: o.Summary, Status: o.Status, CreatedAt: o.CreatedAt,
		})
	}
	for _, a := range details.Attachments {
		payload.Attachments = append(payload.Attachments, attachmentPayload{
			ID: a.ID, FileName: a.FileName, URL: a.URL, AddedBy: a.AddedBy, CreatedAt: a.CreatedAt,
		})
	}
	return payload
}
