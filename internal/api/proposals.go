package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"circlegov/internal/auth"
	"circlegov/internal/domain"
	"circlegov/internal/proposal"
)

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return domain.NewErrorf(domain.CodeValidationRequiredField, "invalid request body: %v", err)
	}
	return nil
}

func (h *Handler) createProposal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID uuid.UUID `json:"workspaceId"`
		EntityType  string    `json:"entityType"`
		EntityID    uuid.UUID `json:"entityId"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := auth.EnforceWorkspaceScope(r.Context(), body.WorkspaceID); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.proposals.Create(r.Context(), sessionToken(r), proposal.CreateInput{
		WorkspaceID: body.WorkspaceID,
		EntityType:  domain.EntityType(body.EntityType),
		EntityID:    body.EntityID,
		Title:       body.Title,
		Description: body.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProposalPayload(created))
}

func (h *Handler) createFromDiff(w http.ResponseWriter, r *http.Request) {
	var body struct {
		WorkspaceID uuid.UUID      `json:"workspaceId"`
		EntityType  string         `json:"entityType"`
		EntityID    uuid.UUID      `json:"entityId"`
		Title       string         `json:"title"`
		Description string         `json:"description"`
		Edited      map[string]any `json:"edited"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if err := auth.EnforceWorkspaceScope(r.Context(), body.WorkspaceID); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.proposals.CreateFromDiff(r.Context(), sessionToken(r), proposal.CreateFromDiffInput{
		WorkspaceID: body.WorkspaceID,
		EntityType:  domain.EntityType(body.EntityType),
		EntityID:    body.EntityID,
		Title:       body.Title,
		Description: body.Description,
		Edited:      body.Edited,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProposalPayload(created))
}

func (h *Handler) listProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	workspaceID, err := uuid.Parse(query.Get("workspaceId"))
	if err != nil {
		writeError(w, domain.NewError(domain.CodeValidationRequiredField, "workspaceId is required"))
		return
	}
	if err := auth.EnforceWorkspaceScope(r.Context(), workspaceID); err != nil {
		writeError(w, err)
		return
	}

	opts := proposal.ListOptions{}
	if raw := query.Get("status"); raw != "" {
		status := domain.ProposalStatus(raw)
		if !domain.IsValidStatus(status) {
			writeError(w, domain.NewErrorf(domain.CodeValidationRequiredField, "unknown status %q", raw))
			return
		}
		opts.Status = &status
	}
	if raw := query.Get("circleId"); raw != "" {
		circleID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, domain.NewErrorf(domain.CodeValidationRequiredField, "invalid circleId: %v", err))
			return
		}
		opts.CircleID = &circleID
	}
	if raw := query.Get("creatorId"); raw != "" {
		creatorID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, domain.NewErrorf(domain.CodeValidationRequiredField, "invalid creatorId: %v", err))
			return
		}
		opts.CreatorID = &creatorID
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, domain.NewErrorf(domain.CodeValidationRequiredField, "invalid limit %q", raw))
			return
		}
		opts.Limit = limit
	}

	proposals, err := h.proposals.List(r.Context(), sessionToken(r), workspaceID, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayloads(proposals))
}

func (h *Handler) listMyDrafts(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := uuid.Parse(r.URL.Query().Get("workspaceId"))
	if err != nil {
		writeError(w, domain.NewError(domain.CodeValidationRequiredField, "workspaceId is required"))
		return
	}
	if err := auth.EnforceWorkspaceScope(r.Context(), workspaceID); err != nil {
		writeError(w, err)
		return
	}

	drafts, err := h.proposals.ListMyDrafts(r.Context(), sessionToken(r), workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayloads(drafts))
}

func (h *Handler) getProposal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.proposals.Get(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if details == nil {
		writeError(w, domain.NewError(domain.CodeProposalNotFound, "Proposal not found"))
		return
	}
	writeJSON(w, http.StatusOK, toDetailsPayload(details))
}

func (h *Handler) addEvolution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		FieldPath   string  `json:"fieldPath"`
		FieldLabel  string  `json:"fieldLabel"`
		BeforeValue *string `json:"beforeValue"`
		AfterValue  *string `json:"afterValue"`
		ChangeType  string  `json:"changeType"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.proposals.AddEvolution(r.Context(), sessionToken(r), proposal.AddEvolutionInput{
		ProposalID:  id,
		FieldPath:   body.FieldPath,
		FieldLabel:  body.FieldLabel,
		BeforeValue: body.BeforeValue,
		AfterValue:  body.AfterValue,
		ChangeType:  domain.ChangeType(body.ChangeType),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEvolutionPayload(created))
}

func (h *Handler) removeEvolution(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.proposals.RemoveEvolution(r.Context(), sessionToken(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) submitProposal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		MeetingID uuid.UUID `json:"meetingId"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}

	submitted, err := h.proposals.Submit(r.Context(), sessionToken(r), id, body.MeetingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayload(submitted))
}

func (h *Handler) withdrawProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.proposals.Withdraw)
}

func (h *Handler) startProcessing(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.proposals.StartProcessing)
}

func (h *Handler) approveProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.proposals.Approve)
}

func (h *Handler) rejectProposal(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.proposals.Reject)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, run func(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error)) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	updated, err := run(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayload(updated))
}

func (h *Handler) listImportCandidates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	candidates, err := h.proposals.ListForMeetingImport(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayloads(candidates))
}

func (h *Handler) importProposals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var body struct {
		ProposalIDs []uuid.UUID `json:"proposalIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if len(body.ProposalIDs) == 0 {
		writeError(w, domain.NewError(domain.CodeValidationRequiredField, "proposalIds is required"))
		return
	}

	imported, err := h.proposals.ImportToMeeting(r.Context(), sessionToken(r), id, body.ProposalIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayloads(imported))
}

func (h *Handler) getByAgendaItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	found, err := h.proposals.GetByAgendaItem(r.Context(), sessionToken(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if found == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayload(*found))
}

func (h *Handler) listCircleProposals(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	includeTerminal := r.URL.Query().Get("includeTerminal") == "true"

	proposals, err := h.proposals.ListByCircle(r.Context(), sessionToken(r), id, includeTerminal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProposalPayloads(proposals))
}
