// Package api exposes the proposal lifecycle over JSON HTTP. Callers
// authenticate with a session token in the X-Session-Id header.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"circlegov/internal/domain"
	"circlegov/internal/export"
	"circlegov/internal/proposal"
)

const sessionHeader = "X-Session-Id"

// ProposalService is the slice of the proposal service the handlers
// consume.
type ProposalService interface {
	Create(ctx context.Context, token string, input proposal.CreateInput) (domain.Proposal, error)
	CreateFromDiff(ctx context.Context, token string, input proposal.CreateFromDiffInput) (domain.Proposal, error)
	AddEvolution(ctx context.Context, token string, input proposal.AddEvolutionInput) (domain.Evolution, error)
	RemoveEvolution(ctx context.Context, token string, evolutionID uuid.UUID) error
	Withdraw(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error)
	Submit(ctx context.Context, token string, proposalID, meetingID uuid.UUID) (domain.Proposal, error)
	StartProcessing(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error)
	Approve(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error)
	Reject(ctx context.Context, token string, proposalID uuid.UUID) (domain.Proposal, error)
	ImportToMeeting(ctx context.Context, token string, meetingID uuid.UUID, proposalIDs []uuid.UUID) ([]domain.Proposal, error)
	List(ctx context.Context, token string, workspaceID uuid.UUID, opts proposal.ListOptions) ([]domain.Proposal, error)
	Get(ctx context.Context, token string, proposalID uuid.UUID) (*proposal.Details, error)
	GetByAgendaItem(ctx context.Context, token string, agendaItemID uuid.UUID) (*domain.Proposal, error)
	ListByCircle(ctx context.Context, token string, circleID uuid.UUID, includeTerminal bool) ([]domain.Proposal, error)
	ListMyDrafts(ctx context.Context, token string, workspaceID uuid.UUID) ([]domain.Proposal, error)
	ListForMeetingImport(ctx context.Context, token string, meetingID uuid.UUID) ([]domain.Proposal, error)
}

// ExportService renders workspace export workbooks.
type ExportService interface {
	ExportWorkspace(ctx context.Context, token string, workspaceID uuid.UUID) (export.Workbook, error)
}

// Handler routes the proposal API.
type Handler struct {
	proposals ProposalService
	exports   ExportService
	log       zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(proposals ProposalService, exports ExportService, log zerolog.Logger) *Handler {
	return &Handler{proposals: proposals, exports: exports, log: log}
}

// Routes returns the API route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/proposals", h.createProposal)
	mux.HandleFunc("POST /api/proposals/from-diff", h.createFromDiff)
	mux.HandleFunc("GET /api/proposals", h.listProposals)
	mux.HandleFunc("GET /api/proposals/drafts", h.listMyDrafts)
	mux.HandleFunc("GET /api/proposals/{id}", h.getProposal)
	mux.HandleFunc("POST /api/proposals/{id}/evolutions", h.addEvolution)
	mux.HandleFunc("DELETE /api/evolutions/{id}", h.removeEvolution)
	mux.HandleFunc("POST /api/proposals/{id}/submit", h.submitProposal)
	mux.HandleFunc("POST /api/proposals/{id}/withdraw", h.withdrawProposal)
	mux.HandleFunc("POST /api/proposals/{id}/start-processing", h.startProcessing)
	mux.HandleFunc("POST /api/proposals/{id}/approve", h.approveProposal)
	mux.HandleFunc("POST /api/proposals/{id}/reject", h.rejectProposal)

	mux.HandleFunc("GET /api/meetings/{id}/import-candidates", h.listImportCandidates)
	mux.HandleFunc("POST /api/meetings/{id}/import-proposals", h.importProposals)
	mux.HandleFunc("GET /api/agenda-items/{id}/proposal", h.getByAgendaItem)
	mux.HandleFunc("GET /api/circles/{id}/proposals", h.listCircleProposals)

	mux.HandleFunc("GET /api/workspaces/{id}/export", h.exportWorkspace)

	return mux
}

func sessionToken(r *http.Request) string {
	return r.Header.Get(sessionHeader)
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewErrorf(domain.CodeValidationRequiredField, "invalid id: %v", err)
	}
	return id, nil
}
