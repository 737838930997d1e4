// Package export renders a workspace's governance record as an xlsx
// workbook: proposals, their field changes, and decision outcomes.
package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"circlegov/internal/domain"
	"circlegov/internal/repository"
	"circlegov/internal/session"
)

const (
	sheetProposals = "Proposals"
	sheetChanges   = "Changes"
	sheetDecisions = "Decisions"
)

// Service builds workspace export workbooks.
type Service struct {
	store    repository.Store
	sessions session.Store
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the service clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an export service.
func NewService(store repository.Store, sessions session.Store, opts ...Option) *Service {
	service := &Service{
		store:    store,
		sessions: sessions,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// Workbook is a rendered export plus its suggested file name.
type Workbook struct {
	File     *excelize.File
	FileName string
}

// ExportWorkspace renders every proposal in the workspace. The caller
// must be an active member.
func (s *Service) ExportWorkspace(ctx context.Context, token string, workspaceID uuid.UUID) (Workbook, error) {
	repos := s.store.Repos()

	userID, err := s.sessions.Validate(ctx, token)
	if err != nil {
		return Workbook{}, err
	}
	person, err := repos.People.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil || !person.IsActive() {
		return Workbook{}, domain.NewError(domain.CodeWorkspaceAccessDenied, "You do not have access to this workspace")
	}

	proposals, err := repos.Proposals.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return Workbook{}, fmt.Errorf("list proposals: %w", err)
	}

	file := excelize.NewFile()
	file.SetSheetName(file.GetSheetName(0), sheetProposals)
	if _, err := file.NewSheet(sheetChanges); err != nil {
		return Workbook{}, fmt.Errorf("create changes sheet: %w", err)
	}
	if _, err := file.NewSheet(sheetDecisions); err != nil {
		return Workbook{}, fmt.Errorf("create decisions sheet: %w", err)
	}

	if err := writeRow(file, sheetProposals, 1,
		"ID", "Title", "Status", "Entity Type", "Created By", "Created At", "Submitted At", "Processed At"); err != nil {
		return Workbook{}, err
	}
	if err := writeRow(file, sheetChanges, 1,
		"Proposal ID", "Proposal Title", "Field", "Change Type", "Before", "After", "Order"); err != nil {
		return Workbook{}, err
	}
	if err := writeRow(file, sheetDecisions, 1,
		"Proposal ID", "Proposal Title", "Outcome", "Decided By", "Decided At", "Audit Entry"); err != nil {
		return Workbook{}, err
	}

	proposalRow := 2
	changeRow := 2
	decisionRow := 2
	for _, proposal := range proposals {
		if err := writeRow(file, sheetProposals, proposalRow,
			proposal.ID.String(),
			proposal.Title,
			string(proposal.Status),
			string(proposal.EntityType),
			proposal.CreatedBy.String(),
			formatTime(&proposal.CreatedAt),
			formatTime(proposal.SubmittedAt),
			formatTime(proposal.ProcessedAt),
		); err != nil {
			return Workbook{}, err
		}
		proposalRow++

		evolutions, err := repos.Proposals.ListEvolutions(ctx, proposal.ID)
		if err != nil {
			return Workbook{}, fmt.Errorf("list evolutions for %s: %w", proposal.ID, err)
		}
		for _, evolution := range evolutions {
			if err := writeRow(file, sheetChanges, changeRow,
				proposal.ID.String(),
				proposal.Title,
				evolution.FieldLabel,
				string(evolution.ChangeType),
				deref(evolution.BeforeValue),
				deref(evolution.AfterValue),
				evolution.Order,
			); err != nil {
				return Workbook{}, err
			}
			changeRow++
		}

		if proposal.Status != domain.StatusApproved && proposal.Status != domain.StatusRejected {
			continue
		}
		var decidedBy, auditEntry string
		if proposal.ProcessedBy != nil {
			decidedBy = proposal.ProcessedBy.String()
		}
		if proposal.VersionHistoryEntryID != nil {
			auditEntry = proposal.VersionHistoryEntryID.String()
		}
		if err := writeRow(file, sheetDecisions, decisionRow,
			proposal.ID.String(),
			proposal.Title,
			string(proposal.Status),
			decidedBy,
			formatTime(proposal.ProcessedAt),
			auditEntry,
		); err != nil {
			return Workbook{}, err
		}
		decisionRow++
	}

	name := fmt.Sprintf("governance-%s-%s.xlsx",
		sanitizeFileComponent(workspaceID.String()),
		s.now().UTC().Format("2006-01-02"))
	return Workbook{File: file, FileName: name}, nil
}

func writeRow(file *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("build cell reference: %w", err)
	}
	if err := file.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func sanitizeFileComponent(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	builder := strings.Builder{}
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-' || r == '_':
			builder.WriteRune(r)
		default:
			builder.WriteRune('-')
		}
	}
	result := strings.Trim(builder.String(), "-")
	if result == "" {
		return "export"
	}
	return result
}
