package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role belongs to a circle and can be filled by people.
type Role struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	CircleID    uuid.UUID
	Name        string
	Purpose     string
	TemplateID  *uuid.UUID
	Status      string
	IsHiring    bool
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UpdatedBy   *uuid.UUID
}

// EntityType implements TargetEntity.
func (r *Role) EntityType() EntityType { return EntityTypeRole }

// Workspace implements TargetEntity.
func (r *Role) Workspace() uuid.UUID { return r.WorkspaceID }

// DisplayName implements TargetEntity.
func (r *Role) DisplayName() string { return r.Name }

// FieldValue implements TargetEntity.
func (r *Role) FieldValue(path string) (any, bool) {
	switch path {
	case "name":
		return r.Name, true
	case "purpose":
		return r.Purpose, true
	case "status":
		return r.Status, true
	case "isHiring":
		return r.IsHiring, true
	}
	return nil, false
}

// ApplyField implements TargetEntity. Values arrive as decoded JSON.
func (r *Role) ApplyField(path string, value any) error {
	switch path {
	case "name":
		name, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field name expects a string, got %T", value)
		}
		r.Name = name
	case "purpose":
		purpose, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field purpose expects a string, got %T", value)
		}
		r.Purpose = purpose
	case "status":
		status, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field status expects a string, got %T", value)
		}
		r.Status = status
	case "isHiring":
		hiring, ok := value.(bool)
		if !ok {
			return NewErrorf(CodeGenericError, "field isHiring expects a bool, got %T", value)
		}
		r.IsHiring = hiring
	default:
		return NewErrorf(CodeGenericError, "unsupported role field path %q", path)
	}
	return nil
}

// Snapshot implements TargetEntity: the audit allow-list for roles.
func (r *Role) Snapshot() map[string]any {
	var templateID any
	if r.TemplateID != nil {
		templateID = r.TemplateID.String()
	}
	var archivedAt any
	if r.ArchivedAt != nil {
		archivedAt = r.ArchivedAt.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"circleId":   r.CircleID.String(),
		"name":       r.Name,
		"purpose":    r.Purpose,
		"templateId": templateID,
		"status":     r.Status,
		"isHiring":   r.IsHiring,
		"archivedAt": archivedAt,
	}
}
