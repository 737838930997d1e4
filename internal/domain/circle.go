package domain

import (
	"time"

	"github.com/google/uuid"
)

// Circle is a workspace-scoped organizational unit.
type Circle struct {
	ID                 uuid.UUID
	WorkspaceID        uuid.UUID
	Name               string
	Slug               string
	Purpose            string
	ParentCircleID     *uuid.UUID
	Status             string
	CircleType         string
	DecisionModel      string
	RepresentsToParent bool
	ArchivedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	UpdatedBy          *uuid.UUID
}

// EntityType implements TargetEntity.
func (c *Circle) EntityType() EntityType { return EntityTypeCircle }

// Workspace implements TargetEntity.
func (c *Circle) Workspace() uuid.UUID { return c.WorkspaceID }

// DisplayName implements TargetEntity.
func (c *Circle) DisplayName() string { return c.Name }

// FieldValue implements TargetEntity for the fields proposals may
// diff against.
func (c *Circle) FieldValue(path string) (any, bool) {
	switch path {
	case "name":
		return c.Name, true
	case "purpose":
		return c.Purpose, true
	case "status":
		return c.Status, true
	case "circleType":
		return c.CircleType, true
	case "decisionModel":
		return c.DecisionModel, true
	case "representsToParent":
		return c.RepresentsToParent, true
	case "parentCircleId":
		if c.ParentCircleID == nil {
			return nil, true
		}
		return c.ParentCircleID.String(), true
	}
	return nil, false
}

// ApplyField implements TargetEntity. Values arrive as decoded JSON.
func (c *Circle) ApplyField(path string, value any) error {
	switch path {
	case "name":
		name, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field name expects a string, got %T", value)
		}
		c.Name = name
	case "purpose":
		purpose, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field purpose expects a string, got %T", value)
		}
		c.Purpose = purpose
	case "status":
		status, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field status expects a string, got %T", value)
		}
		c.Status = status
	case "circleType":
		circleType, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field circleType expects a string, got %T", value)
		}
		c.CircleType = circleType
	case "decisionModel":
		model, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field decisionModel expects a string, got %T", value)
		}
		c.DecisionModel = model
	case "representsToParent":
		represents, ok := value.(bool)
		if !ok {
			return NewErrorf(CodeGenericError, "field representsToParent expects a bool, got %T", value)
		}
		c.RepresentsToParent = represents
	case "parentCircleId":
		if value == nil {
			c.ParentCircleID = nil
			return nil
		}
		raw, ok := value.(string)
		if !ok {
			return NewErrorf(CodeGenericError, "field parentCircleId expects an id string, got %T", value)
		}
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return NewErrorf(CodeGenericError, "field parentCircleId is not a valid id: %v", err)
		}
		c.ParentCircleID = &parentID
	default:
		return NewErrorf(CodeGenericError, "unsupported circle field path %q", path)
	}
	return nil
}

// Snapshot implements TargetEntity: the audit allow-list for circles.
func (c *Circle) Snapshot() map[string]any {
	var parentID any
	if c.ParentCircleID != nil {
		parentID = c.ParentCircleID.String()
	}
	var archivedAt any
	if c.ArchivedAt != nil {
		archivedAt = c.ArchivedAt.UTC().Format(time.RFC3339)
	}
	return map[string]any{
		"name":           c.Name,
		"slug":           c.Slug,
		"purpose":        c.Purpose,
		"parentCircleId": parentID,
		"status":         c.Status,
		"circleType":     c.CircleType,
		"decisionModel":  c.DecisionModel,
		"archivedAt":     archivedAt,
	}
}
