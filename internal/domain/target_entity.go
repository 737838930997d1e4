package domain

import "github.com/google/uuid"

// TargetEntity abstracts over the two kinds of entity a proposal can
// change, so diffing and approval logic is written once instead of
// per variant.
type TargetEntity interface {
	EntityType() EntityType
	Workspace() uuid.UUID
	DisplayName() string

	// FieldValue returns the current value of a diffable field path
	// and whether the path is known.
	FieldValue(path string) (any, bool)

	// ApplyField sets a field from a decoded JSON value.
	ApplyField(path string, value any) error

	// Snapshot returns the audit allow-list view of the entity.
	Snapshot() map[string]any
}

var (
	_ TargetEntity = (*Circle)(nil)
	_ TargetEntity = (*Role)(nil)
)
