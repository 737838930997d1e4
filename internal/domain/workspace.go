package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace represents a tenant in the system.
type Workspace struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PersonStatus enumerates membership states.
type PersonStatus string

const (
	PersonStatusActive   PersonStatus = "active"
	PersonStatusInactive PersonStatus = "inactive"
)

// Person is a user's membership in one workspace. Sessions resolve to
// a user id; workspace-scoped operations act through the person.
type Person struct {
	ID          uuid.UUID
	WorkspaceID uuid.UUID
	UserID      uuid.UUID
	Name        string
	Email       string
	Status      PersonStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the person may act in their workspace.
func (p Person) IsActive() bool {
	return p.Status == PersonStatusActive
}

// PersonRef is the minimal creator projection returned by queries.
type PersonRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Ref returns the minimal projection of a person.
func (p Person) Ref() PersonRef {
	return PersonRef{ID: p.ID, Name: p.Name, Email: p.Email}
}
