// Package events publishes proposal lifecycle notifications so other
// services (notifications, search indexing) can react without polling.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProposalEvent describes one lifecycle transition.
type ProposalEvent struct {
	Event       string     `json:"event"`
	ProposalID  uuid.UUID  `json:"proposalId"`
	WorkspaceID uuid.UUID  `json:"workspaceId"`
	Status      string     `json:"status"`
	ActorID     uuid.UUID  `json:"actorId"`
	OccurredAt  time.Time  `json:"occurredAt"`
	MeetingID   *uuid.UUID `json:"meetingId,omitempty"`
}

// Publisher emits proposal lifecycle events. Publishing is best
// effort: callers log failures but never fail the mutation over them.
type Publisher interface {
	Publish(ctx context.Context, event ProposalEvent) error
}

// NoopPublisher discards events; used when no broker is configured.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, ProposalEvent) error { return nil }
