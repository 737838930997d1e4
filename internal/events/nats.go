package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "governance.proposal."

// NATSPublisher emits proposal events on governance.proposal.<event>.
type NATSPublisher struct {
	conn *nats.Conn
}

// NewNATSPublisher connects to a NATS server.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("circlegov"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(_ context.Context, event ProposalEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal proposal event: %w", err)
	}
	if err := p.conn.Publish(subjectPrefix+event.Event, payload); err != nil {
		return fmt.Errorf("failed to publish proposal event: %w", err)
	}
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Drain() //nolint:errcheck
	}
}
