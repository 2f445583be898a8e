package events

import (
	"context"

	"github.com/taskdeck/taskdeck/ports"
)

// NopPublisher discards all events. Used when no event stream is configured.
type NopPublisher struct{}

// NewNopPublisher creates a publisher that drops everything.
func NewNopPublisher() ports.EventPublisher {
	return NopPublisher{}
}

func (NopPublisher) PublishRegistered(ctx context.Context, userID, email string) error { return nil }
func (NopPublisher) PublishLoggedIn(ctx context.Context, userID string) error          { return nil }
func (NopPublisher) PublishLoggedOut(ctx context.Context, userID string) error         { return nil }
