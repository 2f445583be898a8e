package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/ports"
)

// Topic for session lifecycle events.
const SessionsTopic = "taskdeck.sessions"

// Event names carried in SessionEvent.
const (
	EventRegistered = "registered"
	EventLoggedIn   = "logged_in"
	EventLoggedOut  = "logged_out"
)

// SessionEvent is the payload published for session lifecycle changes.
type SessionEvent struct {
	Event  string    `json:"event"`
	UserID string    `json:"user_id"`
	Email  string    `json:"email,omitempty"`
	At     time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
	topic     string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
		topic:     SessionsTopic,
	}
}

// PublishRegistered publishes a registration event.
func (p *WatermillPublisher) PublishRegistered(ctx context.Context, userID, email string) error {
	return p.publish(SessionEvent{Event: EventRegistered, UserID: userID, Email: email, At: time.Now()})
}

// PublishLoggedIn publishes a login event.
func (p *WatermillPublisher) PublishLoggedIn(ctx context.Context, userID string) error {
	return p.publish(SessionEvent{Event: EventLoggedIn, UserID: userID, At: time.Now()})
}

// PublishLoggedOut publishes a logout event.
func (p *WatermillPublisher) PublishLoggedOut(ctx context.Context, userID string) error {
	return p.publish(SessionEvent{Event: EventLoggedOut, UserID: userID, At: time.Now()})
}

func (p *WatermillPublisher) publish(event SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
