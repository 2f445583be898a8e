package ports

import "context"

// EventPublisher notifies other systems about session lifecycle changes.
// Publishing is best-effort: callers log failures and carry on.
type EventPublisher interface {
	PublishRegistered(ctx context.Context, userID, email string) error
	PublishLoggedIn(ctx context.Context, userID string) error
	PublishLoggedOut(ctx context.Context, userID string) error
}
