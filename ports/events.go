package ports

import "context"

// EventPublisher notifies other operator tooling about credential
// lifecycle changes.
type EventPublisher interface {
	PublishIssued(ctx context.Context, subjectID int, format string) error
	PublishCleared(ctx context.Context, reason string) error
}
