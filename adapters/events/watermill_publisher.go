package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/NicholasPaulCarl/zarbitrage-adminauth/ports"
)

const (
	// IssuedTopic carries events for freshly issued credentials.
	IssuedTopic = "adminauth.credential.issued"

	// ClearedTopic carries events for cleared credentials, with the
	// reason the slot was emptied.
	ClearedTopic = "adminauth.credential.cleared"
)

// IssuedEvent announces a freshly issued credential.
type IssuedEvent struct {
	SubjectID int       `json:"subject_id"`
	Format    string    `json:"format"`
	At        time.Time `json:"at"`
}

// ClearedEvent announces that the stored credential was removed.
type ClearedEvent struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill-backed publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{publisher: publisher}
}

// PublishIssued publishes a credential-issued event.
func (p *WatermillPublisher) PublishIssued(ctx context.Context, subjectID int, format string) error {
	return p.publish(IssuedTopic, IssuedEvent{
		SubjectID: subjectID,
		Format:    format,
		At:        time.Now().UTC(),
	})
}

// PublishCleared publishes a credential-cleared event.
func (p *WatermillPublisher) PublishCleared(ctx context.Context, reason string) error {
	return p.publish(ClearedTopic, ClearedEvent{
		Reason: reason,
		At:     time.Now().UTC(),
	})
}

func (p *WatermillPublisher) publish(topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
