package audit

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"go.uber.org/zap"
)

// Store defines the interface for persisting audit events.
type Store interface {
	SaveLinkCreated(ctx context.Context, event *LinkCreatedEvent) error
}

// NewLinkCreatedConsumer subscribes to TopicLinkCreated and hands each event to store.
func NewLinkCreatedConsumer(
	subscriber message.Subscriber, store Store, logger *zap.Logger,
) *messaging.Consumer[LinkCreatedEvent] {
	return messaging.NewConsumer[LinkCreatedEvent](subscriber, TopicLinkCreated, store.SaveLinkCreated, logger)
}
