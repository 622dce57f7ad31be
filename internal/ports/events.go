package ports

import (
	"context"

	"github.com/google/uuid"
)

// OutboxEvent is a domain event captured inside the same database
// transaction as the state change it describes. An empty EventType means
// "no event" and repositories skip the enqueue.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error
}
