package application

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/ports"
)

const sourceService = "videarn-ledger-service"

// newOutboxEvent wraps a payload in the shared event envelope. Repositories
// enqueue the event inside the same transaction as the state change.
func newOutboxEvent(eventType, partitionKey string, occurredAt time.Time, payload any) ports.OutboxEvent {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(`{}`)
	}
	envelope := contracts.EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OccurredAt:    occurredAt,
		PartitionKey:  partitionKey,
		SourceService: sourceService,
		SchemaVersion: "1.0",
		Data:          data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		body = data
	}
	return ports.OutboxEvent{
		EventID:      uuid.MustParse(envelope.EventID),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      body,
	}
}
