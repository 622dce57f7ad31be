package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/adapters/memory"
	"github.com/videarn/ledger-service/internal/ports"
)

type capturePublisher struct {
	mu        sync.Mutex
	published []string
	failWith  error
}

func (p *capturePublisher) Publish(_ context.Context, eventType string, _ []byte, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, eventType)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func enqueue(t *testing.T, outbox ports.OutboxRepository, eventType string) {
	t.Helper()
	err := outbox.Enqueue(context.Background(), ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: "account-1",
		Payload:      []byte(`{}`),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
}

func TestOutboxWorkerPublishesEachRecordOnce(t *testing.T) {
	t.Parallel()

	outbox := memory.NewStore().Outbox()
	publisher := &capturePublisher{}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, time.Second, 10, 30*time.Second, 5)

	enqueue(t, outbox, "claim.paid")
	enqueue(t, outbox, "withdrawal.approved")
	enqueue(t, outbox, "plan.activated")

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if publisher.count() != 3 {
		t.Fatalf("published = %d, want 3", publisher.count())
	}

	// A second sweep must not replay already-published records.
	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if publisher.count() != 3 {
		t.Fatalf("published after second sweep = %d, want 3", publisher.count())
	}
}

func TestOutboxWorkerRespectsBatchSize(t *testing.T) {
	t.Parallel()

	outbox := memory.NewStore().Outbox()
	publisher := &capturePublisher{}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, time.Second, 2, 30*time.Second, 5)

	for n := 0; n < 5; n++ {
		enqueue(t, outbox, "claim.paid")
	}

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if publisher.count() != 2 {
		t.Fatalf("published = %d, want batch of 2", publisher.count())
	}
}

func TestOutboxWorkerDeadLettersAfterMaxRetries(t *testing.T) {
	t.Parallel()

	outbox := memory.NewStore().Outbox()
	publisher := &capturePublisher{failWith: errors.New("broker unavailable")}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, time.Second, 10, 30*time.Second, 2)

	enqueue(t, outbox, "claim.paid")

	// Two failing sweeps exhaust the retry budget.
	for i := 0; i < 2; i++ {
		if err := worker.processOnce(context.Background()); err != nil {
			t.Fatalf("sweep %d: %v", i, err)
		}
	}

	publisher.mu.Lock()
	publisher.failWith = nil
	publisher.mu.Unlock()

	// The record is dead-lettered now; a healthy broker must not receive it.
	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("sweep after recovery: %v", err)
	}
	if publisher.count() != 0 {
		t.Fatalf("dead-lettered record was published %d times", publisher.count())
	}
}
