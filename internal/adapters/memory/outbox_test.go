package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/adapters/memory"
	"github.com/videarn/ledger-service/internal/ports"
)

func TestOutboxClaimDeadline(t *testing.T) {
	t.Parallel()
	outbox := memory.NewStore().Outbox()
	ctx := context.Background()

	event := ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "claim.paid",
		PartitionKey: "account-1",
		Payload:      []byte(`{}`),
	}
	if err := outbox.Enqueue(ctx, event); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// Worker A claims the record but its deadline is already behind us,
	// as if the process died mid-sweep.
	got, err := outbox.ClaimUnpublished(ctx, 10, "worker-a", time.Now().UTC().Add(-time.Second))
	if err != nil {
		t.Fatalf("claim as worker-a: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("worker-a claimed %d records, want 1", len(got))
	}
	outboxID := got[0].OutboxID

	// The lapsed deadline makes the record fair game for worker B.
	got, err = outbox.ClaimUnpublished(ctx, 10, "worker-b", time.Now().UTC().Add(30*time.Second))
	if err != nil {
		t.Fatalf("claim as worker-b: %v", err)
	}
	if len(got) != 1 || got[0].OutboxID != outboxID {
		t.Fatalf("worker-b reclaimed %d records, want the lapsed one", len(got))
	}

	// While worker B's claim is live, nobody else gets the record.
	got, err = outbox.ClaimUnpublished(ctx, 10, "worker-c", time.Now().UTC().Add(30*time.Second))
	if err != nil {
		t.Fatalf("claim as worker-c: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("worker-c claimed %d records while worker-b's claim is live, want 0", len(got))
	}

	// A published record never circulates again.
	if err := outbox.MarkPublished(ctx, outboxID, time.Now().UTC()); err != nil {
		t.Fatalf("mark published: %v", err)
	}
	got, err = outbox.ClaimUnpublished(ctx, 10, "worker-d", time.Now().UTC().Add(30*time.Second))
	if err != nil {
		t.Fatalf("claim after publish: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("claimed %d published records, want 0", len(got))
	}
}
