package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/videarn/ledger-service/internal/ports"
)

type Repositories struct {
	Accounts    ports.AccountRepository
	Plans       ports.PlanRepository
	Videos      ports.VideoRepository
	Watches     ports.WatchRepository
	Claims      ports.ClaimRepository
	Purchases   ports.TransactionRepository
	Withdrawals ports.WithdrawalRepository
	Outbox      ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Accounts:    &accountRepository{db: db},
		Plans:       &planRepository{db: db},
		Videos:      &videoRepository{db: db},
		Watches:     &watchRepository{db: db},
		Claims:      &claimRepository{db: db},
		Purchases:   &transactionRepository{db: db},
		Withdrawals: &withdrawalRepository{db: db},
		Outbox:      &outboxRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// enqueueOutboxTx writes an outbox row inside the caller's transaction so
// the event commits or rolls back together with the state change it
// describes. A zero-valued event is a no-op.
func enqueueOutboxTx(tx *gorm.DB, event ports.OutboxEvent, at time.Time) error {
	if event.EventType == "" {
		return nil
	}
	rec := outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      string(event.Payload),
		CreatedAt:    at,
	}
	return tx.Create(&rec).Error
}
