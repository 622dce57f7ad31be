package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, tx domain.Transaction) error {
	rec := transactionModel{
		TransactionID:    tx.TransactionID,
		AccountID:        tx.AccountID,
		PlanID:           tx.PlanID,
		Amount:           tx.Amount,
		PaymentReference: tx.PaymentReference,
		ProofURL:         tx.ProofURL,
		Status:           string(tx.Status),
		CreatedAt:        tx.CreatedAt,
	}
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (domain.Transaction, error) {
	var rec transactionModel
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Transaction{}, domain.ErrNotFound
		}
		return domain.Transaction{}, err
	}
	return toDomainTransaction(rec), nil
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("account_id = ?", accountID), limit, offset)
}

func (r *transactionRepository) ListByStatus(ctx context.Context, status domain.TransactionStatus, limit, offset int) ([]domain.Transaction, int, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("status = ?", string(status)), limit, offset)
}

func (r *transactionRepository) list(_ context.Context, scope *gorm.DB, limit, offset int) ([]domain.Transaction, int, error) {
	var total int64
	if err := scope.Model(&transactionModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []transactionModel
	if err := scope.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTransaction(row))
	}
	return out, int(total), nil
}

// ApproveAndActivatePlan flips the transaction to approved and writes the plan
// activation onto the account in one database transaction. The status flip is
// guarded by WHERE status = 'pending' so a concurrent double decision loses on
// row count instead of overwriting a terminal state.
func (r *transactionRepository) ApproveAndActivatePlan(ctx context.Context, params ports.PlanActivationParams, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&transactionModel{}).
			Where("transaction_id = ? AND status = ?", params.TransactionID, string(domain.TransactionStatusPending)).
			Updates(map[string]any{
				"status":     string(domain.TransactionStatusApproved),
				"decided_by": params.DecidedBy,
				"decided_at": params.ActivatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.decisionConflict(tx, params.TransactionID)
		}

		res = tx.Model(&accountModel{}).
			Where("account_id = ?", params.AccountID).
			Updates(map[string]any{
				"active_plan_id":          params.PlanID,
				"plan_activated_at":       params.ActivatedAt,
				"first_plan_activated_at": gorm.Expr("COALESCE(first_plan_activated_at, ?)", params.ActivatedAt),
				"updated_at":              params.ActivatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return enqueueOutboxTx(tx, outboxEvent, params.ActivatedAt)
	})
}

func (r *transactionRepository) Reject(ctx context.Context, transactionID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&transactionModel{}).
			Where("transaction_id = ? AND status = ?", transactionID, string(domain.TransactionStatusPending)).
			Updates(map[string]any{
				"status":     string(domain.TransactionStatusRejected),
				"decided_by": decidedBy,
				"decided_at": decidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.decisionConflict(tx, transactionID)
		}
		return enqueueOutboxTx(tx, outboxEvent, decidedAt)
	})
}

// decisionConflict distinguishes a missing transaction from one already
// decided, so the caller can report 404 vs 409.
func (r *transactionRepository) decisionConflict(tx *gorm.DB, transactionID uuid.UUID) error {
	var total int64
	if err := tx.Model(&transactionModel{}).
		Where("transaction_id = ?", transactionID).
		Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrTransactionNotPending
}
