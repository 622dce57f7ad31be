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

type withdrawalRepository struct {
	db *gorm.DB
}

func (r *withdrawalRepository) Create(ctx context.Context, w domain.Withdrawal, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := withdrawalModel{
			WithdrawalID:      w.WithdrawalID,
			AccountID:         w.AccountID,
			Amount:            w.Amount,
			Method:            w.Method,
			DestinationNumber: w.DestinationNumber,
			DestinationName:   w.DestinationName,
			Status:            string(w.Status),
			CreatedAt:         w.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return enqueueOutboxTx(tx, outboxEvent, w.CreatedAt)
	})
}

func (r *withdrawalRepository) GetByID(ctx context.Context, withdrawalID uuid.UUID) (domain.Withdrawal, error) {
	var rec withdrawalModel
	err := r.db.WithContext(ctx).
		Where("withdrawal_id = ?", withdrawalID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Withdrawal{}, domain.ErrNotFound
		}
		return domain.Withdrawal{}, err
	}
	return toDomainWithdrawal(rec), nil
}

func (r *withdrawalRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Withdrawal, int, error) {
	return r.list(r.db.WithContext(ctx).Where("account_id = ?", accountID), limit, offset)
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit, offset int) ([]domain.Withdrawal, int, error) {
	return r.list(r.db.WithContext(ctx).Where("status = ?", string(status)), limit, offset)
}

func (r *withdrawalRepository) list(scope *gorm.DB, limit, offset int) ([]domain.Withdrawal, int, error) {
	var total int64
	if err := scope.Model(&withdrawalModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []withdrawalModel
	if err := scope.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Withdrawal, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainWithdrawal(row))
	}
	return out, int(total), nil
}

func (r *withdrawalRepository) HasPendingForAccount(ctx context.Context, accountID uuid.UUID) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&withdrawalModel{}).
		Where("account_id = ? AND status = ?", accountID, string(domain.WithdrawalStatusPending)).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// ApproveAndDebit settles a withdrawal: status flip, balance deduction, and
// last-withdrawal stamp in one database transaction. The deduction carries its
// own balance >= amount guard so a balance that shrank since the request was
// reviewed rolls the whole approval back.
func (r *withdrawalRepository) ApproveAndDebit(ctx context.Context, params ports.WithdrawalApprovalParams, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&withdrawalModel{}).
			Where("withdrawal_id = ? AND status = ?", params.WithdrawalID, string(domain.WithdrawalStatusPending)).
			Updates(map[string]any{
				"status":     string(domain.WithdrawalStatusApproved),
				"decided_by": params.DecidedBy,
				"decided_at": params.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.decisionConflict(tx, params.WithdrawalID)
		}

		res = tx.Model(&accountModel{}).
			Where("account_id = ? AND balance >= ?", params.AccountID, params.Amount).
			Updates(map[string]any{
				"balance":            gorm.Expr("balance - ?", params.Amount),
				"last_withdrawal_at": params.DecidedAt,
				"updated_at":         params.DecidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInsufficientBalance
		}

		return enqueueOutboxTx(tx, outboxEvent, params.DecidedAt)
	})
}

func (r *withdrawalRepository) Reject(ctx context.Context, withdrawalID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&withdrawalModel{}).
			Where("withdrawal_id = ? AND status = ?", withdrawalID, string(domain.WithdrawalStatusPending)).
			Updates(map[string]any{
				"status":     string(domain.WithdrawalStatusRejected),
				"decided_by": decidedBy,
				"decided_at": decidedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.decisionConflict(tx, withdrawalID)
		}
		return enqueueOutboxTx(tx, outboxEvent, decidedAt)
	})
}

func (r *withdrawalRepository) decisionConflict(tx *gorm.DB, withdrawalID uuid.UUID) error {
	var total int64
	if err := tx.Model(&withdrawalModel{}).
		Where("withdrawal_id = ?", withdrawalID).
		Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrWithdrawalNotPending
}
