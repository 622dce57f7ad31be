package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

type watchRepository struct {
	db *gorm.DB
}

func (r *watchRepository) Record(ctx context.Context, watch domain.WatchedVideo, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := watchedVideoModel{
			WatchID:   watch.WatchID,
			AccountID: watch.AccountID,
			VideoID:   watch.VideoID,
			WatchDay:  watch.WatchDay,
			WatchedAt: watch.WatchedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyWatched
			}
			return err
		}
		return enqueueOutboxTx(tx, outboxEvent, watch.WatchedAt)
	})
}

func (r *watchRepository) CountForDay(ctx context.Context, accountID uuid.UUID, dayKey string) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&watchedVideoModel{}).
		Where("account_id = ? AND watch_day = ?", accountID, dayKey).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *watchRepository) ListForDay(ctx context.Context, accountID uuid.UUID, dayKey string) ([]domain.WatchedVideo, error) {
	var rows []watchedVideoModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND watch_day = ?", accountID, dayKey).
		Order("watched_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.WatchedVideo, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainWatch(row))
	}
	return out, nil
}

type claimRepository struct {
	db *gorm.DB
}

// InsertAndCredit performs the daily payout as one transaction. The unique
// (account_id, claim_day) index is what makes the payout at-most-once: a
// concurrent duplicate fails on the insert and the credit never happens.
func (r *claimRepository) InsertAndCredit(ctx context.Context, claim domain.DailyClaim, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := dailyClaimModel{
			ClaimID:   claim.ClaimID,
			AccountID: claim.AccountID,
			ClaimDay:  claim.ClaimDay,
			Amount:    claim.Amount,
			ClaimedAt: claim.ClaimedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrAlreadyClaimed
			}
			return err
		}

		res := tx.Model(&accountModel{}).
			Where("account_id = ?", claim.AccountID).
			Updates(map[string]any{
				"balance":    gorm.Expr("balance + ?", claim.Amount),
				"updated_at": claim.ClaimedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return enqueueOutboxTx(tx, outboxEvent, claim.ClaimedAt)
	})
}

func (r *claimRepository) HasClaimForDay(ctx context.Context, accountID uuid.UUID, dayKey string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&dailyClaimModel{}).
		Where("account_id = ? AND claim_day = ?", accountID, dayKey).
		Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *claimRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyClaim, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&dailyClaimModel{}).
		Where("account_id = ?", accountID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []dailyClaimModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("claimed_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.DailyClaim, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainClaim(row))
	}
	return out, int(total), nil
}
