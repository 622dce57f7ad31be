package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Create(ctx context.Context, params ports.CreateAccountParams, outboxEvent ports.OutboxEvent) (domain.Account, error) {
	var result domain.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code := params.ReferralCode
		rec := accountModel{
			Email:        params.Email,
			PasswordHash: params.PasswordHash,
			DisplayName:  params.DisplayName,
			Role:         params.Role,
			ReferralCode: &code,
			ReferredBy:   params.ReferredBy,
			CreatedAt:    params.RegisteredAt,
			UpdatedAt:    params.RegisteredAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		// The account id is generated by the insert, so it is patched into
		// the event payload before the outbox row is written.
		payload := patchEnvelopeData(outboxEvent.Payload, "account_id", rec.AccountID.String())
		event := outboxEvent
		event.Payload = payload
		event.PartitionKey = rec.AccountID.String()
		if err := enqueueOutboxTx(tx, event, params.RegisteredAt); err != nil {
			return err
		}

		result = toDomainAccount(rec)
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return result, nil
}

func (r *accountRepository) GetByID(ctx context.Context, accountID uuid.UUID) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByReferralCode(ctx context.Context, code string) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("referral_code = ?", code).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetPasswordHash(ctx context.Context, accountID uuid.UUID) (string, error) {
	var rec struct {
		PasswordHash string `gorm:"column:password_hash"`
	}
	if err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Select("password_hash").
		Where("account_id = ?", accountID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return rec.PasswordHash, nil
}

func (r *accountRepository) List(ctx context.Context, limit, offset int) ([]domain.Account, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&accountModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []accountModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainAccount(row))
	}
	return out, int(total), nil
}

func (r *accountRepository) CountReferred(ctx context.Context, referrerID uuid.UUID) (int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("referred_by = ?", referrerID).
		Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *accountRepository) SetBanned(ctx context.Context, accountID uuid.UUID, banned bool, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&accountModel{}).
		Where("account_id = ?", accountID).
		Updates(map[string]any{
			"banned":     banned,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) CreditReferralBonus(ctx context.Context, referrerID uuid.UUID, amount float64, creditedAt time.Time, outboxEvent ports.OutboxEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&accountModel{}).
			Where("account_id = ?", referrerID).
			Updates(map[string]any{
				"balance":           gorm.Expr("balance + ?", amount),
				"referral_earnings": gorm.Expr("referral_earnings + ?", amount),
				"updated_at":        creditedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return enqueueOutboxTx(tx, outboxEvent, creditedAt)
	})
}

// patchEnvelopeData sets a field inside the envelope's data object. Used
// when an id is only known after the insert that the event describes.
func patchEnvelopeData(payload []byte, field, value string) []byte {
	var envelope map[string]any
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return payload
	}
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		return payload
	}
	data[field] = value
	envelope["data"] = data
	patched, err := json.Marshal(envelope)
	if err != nil {
		return payload
	}
	return patched
}
