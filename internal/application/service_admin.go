package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

func (s *Service) ListAccounts(ctx context.Context, actor Actor, limit, offset int) (AccountListOutput, error) {
	if !actor.IsAdmin() {
		return AccountListOutput{}, domain.ErrForbidden
	}
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.accounts.List(ctx, limit, offset)
	if err != nil {
		return AccountListOutput{}, err
	}
	return AccountListOutput{Items: items, Total: total}, nil
}

// SetAccountBan flips the ban flag. Token validation re-checks the flag, so
// a ban locks out live sessions as well as future logins.
func (s *Service) SetAccountBan(ctx context.Context, actor Actor, accountID uuid.UUID, banned bool) (domain.Account, error) {
	if !actor.IsAdmin() {
		return domain.Account{}, domain.ErrForbidden
	}
	if actor.AccountID == accountID {
		return domain.Account{}, domain.ErrInvalidInput
	}
	now := s.nowFn()
	if err := s.accounts.SetBanned(ctx, accountID, banned, now); err != nil {
		return domain.Account{}, err
	}

	eventType := domain.EventAccountUnbanned
	if banned {
		eventType = domain.EventAccountBanned
	}
	event := newOutboxEvent(eventType, accountID.String(), now, map[string]string{
		"account_id": accountID.String(),
		"decided_by": actor.AccountID.String(),
	})
	if err := s.outbox.Enqueue(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "ban event enqueue failed",
			"operation", "set_account_ban",
			"outcome", "failure",
			"account_id", accountID,
			"error", err,
		)
	}
	return s.accounts.GetByID(ctx, accountID)
}
