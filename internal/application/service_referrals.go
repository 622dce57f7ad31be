package application

import (
	"context"

	"github.com/videarn/ledger-service/internal/domain"
)

// GetReferralSummary returns the account's shareable code and accumulated
// referral earnings.
func (s *Service) GetReferralSummary(ctx context.Context, actor Actor) (domain.ReferralSummary, error) {
	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return domain.ReferralSummary{}, err
	}
	referred, err := s.accounts.CountReferred(ctx, account.AccountID)
	if err != nil {
		return domain.ReferralSummary{}, err
	}
	return domain.ReferralSummary{
		ReferralCode:     account.ReferralCode,
		ReferredCount:    referred,
		ReferralEarnings: account.ReferralEarnings,
	}, nil
}
