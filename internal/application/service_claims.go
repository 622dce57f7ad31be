package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/domain"
)

// ClaimDailyReward pays the plan's daily earning once per calendar day.
// Eligibility is re-validated here, then the insert-claim-and-credit-balance
// pair runs as a single database transaction; the (account, day) unique
// index guarantees at-most-once payout even for concurrent attempts. The
// Redis guard in front only absorbs duplicate clicks cheaply.
func (s *Service) ClaimDailyReward(ctx context.Context, actor Actor) (domain.DailyClaim, error) {
	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return domain.DailyClaim{}, err
	}
	plan, err := s.activePlan(ctx, account)
	if err != nil {
		return domain.DailyClaim{}, err
	}

	now := s.nowFn()
	dayKey := domain.DayKey(now, s.cfg.BusinessTimezone)

	eligibility, err := s.claimEligibility(ctx, account, plan, dayKey, now)
	if err != nil {
		return domain.DailyClaim{}, err
	}
	if precondition := domain.ClaimPreconditionError(eligibility); precondition != nil {
		return domain.DailyClaim{}, precondition
	}

	if s.claimGuard != nil {
		acquired, guardErr := s.claimGuard.TryAcquire(ctx, account.AccountID, dayKey, s.cfg.ClaimGuardTTL)
		if guardErr == nil && !acquired {
			return domain.DailyClaim{}, domain.ErrAlreadyClaimed
		}
		// Guard errors are not fatal: the unique index below still protects
		// the payout.
	}

	claim := domain.DailyClaim{
		ClaimID:   uuid.New(),
		AccountID: account.AccountID,
		ClaimDay:  dayKey,
		Amount:    plan.DailyEarning,
		ClaimedAt: now,
	}
	event := newOutboxEvent(domain.EventClaimPaid, account.AccountID.String(), now, contracts.ClaimPaidPayload{
		ClaimID:   claim.ClaimID.String(),
		AccountID: account.AccountID.String(),
		ClaimDay:  dayKey,
		Amount:    claim.Amount,
		ClaimedAt: now.Format("2006-01-02T15:04:05Z07:00"),
	})

	if err := s.claims.InsertAndCredit(ctx, claim, event); err != nil {
		if errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrAlreadyClaimed) {
			return domain.DailyClaim{}, domain.ErrAlreadyClaimed
		}
		return domain.DailyClaim{}, err
	}

	s.logger.InfoContext(ctx, "daily reward claimed",
		"operation", "claim_daily_reward",
		"outcome", "success",
		"account_id", account.AccountID,
		"claim_day", dayKey,
		"amount", claim.Amount,
	)
	return claim, nil
}

func (s *Service) ListClaims(ctx context.Context, actor Actor, limit, offset int) (ClaimListOutput, error) {
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.claims.ListByAccount(ctx, actor.AccountID, limit, offset)
	if err != nil {
		return ClaimListOutput{}, err
	}
	return ClaimListOutput{Items: items, Total: total}, nil
}

// GetDashboard assembles the per-account read model. All time-dependent
// flags are recomputed against the current clock.
func (s *Service) GetDashboard(ctx context.Context, actor Actor) (Dashboard, error) {
	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return Dashboard{}, err
	}

	now := s.nowFn()
	dayKey := domain.DayKey(now, s.cfg.BusinessTimezone)
	watches, err := s.watches.ListForDay(ctx, account.AccountID, dayKey)
	if err != nil {
		return Dashboard{}, err
	}
	dashboard := Dashboard{
		Balance:          account.Balance,
		ReferralEarnings: account.ReferralEarnings,
		Withdrawal:       domain.EvaluateWithdrawalGate(account.LastWithdrawalAt, now, s.cfg.BusinessTimezone),
		TodaysWatches:    watches,
	}

	plan, err := s.activePlan(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrPlanNotActive) {
			return dashboard, nil
		}
		return Dashboard{}, err
	}

	eligibility, err := s.claimEligibility(ctx, account, plan, dayKey, now)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard.Plan = &plan
	dashboard.PlanActive = eligibility.PlanActive
	if account.PlanActivatedAt != nil {
		expiry := domain.PlanExpiry(*account.PlanActivatedAt, plan.ValidityDays)
		dashboard.PlanExpiresAt = &expiry
	}
	dashboard.Claim = eligibility
	return dashboard, nil
}

func (s *Service) claimEligibility(ctx context.Context, account domain.Account, plan domain.Plan, dayKey string, now time.Time) (domain.ClaimEligibility, error) {
	watched, err := s.watches.CountForDay(ctx, account.AccountID, dayKey)
	if err != nil {
		return domain.ClaimEligibility{}, err
	}
	claimed, err := s.claims.HasClaimForDay(ctx, account.AccountID, dayKey)
	if err != nil {
		return domain.ClaimEligibility{}, err
	}
	return domain.EvaluateClaim(account, plan, watched, claimed, now), nil
}
