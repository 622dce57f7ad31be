package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

const timeFormat = "2006-01-02T15:04:05Z07:00"

// SubmitPurchase records a pending bank-transfer purchase. Nothing changes
// on the account until an admin approves the payment proof.
func (s *Service) SubmitPurchase(ctx context.Context, actor Actor, req PurchaseRequest) (domain.Transaction, error) {
	if err := domain.ValidatePurchaseInput(req.PaymentReference, req.ProofURL); err != nil {
		return domain.Transaction{}, err
	}
	plan, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if !plan.Active {
		return domain.Transaction{}, domain.ErrPlanNotPurchasable
	}

	tx := domain.Transaction{
		TransactionID:    uuid.New(),
		AccountID:        actor.AccountID,
		PlanID:           plan.PlanID,
		Amount:           plan.Price,
		PaymentReference: req.PaymentReference,
		ProofURL:         req.ProofURL,
		Status:           domain.TransactionStatusPending,
		CreatedAt:        s.nowFn(),
	}
	if err := s.purchases.Create(ctx, tx); err != nil {
		return domain.Transaction{}, err
	}
	return tx, nil
}

func (s *Service) ListMyTransactions(ctx context.Context, actor Actor, limit, offset int) (TransactionListOutput, error) {
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.purchases.ListByAccount(ctx, actor.AccountID, limit, offset)
	if err != nil {
		return TransactionListOutput{}, err
	}
	return TransactionListOutput{Items: items, Total: total}, nil
}

func (s *Service) ListTransactionsByStatus(ctx context.Context, actor Actor, status domain.TransactionStatus, limit, offset int) (TransactionListOutput, error) {
	if !actor.IsAdmin() {
		return TransactionListOutput{}, domain.ErrForbidden
	}
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.purchases.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return TransactionListOutput{}, err
	}
	return TransactionListOutput{Items: items, Total: total}, nil
}

// ApproveTransaction activates the purchased plan. The status flip and the
// plan activation commit together; the referral bonus runs after the commit
// as a best-effort side effect that never rolls back the approval. A second
// approval attempt observes the terminal status and fails with a conflict
// instead of double-activating.
func (s *Service) ApproveTransaction(ctx context.Context, actor Actor, transactionID uuid.UUID) (domain.Transaction, error) {
	if !actor.IsAdmin() {
		return domain.Transaction{}, domain.ErrForbidden
	}

	tx, err := s.purchases.GetByID(ctx, transactionID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if tx.Status.Terminal() {
		return domain.Transaction{}, domain.ErrTransactionNotPending
	}

	purchaser, err := s.accounts.GetByID(ctx, tx.AccountID)
	if err != nil {
		return domain.Transaction{}, err
	}
	// Snapshot referral eligibility before the approval sets
	// first_plan_activated_at.
	creditReferrer := domain.ReferralEligible(purchaser)

	now := s.nowFn()
	firstPlan := !purchaser.HadPlanBefore()
	event := newOutboxEvent(domain.EventPlanActivated, tx.AccountID.String(), now, contracts.PlanActivatedPayload{
		TransactionID: tx.TransactionID.String(),
		AccountID:     tx.AccountID.String(),
		PlanID:        tx.PlanID.String(),
		FirstPlan:     firstPlan,
		ActivatedAt:   now.Format(timeFormat),
	})
	err = s.purchases.ApproveAndActivatePlan(ctx, ports.PlanActivationParams{
		TransactionID: tx.TransactionID,
		AccountID:     tx.AccountID,
		PlanID:        tx.PlanID,
		DecidedBy:     actor.AccountID,
		ActivatedAt:   now,
	}, event)
	if err != nil {
		return domain.Transaction{}, err
	}

	if creditReferrer {
		s.creditReferralBonus(ctx, purchaser, tx)
	}

	s.logger.InfoContext(ctx, "transaction approved",
		"operation", "approve_transaction",
		"outcome", "success",
		"transaction_id", tx.TransactionID,
		"account_id", tx.AccountID,
		"plan_id", tx.PlanID,
		"first_plan", firstPlan,
	)
	return s.purchases.GetByID(ctx, transactionID)
}

func (s *Service) RejectTransaction(ctx context.Context, actor Actor, transactionID uuid.UUID) (domain.Transaction, error) {
	if !actor.IsAdmin() {
		return domain.Transaction{}, domain.ErrForbidden
	}
	tx, err := s.purchases.GetByID(ctx, transactionID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if tx.Status.Terminal() {
		return domain.Transaction{}, domain.ErrTransactionNotPending
	}

	now := s.nowFn()
	event := newOutboxEvent(domain.EventTransactionRejected, tx.AccountID.String(), now, contracts.TransactionRejectedPayload{
		TransactionID: tx.TransactionID.String(),
		AccountID:     tx.AccountID.String(),
		RejectedAt:    now.Format(timeFormat),
	})
	if err := s.purchases.Reject(ctx, transactionID, actor.AccountID, now, event); err != nil {
		return domain.Transaction{}, err
	}
	return s.purchases.GetByID(ctx, transactionID)
}

// creditReferralBonus pays the referrer for the purchaser's first plan
// activation. Failures are logged and reported through an ops event; they
// must never surface to, or roll back, the approval that triggered them.
func (s *Service) creditReferralBonus(ctx context.Context, purchaser domain.Account, tx domain.Transaction) {
	credit := domain.ReferralCredit{
		ReferrerID:    *purchaser.ReferredBy,
		ReferredID:    purchaser.AccountID,
		TransactionID: tx.TransactionID,
		Amount:        s.cfg.ReferralBonus,
		CreditedAt:    s.nowFn(),
	}
	event := newOutboxEvent(domain.EventReferralBonusCredited, credit.ReferrerID.String(), credit.CreditedAt, contracts.ReferralBonusCreditedPayload{
		ReferrerID:    credit.ReferrerID.String(),
		ReferredID:    credit.ReferredID.String(),
		TransactionID: credit.TransactionID.String(),
		Amount:        credit.Amount,
		CreditedAt:    credit.CreditedAt.Format(timeFormat),
	})

	if err := s.accounts.CreditReferralBonus(ctx, credit.ReferrerID, credit.Amount, credit.CreditedAt, event); err != nil {
		s.logger.ErrorContext(ctx, "referral bonus credit failed",
			"operation", "credit_referral_bonus",
			"outcome", "failure",
			"referrer_id", credit.ReferrerID,
			"referred_id", credit.ReferredID,
			"transaction_id", credit.TransactionID,
			"error", err,
		)
		failure := newOutboxEvent(domain.EventReferralCreditFailed, credit.ReferrerID.String(), credit.CreditedAt, contracts.ReferralCreditFailedPayload{
			ReferrerID:    credit.ReferrerID.String(),
			ReferredID:    credit.ReferredID.String(),
			TransactionID: credit.TransactionID.String(),
			Reason:        err.Error(),
			FailedAt:      credit.CreditedAt.Format(timeFormat),
		})
		if enqueueErr := s.outbox.Enqueue(ctx, failure); enqueueErr != nil {
			s.logger.ErrorContext(ctx, "referral failure event enqueue failed",
				"operation", "credit_referral_bonus",
				"outcome", "failure",
				"error", enqueueErr,
			)
		}
		return
	}

	s.logger.InfoContext(ctx, "referral bonus credited",
		"operation", "credit_referral_bonus",
		"outcome", "success",
		"referrer_id", credit.ReferrerID,
		"referred_id", credit.ReferredID,
		"amount", credit.Amount,
	)
}
