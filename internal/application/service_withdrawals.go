package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/contracts"
	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

// CanWithdraw exposes the weekly gate as a read model.
func (s *Service) CanWithdraw(ctx context.Context, actor Actor) (domain.WithdrawalAvailability, error) {
	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return domain.WithdrawalAvailability{}, err
	}
	return domain.EvaluateWithdrawalGate(account.LastWithdrawalAt, s.nowFn(), s.cfg.BusinessTimezone), nil
}

// RequestWithdrawal records a pending withdrawal. The balance is not
// reserved: funds move only at approval, which re-checks the balance inside
// the settlement transaction. The weekly gate and the balance snapshot are
// still validated here so obviously ineligible requests fail before an admin
// ever sees them.
func (s *Service) RequestWithdrawal(ctx context.Context, actor Actor, req WithdrawalRequest) (domain.Withdrawal, error) {
	if err := domain.ValidateWithdrawalRequest(req.Amount, s.cfg.MinWithdrawal, req.Method, req.DestinationNumber, req.DestinationName); err != nil {
		return domain.Withdrawal{}, err
	}

	account, err := s.accounts.GetByID(ctx, actor.AccountID)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if req.Amount > account.Balance {
		return domain.Withdrawal{}, domain.ErrInsufficientBalance
	}

	now := s.nowFn()
	gate := domain.EvaluateWithdrawalGate(account.LastWithdrawalAt, now, s.cfg.BusinessTimezone)
	if !gate.Available {
		return domain.Withdrawal{}, domain.ErrWithdrawalLocked
	}

	pending, err := s.withdrawals.HasPendingForAccount(ctx, account.AccountID)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if pending {
		return domain.Withdrawal{}, domain.ErrPendingWithdrawalExists
	}

	w := domain.Withdrawal{
		WithdrawalID:      uuid.New(),
		AccountID:         account.AccountID,
		Amount:            req.Amount,
		Method:            strings.TrimSpace(req.Method),
		DestinationNumber: strings.TrimSpace(req.DestinationNumber),
		DestinationName:   strings.TrimSpace(req.DestinationName),
		Status:            domain.WithdrawalStatusPending,
		CreatedAt:         now,
	}
	event := newOutboxEvent(domain.EventWithdrawalRequested, account.AccountID.String(), now, contracts.WithdrawalRequestedPayload{
		WithdrawalID: w.WithdrawalID.String(),
		AccountID:    account.AccountID.String(),
		Amount:       w.Amount,
		Method:       w.Method,
		RequestedAt:  now.Format(timeFormat),
	})
	if err := s.withdrawals.Create(ctx, w, event); err != nil {
		return domain.Withdrawal{}, err
	}

	s.logger.InfoContext(ctx, "withdrawal requested",
		"operation", "request_withdrawal",
		"outcome", "success",
		"withdrawal_id", w.WithdrawalID,
		"account_id", account.AccountID,
		"amount", w.Amount,
	)
	return w, nil
}

func (s *Service) ListMyWithdrawals(ctx context.Context, actor Actor, limit, offset int) (WithdrawalListOutput, error) {
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.withdrawals.ListByAccount(ctx, actor.AccountID, limit, offset)
	if err != nil {
		return WithdrawalListOutput{}, err
	}
	return WithdrawalListOutput{Items: items, Total: total}, nil
}

func (s *Service) ListWithdrawalsByStatus(ctx context.Context, actor Actor, status domain.WithdrawalStatus, limit, offset int) (WithdrawalListOutput, error) {
	if !actor.IsAdmin() {
		return WithdrawalListOutput{}, domain.ErrForbidden
	}
	limit, offset = normalizePage(limit, offset)
	items, total, err := s.withdrawals.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return WithdrawalListOutput{}, err
	}
	return WithdrawalListOutput{Items: items, Total: total}, nil
}

// ApproveWithdrawal settles a pending withdrawal. The repository re-checks
// the balance inside the settlement transaction, so concurrent requests
// cannot overdraw against a stale snapshot; insufficient funds at approval
// time fail closed and the withdrawal stays pending. A second approval of
// the same withdrawal observes the terminal status and conflicts.
func (s *Service) ApproveWithdrawal(ctx context.Context, actor Actor, withdrawalID uuid.UUID) (domain.Withdrawal, error) {
	if !actor.IsAdmin() {
		return domain.Withdrawal{}, domain.ErrForbidden
	}
	w, err := s.withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return domain.Withdrawal{}, domain.ErrWithdrawalNotPending
	}

	now := s.nowFn()
	event := newOutboxEvent(domain.EventWithdrawalApproved, w.AccountID.String(), now, contracts.WithdrawalSettledPayload{
		WithdrawalID: w.WithdrawalID.String(),
		AccountID:    w.AccountID.String(),
		Amount:       w.Amount,
		Status:       string(domain.WithdrawalStatusApproved),
		DecidedAt:    now.Format(timeFormat),
	})
	err = s.withdrawals.ApproveAndDebit(ctx, ports.WithdrawalApprovalParams{
		WithdrawalID: w.WithdrawalID,
		AccountID:    w.AccountID,
		Amount:       w.Amount,
		DecidedBy:    actor.AccountID,
		DecidedAt:    now,
	}, event)
	if err != nil {
		return domain.Withdrawal{}, err
	}

	s.logger.InfoContext(ctx, "withdrawal approved",
		"operation", "approve_withdrawal",
		"outcome", "success",
		"withdrawal_id", w.WithdrawalID,
		"account_id", w.AccountID,
		"amount", w.Amount,
	)
	return s.withdrawals.GetByID(ctx, withdrawalID)
}

func (s *Service) RejectWithdrawal(ctx context.Context, actor Actor, withdrawalID uuid.UUID) (domain.Withdrawal, error) {
	if !actor.IsAdmin() {
		return domain.Withdrawal{}, domain.ErrForbidden
	}
	w, err := s.withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return domain.Withdrawal{}, err
	}
	if w.Status != domain.WithdrawalStatusPending {
		return domain.Withdrawal{}, domain.ErrWithdrawalNotPending
	}

	now := s.nowFn()
	event := newOutboxEvent(domain.EventWithdrawalRejected, w.AccountID.String(), now, contracts.WithdrawalSettledPayload{
		WithdrawalID: w.WithdrawalID.String(),
		AccountID:    w.AccountID.String(),
		Amount:       w.Amount,
		Status:       string(domain.WithdrawalStatusRejected),
		DecidedAt:    now.Format(timeFormat),
	})
	if err := s.withdrawals.Reject(ctx, withdrawalID, actor.AccountID, now, event); err != nil {
		return domain.Withdrawal{}, err
	}
	return s.withdrawals.GetByID(ctx, withdrawalID)
}
