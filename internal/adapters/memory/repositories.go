package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

type accountRepo struct {
	s *Store
}

func (r *accountRepo) Create(_ context.Context, params ports.CreateAccountParams, outboxEvent ports.OutboxEvent) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email := strings.ToLower(strings.TrimSpace(params.Email))
	for _, existing := range r.s.accounts {
		if existing.Email == email {
			return domain.Account{}, domain.ErrConflict
		}
	}
	account := domain.Account{
		AccountID:    uuid.New(),
		Email:        email,
		DisplayName:  params.DisplayName,
		Role:         params.Role,
		ReferralCode: params.ReferralCode,
		ReferredBy:   params.ReferredBy,
		CreatedAt:    params.RegisteredAt,
		UpdatedAt:    params.RegisteredAt,
	}
	r.s.accounts[account.AccountID] = account
	r.s.accountOrder = append(r.s.accountOrder, account.AccountID)
	r.s.passwordHash[account.AccountID] = params.PasswordHash
	r.s.enqueueLocked(outboxEvent)
	return account, nil
}

func (r *accountRepo) GetByID(_ context.Context, accountID uuid.UUID) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[accountID]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return account, nil
}

func (r *accountRepo) GetByEmail(_ context.Context, email string) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, account := range r.s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (r *accountRepo) GetByReferralCode(_ context.Context, code string) (domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, account := range r.s.accounts {
		if account.ReferralCode == code {
			return account, nil
		}
	}
	return domain.Account{}, domain.ErrNotFound
}

func (r *accountRepo) GetPasswordHash(_ context.Context, accountID uuid.UUID) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hash, ok := r.s.passwordHash[accountID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return hash, nil
}

func (r *accountRepo) List(_ context.Context, limit, offset int) ([]domain.Account, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]domain.Account, 0, len(r.s.accountOrder))
	for _, id := range r.s.accountOrder {
		items = append(items, r.s.accounts[id])
	}
	return paginate(items, limit, offset), len(items), nil
}

func (r *accountRepo) CountReferred(_ context.Context, referrerID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for _, account := range r.s.accounts {
		if account.ReferredBy != nil && *account.ReferredBy == referrerID {
			total++
		}
	}
	return total, nil
}

func (r *accountRepo) SetBanned(_ context.Context, accountID uuid.UUID, banned bool, updatedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[accountID]
	if !ok {
		return domain.ErrNotFound
	}
	account.Banned = banned
	account.UpdatedAt = updatedAt
	r.s.accounts[accountID] = account
	return nil
}

func (r *accountRepo) CreditReferralBonus(_ context.Context, referrerID uuid.UUID, amount float64, creditedAt time.Time, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[referrerID]
	if !ok {
		return domain.ErrNotFound
	}
	account.Balance += amount
	account.ReferralEarnings += amount
	account.UpdatedAt = creditedAt
	r.s.accounts[referrerID] = account
	r.s.enqueueLocked(outboxEvent)
	return nil
}

type planRepo struct {
	s *Store
}

func (r *planRepo) Create(_ context.Context, plan domain.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.plans[plan.PlanID]; !exists {
		r.s.planOrder = append(r.s.planOrder, plan.PlanID)
	}
	r.s.plans[plan.PlanID] = plan
	return nil
}

func (r *planRepo) GetByID(_ context.Context, planID uuid.UUID) (domain.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	plan, ok := r.s.plans[planID]
	if !ok {
		return domain.Plan{}, domain.ErrNotFound
	}
	return plan, nil
}

func (r *planRepo) List(_ context.Context, activeOnly bool) ([]domain.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Plan, 0, len(r.s.planOrder))
	for _, id := range r.s.planOrder {
		plan := r.s.plans[id]
		if activeOnly && !plan.Active {
			continue
		}
		out = append(out, plan)
	}
	return out, nil
}

type videoRepo struct {
	s *Store
}

func (r *videoRepo) Create(_ context.Context, video domain.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.videos[video.VideoID]; !exists {
		r.s.videoOrder = append(r.s.videoOrder, video.VideoID)
	}
	r.s.videos[video.VideoID] = video
	return nil
}

func (r *videoRepo) GetByID(_ context.Context, videoID uuid.UUID) (domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	video, ok := r.s.videos[videoID]
	if !ok {
		return domain.Video{}, domain.ErrNotFound
	}
	return video, nil
}

func (r *videoRepo) List(_ context.Context, activeOnly bool) ([]domain.Video, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Video, 0, len(r.s.videoOrder))
	for _, id := range r.s.videoOrder {
		video := r.s.videos[id]
		if activeOnly && !video.Active {
			continue
		}
		out = append(out, video)
	}
	return out, nil
}

type watchRepo struct {
	s *Store
}

func (r *watchRepo) Record(_ context.Context, watch domain.WatchedVideo, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := watchKey{AccountID: watch.AccountID, VideoID: watch.VideoID, Day: watch.WatchDay}
	if _, exists := r.s.watches[key]; exists {
		return domain.ErrAlreadyWatched
	}
	r.s.watches[key] = watch
	r.s.enqueueLocked(outboxEvent)
	return nil
}

func (r *watchRepo) CountForDay(_ context.Context, accountID uuid.UUID, dayKey string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := 0
	for key := range r.s.watches {
		if key.AccountID == accountID && key.Day == dayKey {
			total++
		}
	}
	return total, nil
}

func (r *watchRepo) ListForDay(_ context.Context, accountID uuid.UUID, dayKey string) ([]domain.WatchedVideo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.WatchedVideo, 0, 8)
	for key, watch := range r.s.watches {
		if key.AccountID == accountID && key.Day == dayKey {
			out = append(out, watch)
		}
	}
	slices.SortFunc(out, func(a, b domain.WatchedVideo) int {
		return a.WatchedAt.Compare(b.WatchedAt)
	})
	return out, nil
}

type claimRepo struct {
	s *Store
}

func (r *claimRepo) InsertAndCredit(_ context.Context, claim domain.DailyClaim, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := claimKey{AccountID: claim.AccountID, Day: claim.ClaimDay}
	if _, exists := r.s.claims[key]; exists {
		return domain.ErrAlreadyClaimed
	}
	account, ok := r.s.accounts[claim.AccountID]
	if !ok {
		return domain.ErrNotFound
	}
	r.s.claims[key] = claim
	account.Balance += claim.Amount
	account.UpdatedAt = claim.ClaimedAt
	r.s.accounts[claim.AccountID] = account
	r.s.enqueueLocked(outboxEvent)
	return nil
}

func (r *claimRepo) HasClaimForDay(_ context.Context, accountID uuid.UUID, dayKey string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, exists := r.s.claims[claimKey{AccountID: accountID, Day: dayKey}]
	return exists, nil
}

func (r *claimRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.DailyClaim, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]domain.DailyClaim, 0, 8)
	for key, claim := range r.s.claims {
		if key.AccountID == accountID {
			items = append(items, claim)
		}
	}
	slices.SortFunc(items, func(a, b domain.DailyClaim) int {
		return b.ClaimedAt.Compare(a.ClaimedAt)
	})
	return paginate(items, limit, offset), len(items), nil
}

type transactionRepo struct {
	s *Store
}

func (r *transactionRepo) Create(_ context.Context, tx domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.transactions[tx.TransactionID]; !exists {
		r.s.txOrder = append(r.s.txOrder, tx.TransactionID)
	}
	r.s.transactions[tx.TransactionID] = tx
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, transactionID uuid.UUID) (domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[transactionID]
	if !ok {
		return domain.Transaction{}, domain.ErrNotFound
	}
	return tx, nil
}

func (r *transactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, int, error) {
	return r.list(func(tx domain.Transaction) bool { return tx.AccountID == accountID }, limit, offset)
}

func (r *transactionRepo) ListByStatus(_ context.Context, status domain.TransactionStatus, limit, offset int) ([]domain.Transaction, int, error) {
	return r.list(func(tx domain.Transaction) bool { return tx.Status == status }, limit, offset)
}

func (r *transactionRepo) list(match func(domain.Transaction) bool, limit, offset int) ([]domain.Transaction, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]domain.Transaction, 0, 8)
	for _, id := range r.s.txOrder {
		if tx := r.s.transactions[id]; match(tx) {
			items = append(items, tx)
		}
	}
	slices.SortFunc(items, func(a, b domain.Transaction) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return paginate(items, limit, offset), len(items), nil
}

func (r *transactionRepo) ApproveAndActivatePlan(_ context.Context, params ports.PlanActivationParams, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[params.TransactionID]
	if !ok {
		return domain.ErrNotFound
	}
	if tx.Status != domain.TransactionStatusPending {
		return domain.ErrTransactionNotPending
	}
	account, ok := r.s.accounts[params.AccountID]
	if !ok {
		return domain.ErrNotFound
	}

	decidedBy := params.DecidedBy
	decidedAt := params.ActivatedAt
	tx.Status = domain.TransactionStatusApproved
	tx.DecidedBy = &decidedBy
	tx.DecidedAt = &decidedAt
	r.s.transactions[params.TransactionID] = tx

	planID := params.PlanID
	account.ActivePlanID = &planID
	account.PlanActivatedAt = &decidedAt
	if account.FirstPlanActivatedAt == nil {
		account.FirstPlanActivatedAt = &decidedAt
	}
	account.UpdatedAt = decidedAt
	r.s.accounts[params.AccountID] = account

	r.s.enqueueLocked(outboxEvent)
	return nil
}

func (r *transactionRepo) Reject(_ context.Context, transactionID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx, ok := r.s.transactions[transactionID]
	if !ok {
		return domain.ErrNotFound
	}
	if tx.Status != domain.TransactionStatusPending {
		return domain.ErrTransactionNotPending
	}
	tx.Status = domain.TransactionStatusRejected
	tx.DecidedBy = &decidedBy
	tx.DecidedAt = &decidedAt
	r.s.transactions[transactionID] = tx
	r.s.enqueueLocked(outboxEvent)
	return nil
}

type withdrawalRepo struct {
	s *Store
}

func (r *withdrawalRepo) Create(_ context.Context, w domain.Withdrawal, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.withdrawals[w.WithdrawalID]; !exists {
		r.s.wdOrder = append(r.s.wdOrder, w.WithdrawalID)
	}
	r.s.withdrawals[w.WithdrawalID] = w
	r.s.enqueueLocked(outboxEvent)
	return nil
}

func (r *withdrawalRepo) GetByID(_ context.Context, withdrawalID uuid.UUID) (domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[withdrawalID]
	if !ok {
		return domain.Withdrawal{}, domain.ErrNotFound
	}
	return w, nil
}

func (r *withdrawalRepo) ListByAccount(_ context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Withdrawal, int, error) {
	return r.list(func(w domain.Withdrawal) bool { return w.AccountID == accountID }, limit, offset)
}

func (r *withdrawalRepo) ListByStatus(_ context.Context, status domain.WithdrawalStatus, limit, offset int) ([]domain.Withdrawal, int, error) {
	return r.list(func(w domain.Withdrawal) bool { return w.Status == status }, limit, offset)
}

func (r *withdrawalRepo) list(match func(domain.Withdrawal) bool, limit, offset int) ([]domain.Withdrawal, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := make([]domain.Withdrawal, 0, 8)
	for _, id := range r.s.wdOrder {
		if w := r.s.withdrawals[id]; match(w) {
			items = append(items, w)
		}
	}
	slices.SortFunc(items, func(a, b domain.Withdrawal) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return paginate(items, limit, offset), len(items), nil
}

func (r *withdrawalRepo) HasPendingForAccount(_ context.Context, accountID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.withdrawals {
		if w.AccountID == accountID && w.Status == domain.WithdrawalStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *withdrawalRepo) ApproveAndDebit(_ context.Context, params ports.WithdrawalApprovalParams, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[params.WithdrawalID]
	if !ok {
		return domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusPending {
		return domain.ErrWithdrawalNotPending
	}
	account, ok := r.s.accounts[params.AccountID]
	if !ok {
		return domain.ErrNotFound
	}
	if account.Balance < params.Amount {
		return domain.ErrInsufficientBalance
	}

	decidedBy := params.DecidedBy
	decidedAt := params.DecidedAt
	w.Status = domain.WithdrawalStatusApproved
	w.DecidedBy = &decidedBy
	w.DecidedAt = &decidedAt
	r.s.withdrawals[params.WithdrawalID] = w

	account.Balance -= params.Amount
	account.LastWithdrawalAt = &decidedAt
	account.UpdatedAt = decidedAt
	r.s.accounts[params.AccountID] = account

	r.s.enqueueLocked(outboxEvent)
	return nil
}

func (r *withdrawalRepo) Reject(_ context.Context, withdrawalID, decidedBy uuid.UUID, decidedAt time.Time, outboxEvent ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.withdrawals[withdrawalID]
	if !ok {
		return domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusPending {
		return domain.ErrWithdrawalNotPending
	}
	w.Status = domain.WithdrawalStatusRejected
	w.DecidedBy = &decidedBy
	w.DecidedAt = &decidedAt
	r.s.withdrawals[withdrawalID] = w
	r.s.enqueueLocked(outboxEvent)
	return nil
}

type outboxRepo struct {
	s *Store
}

func (r *outboxRepo) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.enqueueLocked(event)
	return nil
}

func (r *outboxRepo) ClaimUnpublished(_ context.Context, limit int, claimToken string, claimUntil time.Time) ([]ports.OutboxRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if limit <= 0 {
		return nil, nil
	}
	now := time.Now().UTC()
	out := make([]ports.OutboxRecord, 0, limit)
	for i := range r.s.outbox {
		row := &r.s.outbox[i]
		if row.record.PublishedAt != nil || row.deadLetter {
			continue
		}
		// A record claimed by another worker stays off-limits until that
		// worker's deadline passes; an expired claim is up for grabs.
		if row.claimToken != "" && row.claimToken != claimToken && row.claimUntil.After(now) {
			continue
		}
		row.claimToken = claimToken
		row.claimUntil = claimUntil
		out = append(out, row.record)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].record.OutboxID == outboxID {
			published := at
			r.s.outbox[i].record.PublishedAt = &published
			r.s.outbox[i].claimToken = ""
			r.s.outbox[i].claimUntil = time.Time{}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *outboxRepo) MarkFailed(_ context.Context, outboxID uuid.UUID, _ string, _ time.Time, maxRetries int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.outbox {
		if r.s.outbox[i].record.OutboxID == outboxID {
			r.s.outbox[i].record.RetryCount++
			r.s.outbox[i].claimToken = ""
			r.s.outbox[i].claimUntil = time.Time{}
			if maxRetries > 0 && r.s.outbox[i].record.RetryCount >= maxRetries {
				r.s.outbox[i].deadLetter = true
			}
			return nil
		}
	}
	return domain.ErrNotFound
}
