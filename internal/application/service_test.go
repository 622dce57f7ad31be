package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/videarn/ledger-service/internal/adapters/memory"
	"github.com/videarn/ledger-service/internal/adapters/security"
	"github.com/videarn/ledger-service/internal/application"
	"github.com/videarn/ledger-service/internal/domain"
	"github.com/videarn/ledger-service/internal/ports"
)

const testPassword = "s3cret-pass-123"

type env struct {
	t       *testing.T
	store   *memory.Store
	deps    application.Dependencies
	service *application.Service
	admin   application.Actor
	now     time.Time
}

// futureMonday picks a deterministic weekday at least a week ahead of the
// wall clock, so tokens minted against the test clock still verify against
// the real-time expiry check in the JWT adapter.
func futureMonday() time.Time {
	weekStart := domain.StartOfWeek(time.Now().UTC().AddDate(0, 0, 14), time.UTC)
	return weekStart.AddDate(0, 0, 1).Add(12 * time.Hour)
}

func newEnv(t *testing.T) *env {
	t.Helper()

	signer, err := security.NewEphemeralJWTSigner("test-key")
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}

	store := memory.NewStore()
	e := &env{
		t:     t,
		store: store,
		admin: application.Actor{AccountID: uuid.New(), Role: domain.RoleAdmin},
		now:   futureMonday(),
	}
	e.deps = application.Dependencies{
		Config: application.Config{
			BusinessTimezone: time.UTC,
			MinWithdrawal:    200,
			ReferralBonus:    100,
			TokenTTL:         24 * time.Hour,
		},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Accounts:    store.Accounts(),
		Plans:       store.Plans(),
		Videos:      store.Videos(),
		Watches:     store.Watches(),
		Claims:      store.Claims(),
		Purchases:   store.Purchases(),
		Withdrawals: store.Withdrawals(),
		Outbox:      store.Outbox(),
		ClaimGuard:  memory.NewClaimGuard(),
		Denylist:    memory.NewTokenDenylist(),
		Hasher:      security.NewBcryptHasher(bcrypt.MinCost),
		TokenSigner: signer,
	}
	e.service = application.NewService(e.deps).WithNow(func() time.Time { return e.now })
	return e
}

func (e *env) register(email, referralCode string) application.AuthResponse {
	e.t.Helper()
	resp, err := e.service.Register(context.Background(), application.RegisterRequest{
		Email:        email,
		Password:     testPassword,
		DisplayName:  "Test Account",
		ReferralCode: referralCode,
	})
	if err != nil {
		e.t.Fatalf("register %s: %v", email, err)
	}
	return resp
}

func actorFor(account domain.Account) application.Actor {
	return application.Actor{AccountID: account.AccountID, Role: account.Role}
}

func (e *env) createPlan(price, dailyEarning float64, videosPerDay, validityDays int) domain.Plan {
	e.t.Helper()
	plan, err := e.service.CreatePlan(context.Background(), e.admin, application.CreatePlanRequest{
		Name:         "Test Plan",
		Price:        price,
		DailyEarning: dailyEarning,
		VideosPerDay: videosPerDay,
		ValidityDays: validityDays,
	})
	if err != nil {
		e.t.Fatalf("create plan: %v", err)
	}
	return plan
}

func (e *env) createVideo(title string) domain.Video {
	e.t.Helper()
	video, err := e.service.CreateVideo(context.Background(), e.admin, application.CreateVideoRequest{
		Title:           title,
		SourceURL:       "https://videos.example.com/" + title,
		DurationSeconds: 60,
	})
	if err != nil {
		e.t.Fatalf("create video: %v", err)
	}
	return video
}

func (e *env) activatePlan(actor application.Actor, plan domain.Plan) domain.Transaction {
	e.t.Helper()
	tx, err := e.service.SubmitPurchase(context.Background(), actor, application.PurchaseRequest{
		PlanID:           plan.PlanID,
		PaymentReference: "TRX-0001",
		ProofURL:         "https://proofs.example.com/trx-0001.png",
	})
	if err != nil {
		e.t.Fatalf("submit purchase: %v", err)
	}
	approved, err := e.service.ApproveTransaction(context.Background(), e.admin, tx.TransactionID)
	if err != nil {
		e.t.Fatalf("approve transaction: %v", err)
	}
	return approved
}

func (e *env) meetQuota(actor application.Actor, videos []domain.Video) {
	e.t.Helper()
	for _, video := range videos {
		if _, err := e.service.RecordWatch(context.Background(), actor, video.VideoID); err != nil {
			e.t.Fatalf("record watch %s: %v", video.Title, err)
		}
	}
}

func (e *env) account(accountID uuid.UUID) domain.Account {
	e.t.Helper()
	account, err := e.store.Accounts().GetByID(context.Background(), accountID)
	if err != nil {
		e.t.Fatalf("load account: %v", err)
	}
	return account
}

func countEvents(events []string, eventType string) int {
	n := 0
	for _, e := range events {
		if e == eventType {
			n++
		}
	}
	return n
}

func TestRegisterWithReferralCode(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	referrer := e.register("referrer@example.com", "")
	if referrer.Account.ReferralCode == "" {
		t.Fatal("registration must assign a referral code")
	}

	referred := e.register("referred@example.com", referrer.Account.ReferralCode)
	if referred.Account.ReferredBy == nil || *referred.Account.ReferredBy != referrer.Account.AccountID {
		t.Fatalf("referred_by = %v, want %v", referred.Account.ReferredBy, referrer.Account.AccountID)
	}

	_, err := e.service.Register(ctx, application.RegisterRequest{
		Email:        "nobody@example.com",
		Password:     testPassword,
		DisplayName:  "Nobody",
		ReferralCode: "WRONGCOD",
	})
	if !errors.Is(err, domain.ErrReferralCodeNotFound) {
		t.Fatalf("unknown referral code: got %v, want ErrReferralCodeNotFound", err)
	}

	if got := countEvents(e.store.OutboxEvents(), domain.EventAccountRegistered); got != 2 {
		t.Fatalf("account.registered events = %d, want 2", got)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	e.register("jane@example.com", "")
	_, err := e.service.Register(ctx, application.RegisterRequest{
		Email:       "JANE@example.com",
		Password:    testPassword,
		DisplayName: "Jane Again",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("duplicate email (case-insensitive): got %v, want ErrConflict", err)
	}

	_, err = e.service.Register(ctx, application.RegisterRequest{
		Email:       "not-an-email",
		Password:    testPassword,
		DisplayName: "Jane",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("malformed email: got %v, want ErrInvalidInput", err)
	}
}

func TestLoginAndValidateToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	registered := e.register("jane@example.com", "")

	_, err := e.service.Login(ctx, application.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
	_, err = e.service.Login(ctx, application.LoginRequest{Email: "ghost@example.com", Password: testPassword})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v, want ErrInvalidCredentials", err)
	}

	resp, err := e.service.Login(ctx, application.LoginRequest{Email: "Jane@Example.com", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := e.service.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.AccountID != registered.Account.AccountID || claims.Role != domain.RoleUser {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := e.service.ValidateToken(ctx, "not.a.token"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("garbage token: got %v, want ErrUnauthorized", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	claims, err := e.service.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if err := e.service.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := e.service.ValidateToken(ctx, resp.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("revoked token: got %v, want ErrUnauthorized", err)
	}
}

func TestBanLocksOutLiveSession(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")

	if _, err := e.service.SetAccountBan(ctx, actorFor(resp.Account), resp.Account.AccountID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin ban: got %v, want ErrForbidden", err)
	}
	selfBan := application.Actor{AccountID: resp.Account.AccountID, Role: domain.RoleAdmin}
	if _, err := e.service.SetAccountBan(ctx, selfBan, resp.Account.AccountID, true); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("self ban: got %v, want ErrInvalidInput", err)
	}

	banned, err := e.service.SetAccountBan(ctx, e.admin, resp.Account.AccountID, true)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if !banned.Banned {
		t.Fatal("ban flag not set")
	}

	// The token itself is still cryptographically valid; the ban must bite
	// on validation, not just at next login.
	if _, err := e.service.ValidateToken(ctx, resp.Token); !errors.Is(err, domain.ErrAccountBanned) {
		t.Fatalf("banned session: got %v, want ErrAccountBanned", err)
	}
	_, err = e.service.Login(ctx, application.LoginRequest{Email: "jane@example.com", Password: testPassword})
	if !errors.Is(err, domain.ErrAccountBanned) {
		t.Fatalf("banned login: got %v, want ErrAccountBanned", err)
	}

	unbanned, err := e.service.SetAccountBan(ctx, e.admin, resp.Account.AccountID, false)
	if err != nil {
		t.Fatalf("unban: %v", err)
	}
	if unbanned.Banned {
		t.Fatal("unban did not clear the flag")
	}
	if got := countEvents(e.store.OutboxEvents(), domain.EventAccountBanned); got != 1 {
		t.Fatalf("account.banned events = %d, want 1", got)
	}
}

func TestRecordWatch(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	video := e.createVideo("intro")

	if _, err := e.service.RecordWatch(ctx, actor, video.VideoID); !errors.Is(err, domain.ErrPlanNotActive) {
		t.Fatalf("watch without plan: got %v, want ErrPlanNotActive", err)
	}

	plan := e.createPlan(500, 25, 2, 30)
	e.activatePlan(actor, plan)

	watch, err := e.service.RecordWatch(ctx, actor, video.VideoID)
	if err != nil {
		t.Fatalf("record watch: %v", err)
	}
	if watch.WatchDay != domain.DayKey(e.now, time.UTC) {
		t.Fatalf("watch day = %q, want %q", watch.WatchDay, domain.DayKey(e.now, time.UTC))
	}

	if _, err := e.service.RecordWatch(ctx, actor, video.VideoID); !errors.Is(err, domain.ErrAlreadyWatched) {
		t.Fatalf("duplicate watch same day: got %v, want ErrAlreadyWatched", err)
	}

	// The same video counts again on the next calendar day.
	e.now = e.now.Add(24 * time.Hour)
	if _, err := e.service.RecordWatch(ctx, actor, video.VideoID); err != nil {
		t.Fatalf("watch next day: %v", err)
	}

	// Past the validity window the plan no longer authorizes watching.
	e.now = e.now.AddDate(0, 0, 31)
	if _, err := e.service.RecordWatch(ctx, actor, video.VideoID); !errors.Is(err, domain.ErrPlanNotActive) {
		t.Fatalf("watch after expiry: got %v, want ErrPlanNotActive", err)
	}

	// Only the two accepted watches produced events.
	if got := countEvents(e.store.OutboxEvents(), domain.EventVideoWatchRecorded); got != 2 {
		t.Fatalf("watch events = %d, want 2", got)
	}
}

func TestClaimDailyRewardLifecycle(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)

	if _, err := e.service.ClaimDailyReward(ctx, actor); !errors.Is(err, domain.ErrPlanNotActive) {
		t.Fatalf("claim without plan: got %v, want ErrPlanNotActive", err)
	}

	plan := e.createPlan(500, 50, 2, 30)
	e.activatePlan(actor, plan)
	videos := []domain.Video{e.createVideo("one"), e.createVideo("two")}

	e.meetQuota(actor, videos[:1])
	if _, err := e.service.ClaimDailyReward(ctx, actor); !errors.Is(err, domain.ErrQuotaNotMet) {
		t.Fatalf("claim below quota: got %v, want ErrQuotaNotMet", err)
	}

	e.meetQuota(actor, videos[1:])
	claim, err := e.service.ClaimDailyReward(ctx, actor)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if claim.Amount != 50 {
		t.Fatalf("claim amount = %v, want 50", claim.Amount)
	}
	if got := e.account(actor.AccountID).Balance; got != 50 {
		t.Fatalf("balance after claim = %v, want 50", got)
	}

	if _, err := e.service.ClaimDailyReward(ctx, actor); !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("second claim same day: got %v, want ErrAlreadyClaimed", err)
	}
	if got := e.account(actor.AccountID).Balance; got != 50 {
		t.Fatalf("balance after rejected claim = %v, want 50", got)
	}

	// Midnight resets both the claim and the watch quota.
	e.now = e.now.Add(24 * time.Hour)
	if _, err := e.service.ClaimDailyReward(ctx, actor); !errors.Is(err, domain.ErrQuotaNotMet) {
		t.Fatalf("claim next day before watching: got %v, want ErrQuotaNotMet", err)
	}
	e.meetQuota(actor, videos)
	if _, err := e.service.ClaimDailyReward(ctx, actor); err != nil {
		t.Fatalf("claim next day: %v", err)
	}
	if got := e.account(actor.AccountID).Balance; got != 100 {
		t.Fatalf("balance after two days = %v, want 100", got)
	}
	if got := countEvents(e.store.OutboxEvents(), domain.EventClaimPaid); got != 2 {
		t.Fatalf("claim.paid events = %d, want 2", got)
	}

	claims, err := e.service.ListClaims(ctx, actor, 10, 0)
	if err != nil {
		t.Fatalf("list claims: %v", err)
	}
	if claims.Total != 2 || len(claims.Items) != 2 {
		t.Fatalf("claims listed = %d/%d, want 2/2", len(claims.Items), claims.Total)
	}
}

func TestClaimDailyRewardConcurrentAttempts(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("racer@example.com", "")
	actor := actorFor(resp.Account)
	plan := e.createPlan(500, 50, 1, 30)
	e.activatePlan(actor, plan)
	e.meetQuota(actor, []domain.Video{e.createVideo("one")})

	// Strip the duplicate-click guard so the claim repository's per-day
	// uniqueness is the only line of defense, then hammer it.
	deps := e.deps
	deps.ClaimGuard = nil
	bare := application.NewService(deps).WithNow(func() time.Time { return e.now })

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bare.ClaimDailyReward(ctx, actor)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	paid, duplicated := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			paid++
		case errors.Is(err, domain.ErrAlreadyClaimed):
			duplicated++
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if paid != 1 || duplicated != attempts-1 {
		t.Fatalf("paid=%d duplicated=%d, want exactly one payout in %d attempts", paid, duplicated, attempts)
	}
	if got := e.account(actor.AccountID).Balance; got != 50 {
		t.Fatalf("balance = %v, want a single credit of 50", got)
	}
	if got := countEvents(e.store.OutboxEvents(), domain.EventClaimPaid); got != 1 {
		t.Fatalf("claim.paid events = %d, want 1", got)
	}
}

func TestSubmitPurchase(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	plan := e.createPlan(750, 25, 2, 30)

	_, err := e.service.SubmitPurchase(ctx, actor, application.PurchaseRequest{PlanID: plan.PlanID})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("missing payment proof: got %v, want ErrInvalidInput", err)
	}

	retired := domain.Plan{PlanID: uuid.New(), Name: "Retired", Price: 100, VideosPerDay: 1, ValidityDays: 30, Active: false}
	if err := e.store.Plans().Create(ctx, retired); err != nil {
		t.Fatalf("seed retired plan: %v", err)
	}
	_, err = e.service.SubmitPurchase(ctx, actor, application.PurchaseRequest{
		PlanID:           retired.PlanID,
		PaymentReference: "TRX-0002",
		ProofURL:         "https://proofs.example.com/trx-0002.png",
	})
	if !errors.Is(err, domain.ErrPlanNotPurchasable) {
		t.Fatalf("retired plan: got %v, want ErrPlanNotPurchasable", err)
	}

	tx, err := e.service.SubmitPurchase(ctx, actor, application.PurchaseRequest{
		PlanID:           plan.PlanID,
		PaymentReference: "TRX-0003",
		ProofURL:         "https://proofs.example.com/trx-0003.png",
	})
	if err != nil {
		t.Fatalf("submit purchase: %v", err)
	}
	if tx.Status != domain.TransactionStatusPending || tx.Amount != plan.Price {
		t.Fatalf("transaction = %+v, want pending at plan price", tx)
	}

	// Submission alone must not touch the account.
	if account := e.account(actor.AccountID); account.ActivePlanID != nil {
		t.Fatalf("plan activated before approval: %+v", account)
	}
}

func TestApproveTransactionActivatesPlan(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	plan := e.createPlan(500, 25, 2, 30)

	tx, err := e.service.SubmitPurchase(ctx, actor, application.PurchaseRequest{
		PlanID:           plan.PlanID,
		PaymentReference: "TRX-0004",
		ProofURL:         "https://proofs.example.com/trx-0004.png",
	})
	if err != nil {
		t.Fatalf("submit purchase: %v", err)
	}

	if _, err := e.service.ApproveTransaction(ctx, actor, tx.TransactionID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin approve: got %v, want ErrForbidden", err)
	}

	approved, err := e.service.ApproveTransaction(ctx, e.admin, tx.TransactionID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.TransactionStatusApproved || approved.DecidedBy == nil {
		t.Fatalf("approved transaction = %+v", approved)
	}

	account := e.account(actor.AccountID)
	if account.ActivePlanID == nil || *account.ActivePlanID != plan.PlanID {
		t.Fatalf("active plan = %v, want %v", account.ActivePlanID, plan.PlanID)
	}
	if account.PlanActivatedAt == nil || account.FirstPlanActivatedAt == nil {
		t.Fatalf("activation timestamps missing: %+v", account)
	}

	if _, err := e.service.ApproveTransaction(ctx, e.admin, tx.TransactionID); !errors.Is(err, domain.ErrTransactionNotPending) {
		t.Fatalf("double approve: got %v, want ErrTransactionNotPending", err)
	}
	if _, err := e.service.RejectTransaction(ctx, e.admin, tx.TransactionID); !errors.Is(err, domain.ErrTransactionNotPending) {
		t.Fatalf("reject after approve: got %v, want ErrTransactionNotPending", err)
	}
	if _, err := e.service.ApproveTransaction(ctx, e.admin, uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("approve unknown id: got %v, want ErrNotFound", err)
	}
	if got := countEvents(e.store.OutboxEvents(), domain.EventPlanActivated); got != 1 {
		t.Fatalf("plan.activated events = %d, want 1", got)
	}
}

func TestRejectTransaction(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	plan := e.createPlan(500, 25, 2, 30)

	tx, err := e.service.SubmitPurchase(ctx, actor, application.PurchaseRequest{
		PlanID:           plan.PlanID,
		PaymentReference: "TRX-0005",
		ProofURL:         "https://proofs.example.com/trx-0005.png",
	})
	if err != nil {
		t.Fatalf("submit purchase: %v", err)
	}

	rejected, err := e.service.RejectTransaction(ctx, e.admin, tx.TransactionID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.TransactionStatusRejected {
		t.Fatalf("status = %v, want rejected", rejected.Status)
	}
	if account := e.account(actor.AccountID); account.ActivePlanID != nil {
		t.Fatalf("rejection must not activate the plan: %+v", account)
	}
	if _, err := e.service.ApproveTransaction(ctx, e.admin, tx.TransactionID); !errors.Is(err, domain.ErrTransactionNotPending) {
		t.Fatalf("approve after reject: got %v, want ErrTransactionNotPending", err)
	}
}

func TestReferralBonusCreditedOnFirstActivationOnly(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	referrer := e.register("referrer@example.com", "")
	referred := e.register("referred@example.com", referrer.Account.ReferralCode)
	actor := actorFor(referred.Account)
	plan := e.createPlan(500, 25, 2, 7)

	e.activatePlan(actor, plan)

	got := e.account(referrer.Account.AccountID)
	if got.Balance != 100 || got.ReferralEarnings != 100 {
		t.Fatalf("referrer balance/earnings = %v/%v, want 100/100", got.Balance, got.ReferralEarnings)
	}

	// Repurchase after the plan lapses: normal activation, no second bonus.
	e.now = e.now.AddDate(0, 0, 10)
	e.activatePlan(actor, plan)

	got = e.account(referrer.Account.AccountID)
	if got.Balance != 100 || got.ReferralEarnings != 100 {
		t.Fatalf("repurchase paid a second bonus: balance/earnings = %v/%v", got.Balance, got.ReferralEarnings)
	}
	if n := countEvents(e.store.OutboxEvents(), domain.EventReferralBonusCredited); n != 1 {
		t.Fatalf("referral.bonus_credited events = %d, want 1", n)
	}

	summary, err := e.service.GetReferralSummary(ctx, actorFor(referrer.Account))
	if err != nil {
		t.Fatalf("referral summary: %v", err)
	}
	if summary.ReferredCount != 1 || summary.ReferralEarnings != 100 {
		t.Fatalf("summary = %+v, want 1 referred and 100 earned", summary)
	}
	if summary.ReferralCode != referrer.Account.ReferralCode {
		t.Fatalf("summary code = %q, want %q", summary.ReferralCode, referrer.Account.ReferralCode)
	}
}

func TestReferralCreditFailureNeverBlocksApproval(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	// An account whose recorded referrer no longer resolves: the credit
	// fails, the approval must not.
	ghost := uuid.New()
	orphan, err := e.store.Accounts().Create(ctx, ports.CreateAccountParams{
		Email:        "orphan@example.com",
		PasswordHash: "irrelevant",
		DisplayName:  "Orphan",
		Role:         domain.RoleUser,
		ReferralCode: domain.NewReferralCode(),
		ReferredBy:   &ghost,
		RegisteredAt: e.now,
	}, ports.OutboxEvent{})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}

	plan := e.createPlan(500, 25, 2, 30)
	tx, err := e.service.SubmitPurchase(ctx, actorFor(orphan), application.PurchaseRequest{
		PlanID:           plan.PlanID,
		PaymentReference: "TRX-0006",
		ProofURL:         "https://proofs.example.com/trx-0006.png",
	})
	if err != nil {
		t.Fatalf("submit purchase: %v", err)
	}

	approved, err := e.service.ApproveTransaction(ctx, e.admin, tx.TransactionID)
	if err != nil {
		t.Fatalf("approval failed because of the referral credit: %v", err)
	}
	if approved.Status != domain.TransactionStatusApproved {
		t.Fatalf("status = %v, want approved", approved.Status)
	}

	events := e.store.OutboxEvents()
	if n := countEvents(events, domain.EventReferralCreditFailed); n != 1 {
		t.Fatalf("referral.credit_failed events = %d, want 1", n)
	}
	if n := countEvents(events, domain.EventReferralBonusCredited); n != 0 {
		t.Fatalf("referral.bonus_credited events = %d, want 0", n)
	}
}

// earnBalance activates a one-video plan paying amount per day and claims
// once, leaving the account with exactly amount on balance.
func (e *env) earnBalance(actor application.Actor, amount float64) {
	e.t.Helper()
	plan := e.createPlan(100, amount, 1, 60)
	e.activatePlan(actor, plan)
	e.meetQuota(actor, []domain.Video{e.createVideo("payday-" + uuid.NewString())})
	if _, err := e.service.ClaimDailyReward(context.Background(), actor); err != nil {
		e.t.Fatalf("claim for balance: %v", err)
	}
}

func TestRequestWithdrawal(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	e.earnBalance(actor, 500)

	req := application.WithdrawalRequest{
		Amount:            150,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
	}
	if _, err := e.service.RequestWithdrawal(ctx, actor, req); !errors.Is(err, domain.ErrBelowMinimumWithdrawal) {
		t.Fatalf("below minimum: got %v, want ErrBelowMinimumWithdrawal", err)
	}

	req.Amount = 600
	if _, err := e.service.RequestWithdrawal(ctx, actor, req); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("over balance: got %v, want ErrInsufficientBalance", err)
	}

	req.Amount = 300
	w, err := e.service.RequestWithdrawal(ctx, actor, req)
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}
	if w.Status != domain.WithdrawalStatusPending {
		t.Fatalf("status = %v, want pending", w.Status)
	}
	// Requesting reserves nothing; the debit happens at approval.
	if got := e.account(actor.AccountID).Balance; got != 500 {
		t.Fatalf("balance after request = %v, want 500", got)
	}

	if _, err := e.service.RequestWithdrawal(ctx, actor, req); !errors.Is(err, domain.ErrPendingWithdrawalExists) {
		t.Fatalf("second pending request: got %v, want ErrPendingWithdrawalExists", err)
	}
}

func TestWithdrawalWeeklyGate(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	e.earnBalance(actor, 500)

	w, err := e.service.RequestWithdrawal(ctx, actor, application.WithdrawalRequest{
		Amount:            300,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
	})
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}

	approved, err := e.service.ApproveWithdrawal(ctx, e.admin, w.WithdrawalID)
	if err != nil {
		t.Fatalf("approve withdrawal: %v", err)
	}
	if approved.Status != domain.WithdrawalStatusApproved {
		t.Fatalf("status = %v, want approved", approved.Status)
	}
	if got := e.account(actor.AccountID).Balance; got != 200 {
		t.Fatalf("balance after approval = %v, want 200", got)
	}

	gate, err := e.service.CanWithdraw(ctx, actor)
	if err != nil {
		t.Fatalf("can withdraw: %v", err)
	}
	if gate.Available || gate.NextEligibleAt == nil {
		t.Fatalf("gate after approval = %+v, want locked with a reopen time", gate)
	}
	wantReopen := domain.NextWeekStart(e.now, time.UTC)
	if !gate.NextEligibleAt.Equal(wantReopen) {
		t.Fatalf("next eligible = %v, want %v", gate.NextEligibleAt, wantReopen)
	}

	_, err = e.service.RequestWithdrawal(ctx, actor, application.WithdrawalRequest{
		Amount:            200,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
	})
	if !errors.Is(err, domain.ErrWithdrawalLocked) {
		t.Fatalf("request in locked week: got %v, want ErrWithdrawalLocked", err)
	}

	if _, err := e.service.ApproveWithdrawal(ctx, e.admin, w.WithdrawalID); !errors.Is(err, domain.ErrWithdrawalNotPending) {
		t.Fatalf("double approve: got %v, want ErrWithdrawalNotPending", err)
	}

	e.now = wantReopen
	gate, err = e.service.CanWithdraw(ctx, actor)
	if err != nil {
		t.Fatalf("can withdraw after reopen: %v", err)
	}
	if !gate.Available {
		t.Fatalf("gate must reopen at %v: %+v", wantReopen, gate)
	}
	if _, err := e.service.RequestWithdrawal(ctx, actor, application.WithdrawalRequest{
		Amount:            200,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
	}); err != nil {
		t.Fatalf("request after reopen: %v", err)
	}
}

func TestApproveWithdrawalInsufficientBalanceLeavesPending(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	e.earnBalance(actor, 500)

	// A request that passed validation against an earlier, larger balance.
	stale := domain.Withdrawal{
		WithdrawalID:      uuid.New(),
		AccountID:         actor.AccountID,
		Amount:            900,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
		Status:            domain.WithdrawalStatusPending,
		CreatedAt:         e.now,
	}
	if err := e.store.Withdrawals().Create(ctx, stale, ports.OutboxEvent{}); err != nil {
		t.Fatalf("seed withdrawal: %v", err)
	}

	_, err := e.service.ApproveWithdrawal(ctx, e.admin, stale.WithdrawalID)
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("approve over balance: got %v, want ErrInsufficientBalance", err)
	}

	kept, err := e.store.Withdrawals().GetByID(ctx, stale.WithdrawalID)
	if err != nil {
		t.Fatalf("reload withdrawal: %v", err)
	}
	if kept.Status != domain.WithdrawalStatusPending {
		t.Fatalf("failed approval must leave the withdrawal pending, got %v", kept.Status)
	}
	if got := e.account(actor.AccountID).Balance; got != 500 {
		t.Fatalf("balance changed on failed approval: %v", got)
	}
}

func TestRejectWithdrawal(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)
	e.earnBalance(actor, 500)

	req := application.WithdrawalRequest{
		Amount:            300,
		Method:            "bank_transfer",
		DestinationNumber: "0123456789",
		DestinationName:   "Jane Doe",
	}
	w, err := e.service.RequestWithdrawal(ctx, actor, req)
	if err != nil {
		t.Fatalf("request withdrawal: %v", err)
	}

	rejected, err := e.service.RejectWithdrawal(ctx, e.admin, w.WithdrawalID)
	if err != nil {
		t.Fatalf("reject withdrawal: %v", err)
	}
	if rejected.Status != domain.WithdrawalStatusRejected {
		t.Fatalf("status = %v, want rejected", rejected.Status)
	}
	if got := e.account(actor.AccountID).Balance; got != 500 {
		t.Fatalf("rejection must not move funds: balance = %v", got)
	}

	// A rejection neither consumes the weekly slot nor leaves a pending row.
	if _, err := e.service.RequestWithdrawal(ctx, actor, req); err != nil {
		t.Fatalf("request after rejection: %v", err)
	}
}

func TestDashboard(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)

	dashboard, err := e.service.GetDashboard(ctx, actor)
	if err != nil {
		t.Fatalf("dashboard without plan: %v", err)
	}
	if dashboard.PlanActive || dashboard.Plan != nil {
		t.Fatalf("fresh dashboard reports a plan: %+v", dashboard)
	}
	if len(dashboard.TodaysWatches) != 0 {
		t.Fatalf("fresh dashboard lists %d watches, want none", len(dashboard.TodaysWatches))
	}
	if !dashboard.Withdrawal.Available {
		t.Fatalf("fresh dashboard must show an open withdrawal gate: %+v", dashboard.Withdrawal)
	}

	plan := e.createPlan(500, 50, 2, 30)
	e.activatePlan(actor, plan)
	e.meetQuota(actor, []domain.Video{e.createVideo("one"), e.createVideo("two")})

	dashboard, err = e.service.GetDashboard(ctx, actor)
	if err != nil {
		t.Fatalf("dashboard with plan: %v", err)
	}
	if !dashboard.PlanActive || dashboard.Plan == nil || dashboard.Plan.PlanID != plan.PlanID {
		t.Fatalf("dashboard plan mismatch: %+v", dashboard)
	}
	if !dashboard.Claim.CanClaim || dashboard.Claim.WatchedToday != 2 {
		t.Fatalf("claim snapshot = %+v, want claimable with 2 watches", dashboard.Claim)
	}
	if len(dashboard.TodaysWatches) != 2 {
		t.Fatalf("today's watches = %d, want 2", len(dashboard.TodaysWatches))
	}
	for _, watch := range dashboard.TodaysWatches {
		if watch.AccountID != actor.AccountID || watch.WatchDay != domain.DayKey(e.now, time.UTC) {
			t.Fatalf("unexpected watch on dashboard: %+v", watch)
		}
	}
	wantExpiry := e.now.AddDate(0, 0, 30)
	if dashboard.PlanExpiresAt == nil || !dashboard.PlanExpiresAt.Equal(wantExpiry) {
		t.Fatalf("plan expiry = %v, want %v", dashboard.PlanExpiresAt, wantExpiry)
	}

	if _, err := e.service.ClaimDailyReward(ctx, actor); err != nil {
		t.Fatalf("claim: %v", err)
	}
	dashboard, err = e.service.GetDashboard(ctx, actor)
	if err != nil {
		t.Fatalf("dashboard after claim: %v", err)
	}
	if dashboard.Claim.CanClaim || !dashboard.Claim.ClaimedToday {
		t.Fatalf("claim snapshot after payout = %+v", dashboard.Claim)
	}
	if dashboard.Balance != 50 {
		t.Fatalf("dashboard balance = %v, want 50", dashboard.Balance)
	}
}

func TestCatalogVisibility(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)

	e.createPlan(500, 25, 2, 30)
	retired := domain.Plan{PlanID: uuid.New(), Name: "Retired", Price: 100, VideosPerDay: 1, ValidityDays: 30, Active: false}
	if err := e.store.Plans().Create(ctx, retired); err != nil {
		t.Fatalf("seed retired plan: %v", err)
	}

	userPlans, err := e.service.ListPlans(ctx, actor)
	if err != nil {
		t.Fatalf("list plans as user: %v", err)
	}
	if len(userPlans) != 1 {
		t.Fatalf("user sees %d plans, want 1", len(userPlans))
	}
	adminPlans, err := e.service.ListPlans(ctx, e.admin)
	if err != nil {
		t.Fatalf("list plans as admin: %v", err)
	}
	if len(adminPlans) != 2 {
		t.Fatalf("admin sees %d plans, want 2", len(adminPlans))
	}

	if _, err := e.service.CreatePlan(ctx, actor, application.CreatePlanRequest{Name: "Nope", VideosPerDay: 1, ValidityDays: 1}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user create plan: got %v, want ErrForbidden", err)
	}
}

func TestAdminListingsRequireAdmin(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	ctx := context.Background()

	resp := e.register("jane@example.com", "")
	actor := actorFor(resp.Account)

	if _, err := e.service.ListAccounts(ctx, actor, 10, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list accounts: got %v, want ErrForbidden", err)
	}
	if _, err := e.service.ListTransactionsByStatus(ctx, actor, domain.TransactionStatusPending, 10, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list transactions: got %v, want ErrForbidden", err)
	}
	if _, err := e.service.ListWithdrawalsByStatus(ctx, actor, domain.WithdrawalStatusPending, 10, 0); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("list withdrawals: got %v, want ErrForbidden", err)
	}

	accounts, err := e.service.ListAccounts(ctx, e.admin, 10, 0)
	if err != nil {
		t.Fatalf("list accounts as admin: %v", err)
	}
	if accounts.Total != 1 {
		t.Fatalf("accounts total = %d, want 1", accounts.Total)
	}
}

func TestTokenSignerRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := security.NewEphemeralJWTSigner("test-key")
	if err != nil {
		t.Fatalf("create signer: %v", err)
	}
	in := ports.AuthClaims{
		AccountID: uuid.New(),
		Email:     "jane@example.com",
		Role:      domain.RoleUser,
		TokenID:   uuid.New(),
		IssuedAt:  time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}
	raw, err := signer.Sign(in)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	out, err := signer.ParseAndValidate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if out.AccountID != in.AccountID || out.TokenID != in.TokenID || out.Role != in.Role {
		t.Fatalf("claims round trip mismatch: %+v != %+v", out, in)
	}
	if out.KeyID != "test-key" {
		t.Fatalf("kid = %q, want test-key", out.KeyID)
	}

	expired := in
	expired.IssuedAt = time.Now().UTC().Add(-2 * time.Hour)
	expired.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	raw, err = signer.Sign(expired)
	if err != nil {
		t.Fatalf("sign expired: %v", err)
	}
	if _, err := signer.ParseAndValidate(raw); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expired token: got %v, want ErrTokenExpired", err)
	}
}
