package application

import (
	"log/slog"
	"time"

	"github.com/videarn/ledger-service/internal/ports"
)

// Config carries the business rules the engine needs beyond persisted state.
// Boundaries ("today", "this week") are evaluated in BusinessTimezone so the
// server clock, not the client clock, decides eligibility windows.
type Config struct {
	BusinessTimezone *time.Location
	MinWithdrawal    float64
	ReferralBonus    float64
	TokenTTL         time.Duration
	ClaimGuardTTL    time.Duration
	DefaultRole      string
}

type Service struct {
	cfg         Config
	logger      *slog.Logger
	accounts    ports.AccountRepository
	plans       ports.PlanRepository
	videos      ports.VideoRepository
	watches     ports.WatchRepository
	claims      ports.ClaimRepository
	purchases   ports.TransactionRepository
	withdrawals ports.WithdrawalRepository
	outbox      ports.OutboxRepository
	claimGuard  ports.ClaimGuard
	denylist    ports.TokenDenylist
	hasher      ports.PasswordHasher
	tokenSigner ports.TokenSigner
	nowFn       func() time.Time
}

type Dependencies struct {
	Config      Config
	Logger      *slog.Logger
	Accounts    ports.AccountRepository
	Plans       ports.PlanRepository
	Videos      ports.VideoRepository
	Watches     ports.WatchRepository
	Claims      ports.ClaimRepository
	Purchases   ports.TransactionRepository
	Withdrawals ports.WithdrawalRepository
	Outbox      ports.OutboxRepository
	ClaimGuard  ports.ClaimGuard
	Denylist    ports.TokenDenylist
	Hasher      ports.PasswordHasher
	TokenSigner ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.BusinessTimezone == nil {
		cfg.BusinessTimezone = time.UTC
	}
	if cfg.MinWithdrawal <= 0 {
		cfg.MinWithdrawal = 200
	}
	if cfg.ReferralBonus <= 0 {
		cfg.ReferralBonus = 100
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.ClaimGuardTTL <= 0 {
		cfg.ClaimGuardTTL = 30 * time.Second
	}
	if cfg.DefaultRole == "" {
		cfg.DefaultRole = "user"
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:         cfg,
		logger:      logger.With("module", "application", "layer", "service"),
		accounts:    deps.Accounts,
		plans:       deps.Plans,
		videos:      deps.Videos,
		watches:     deps.Watches,
		claims:      deps.Claims,
		purchases:   deps.Purchases,
		withdrawals: deps.Withdrawals,
		outbox:      deps.Outbox,
		claimGuard:  deps.ClaimGuard,
		denylist:    deps.Denylist,
		hasher:      deps.Hasher,
		tokenSigner: deps.TokenSigner,
		nowFn:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow overrides the clock. Test hook.
func (s *Service) WithNow(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}
