package application

import (
	"time"

	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

// Actor identifies the authenticated caller of an operation. It is resolved
// once by the transport adapter and passed explicitly so the engine has no
// ambient session state.
type Actor struct {
	AccountID uuid.UUID
	Role      string
}

func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"display_name"`
	ReferralCode string `json:"referral_code,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	Account   domain.Account `json:"account"`
}

type PurchaseRequest struct {
	PlanID           uuid.UUID `json:"plan_id"`
	PaymentReference string    `json:"payment_reference"`
	ProofURL         string    `json:"proof_url"`
}

type WithdrawalRequest struct {
	Amount            float64 `json:"amount"`
	Method            string  `json:"method"`
	DestinationNumber string  `json:"destination_number"`
	DestinationName   string  `json:"destination_name"`
}

type CreatePlanRequest struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DailyEarning float64 `json:"daily_earning"`
	VideosPerDay int     `json:"videos_per_day"`
	ValidityDays int     `json:"validity_days"`
}

type CreateVideoRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	SourceURL       string `json:"source_url"`
	DurationSeconds int    `json:"duration_seconds"`
}

// Dashboard is the per-account read model behind the home screen. Every
// field is recomputed per request; nothing time-dependent is cached.
type Dashboard struct {
	Balance          float64                       `json:"balance"`
	ReferralEarnings float64                       `json:"referral_earnings"`
	Plan             *domain.Plan                  `json:"plan,omitempty"`
	PlanActive       bool                          `json:"plan_active"`
	PlanExpiresAt    *time.Time                    `json:"plan_expires_at,omitempty"`
	Claim            domain.ClaimEligibility       `json:"claim"`
	Withdrawal       domain.WithdrawalAvailability `json:"withdrawal"`
	TodaysWatches    []domain.WatchedVideo         `json:"todays_watches"`
}

type TransactionListOutput struct {
	Items []domain.Transaction `json:"items"`
	Total int                  `json:"total"`
}

type WithdrawalListOutput struct {
	Items []domain.Withdrawal `json:"items"`
	Total int                 `json:"total"`
}

type ClaimListOutput struct {
	Items []domain.DailyClaim `json:"items"`
	Total int                 `json:"total"`
}

type AccountListOutput struct {
	Items []domain.Account `json:"items"`
	Total int              `json:"total"`
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
