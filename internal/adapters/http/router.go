package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/videarn/ledger-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for ledger use-cases.
// Keeping only application dependency here preserves clean adapter boundaries.
type Handler struct {
	service *application.Service
}

// NewHandler constructs an HTTP handler bound to application service.
func NewHandler(service *application.Service) *Handler {
	return &Handler{service: service}
}

// NewRouter registers the HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/auth/register", handler.register)
		r.Post("/auth/login", handler.login)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Post("/auth/logout", handler.logout)
			r.Get("/dashboard", handler.getDashboard)

			r.Get("/plans", handler.listPlans)
			r.Get("/videos", handler.listVideos)
			r.Post("/videos/{video_id}/watch", handler.recordWatch)

			r.Post("/claims", handler.claimDailyReward)
			r.Get("/claims", handler.listClaims)

			r.Post("/purchases", handler.submitPurchase)
			r.Get("/purchases", handler.listMyTransactions)

			r.Get("/withdrawals/availability", handler.canWithdraw)
			r.Post("/withdrawals", handler.requestWithdrawal)
			r.Get("/withdrawals", handler.listMyWithdrawals)

			r.Get("/referrals", handler.getReferralSummary)

			r.Route("/admin", func(r chi.Router) {
				r.Use(handler.adminOnlyMiddleware)

				r.Post("/plans", handler.createPlan)
				r.Post("/videos", handler.createVideo)

				r.Get("/transactions", handler.listTransactionsByStatus)
				r.Post("/transactions/{transaction_id}/approve", handler.approveTransaction)
				r.Post("/transactions/{transaction_id}/reject", handler.rejectTransaction)

				r.Get("/withdrawals", handler.listWithdrawalsByStatus)
				r.Post("/withdrawals/{withdrawal_id}/approve", handler.approveWithdrawal)
				r.Post("/withdrawals/{withdrawal_id}/reject", handler.rejectWithdrawal)

				r.Get("/accounts", handler.listAccounts)
				r.Post("/accounts/{account_id}/ban", handler.banAccount)
				r.Post("/accounts/{account_id}/unban", handler.unbanAccount)
			})
		})
	})

	return r
}
