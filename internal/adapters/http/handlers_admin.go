package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/application"
	"github.com/videarn/ledger-service/internal/domain"
)

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "create_plan")
		return
	}
	var req application.CreatePlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_plan", err)
		return
	}
	plan, err := h.service.CreatePlan(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_plan", err)
		return
	}
	writeSuccess(w, http.StatusCreated, plan)
}

func (h *Handler) createVideo(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "create_video")
		return
	}
	var req application.CreateVideoRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "create_video", err)
		return
	}
	video, err := h.service.CreateVideo(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "create_video", err)
		return
	}
	writeSuccess(w, http.StatusCreated, video)
}

func (h *Handler) listTransactionsByStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_transactions")
		return
	}
	status := domain.TransactionStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.TransactionStatusPending
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListTransactionsByStatus(r.Context(), actor, status, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_transactions", err)
		return
	}
	writeListSuccess(w, "transactions", out.Items, limit, offset, out.Total)
}

func (h *Handler) approveTransaction(w http.ResponseWriter, r *http.Request) {
	h.decideTransaction(w, r, "approve_transaction", h.service.ApproveTransaction)
}

func (h *Handler) rejectTransaction(w http.ResponseWriter, r *http.Request) {
	h.decideTransaction(w, r, "reject_transaction", h.service.RejectTransaction)
}

func (h *Handler) decideTransaction(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	decide func(ctx context.Context, actor application.Actor, id uuid.UUID) (domain.Transaction, error),
) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, operation)
		return
	}
	transactionID, err := uuid.Parse(chi.URLParam(r, "transaction_id"))
	if err != nil {
		writeMappedError(r.Context(), w, operation, domain.ErrInvalidInput)
		return
	}
	tx, err := decide(r.Context(), actor, transactionID)
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeSuccess(w, http.StatusOK, tx)
}

func (h *Handler) listWithdrawalsByStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_withdrawals")
		return
	}
	status := domain.WithdrawalStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = domain.WithdrawalStatusPending
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListWithdrawalsByStatus(r.Context(), actor, status, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_withdrawals", err)
		return
	}
	writeListSuccess(w, "withdrawals", out.Items, limit, offset, out.Total)
}

func (h *Handler) approveWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.decideWithdrawal(w, r, "approve_withdrawal", h.service.ApproveWithdrawal)
}

func (h *Handler) rejectWithdrawal(w http.ResponseWriter, r *http.Request) {
	h.decideWithdrawal(w, r, "reject_withdrawal", h.service.RejectWithdrawal)
}

func (h *Handler) decideWithdrawal(
	w http.ResponseWriter,
	r *http.Request,
	operation string,
	decide func(ctx context.Context, actor application.Actor, id uuid.UUID) (domain.Withdrawal, error),
) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, operation)
		return
	}
	withdrawalID, err := uuid.Parse(chi.URLParam(r, "withdrawal_id"))
	if err != nil {
		writeMappedError(r.Context(), w, operation, domain.ErrInvalidInput)
		return
	}
	withdrawal, err := decide(r.Context(), actor, withdrawalID)
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeSuccess(w, http.StatusOK, withdrawal)
}

func (h *Handler) listAccounts(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_accounts")
		return
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListAccounts(r.Context(), actor, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_accounts", err)
		return
	}
	writeListSuccess(w, "accounts", out.Items, limit, offset, out.Total)
}

func (h *Handler) banAccount(w http.ResponseWriter, r *http.Request) {
	h.setBan(w, r, "ban_account", true)
}

func (h *Handler) unbanAccount(w http.ResponseWriter, r *http.Request) {
	h.setBan(w, r, "unban_account", false)
}

func (h *Handler) setBan(w http.ResponseWriter, r *http.Request, operation string, banned bool) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, operation)
		return
	}
	accountID, err := uuid.Parse(chi.URLParam(r, "account_id"))
	if err != nil {
		writeMappedError(r.Context(), w, operation, domain.ErrInvalidInput)
		return
	}
	account, err := h.service.SetAccountBan(r.Context(), actor, accountID, banned)
	if err != nil {
		writeMappedError(r.Context(), w, operation, err)
		return
	}
	writeSuccess(w, http.StatusOK, account)
}
