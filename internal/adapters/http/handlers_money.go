package http

import (
	"net/http"

	"github.com/videarn/ledger-service/internal/application"
)

func (h *Handler) submitPurchase(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "submit_purchase")
		return
	}
	var req application.PurchaseRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "submit_purchase", err)
		return
	}
	tx, err := h.service.SubmitPurchase(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "submit_purchase", err)
		return
	}
	writeSuccess(w, http.StatusCreated, tx)
}

func (h *Handler) listMyTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_my_transactions")
		return
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListMyTransactions(r.Context(), actor, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_my_transactions", err)
		return
	}
	writeListSuccess(w, "transactions", out.Items, limit, offset, out.Total)
}

func (h *Handler) canWithdraw(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "can_withdraw")
		return
	}
	availability, err := h.service.CanWithdraw(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "can_withdraw", err)
		return
	}
	writeSuccess(w, http.StatusOK, availability)
}

func (h *Handler) requestWithdrawal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "request_withdrawal")
		return
	}
	var req application.WithdrawalRequest
	if err := decodeBody(r, &req); err != nil {
		writeValidationError(r.Context(), w, "request_withdrawal", err)
		return
	}
	withdrawal, err := h.service.RequestWithdrawal(r.Context(), actor, req)
	if err != nil {
		writeMappedError(r.Context(), w, "request_withdrawal", err)
		return
	}
	writeSuccess(w, http.StatusCreated, withdrawal)
}

func (h *Handler) listMyWithdrawals(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_my_withdrawals")
		return
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListMyWithdrawals(r.Context(), actor, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_my_withdrawals", err)
		return
	}
	writeListSuccess(w, "withdrawals", out.Items, limit, offset, out.Total)
}
