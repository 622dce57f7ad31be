package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/videarn/ledger-service/internal/domain"
)

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "get_dashboard")
		return
	}
	dashboard, err := h.service.GetDashboard(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "get_dashboard", err)
		return
	}
	writeSuccess(w, http.StatusOK, dashboard)
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_plans")
		return
	}
	plans, err := h.service.ListPlans(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "list_plans", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"plans": plans})
}

func (h *Handler) listVideos(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_videos")
		return
	}
	videos, err := h.service.ListVideos(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "list_videos", err)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"videos": videos})
}

func (h *Handler) recordWatch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "record_watch")
		return
	}
	videoID, err := uuid.Parse(chi.URLParam(r, "video_id"))
	if err != nil {
		writeMappedError(r.Context(), w, "record_watch", domain.ErrInvalidInput)
		return
	}
	watch, err := h.service.RecordWatch(r.Context(), actor, videoID)
	if err != nil {
		writeMappedError(r.Context(), w, "record_watch", err)
		return
	}
	writeSuccess(w, http.StatusCreated, watch)
}

func (h *Handler) claimDailyReward(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "claim_daily_reward")
		return
	}
	claim, err := h.service.ClaimDailyReward(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "claim_daily_reward", err)
		return
	}
	writeSuccess(w, http.StatusCreated, claim)
}

func (h *Handler) listClaims(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "list_claims")
		return
	}
	limit, offset := pageParams(r)
	out, err := h.service.ListClaims(r.Context(), actor, limit, offset)
	if err != nil {
		writeMappedError(r.Context(), w, "list_claims", err)
		return
	}
	writeListSuccess(w, "claims", out.Items, limit, offset, out.Total)
}

func (h *Handler) getReferralSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(r)
	if !ok {
		writeMissingActorError(r.Context(), w, "get_referral_summary")
		return
	}
	summary, err := h.service.GetReferralSummary(r.Context(), actor)
	if err != nil {
		writeMappedError(r.Context(), w, "get_referral_summary", err)
		return
	}
	writeSuccess(w, http.StatusOK, summary)
}
