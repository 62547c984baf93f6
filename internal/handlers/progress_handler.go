package handlers

import (
	"net/http"

	"spellbee/internal/middleware"
	"spellbee/internal/service"
	"spellbee/internal/webutil"
)

type ProgressHandler struct {
	service service.PracticeService
}

func NewProgressHandler(s service.PracticeService) *ProgressHandler {
	return &ProgressHandler{service: s}
}

// GetSummary は進捗サマリと単語ごとの結果を返します
func (h *ProgressHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, summary, logger)
}

// Reset は進捗と保存済みセッションを削除します
func (h *ProgressHandler) Reset(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.Reset(r.Context(), identity.UserID); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Progress reset by user")
	w.WriteHeader(http.StatusNoContent)
}
