package handlers

import (
	"context"
	"net/http"

	"spellbee/internal/middleware"
	"spellbee/internal/model"
	"spellbee/internal/service"
	"spellbee/internal/webutil"
)

type PracticeHandler struct {
	service service.PracticeService
}

func NewPracticeHandler(s service.PracticeService) *PracticeHandler {
	return &PracticeHandler{service: s}
}

// Start は {"mode": "new" | "wrong"} で練習を開始します
func (h *PracticeHandler) Start(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.StartPracticeRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid start practice request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	var resp *model.PracticeStateResponse
	switch req.Mode {
	case model.PracticeModeWrong:
		resp, err = h.service.StartWrongWords(r.Context(), identity.UserID)
	default:
		resp, err = h.service.StartNew(r.Context(), identity.UserID)
	}
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// Guess は出題中の単語への回答を受け付けます
func (h *PracticeHandler) Guess(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.GuessRequest
	if err := webutil.DecodeAndValidate(r, &req); err != nil {
		logger.Warn("Invalid guess request", "error", err)
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := h.service.Submit(r.Context(), identity.UserID, req.Guess)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

func (h *PracticeHandler) GetState(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.State)
}

func (h *PracticeHandler) Quit(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Quit)
}

func (h *PracticeHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Resume)
}

// GetResumeOffer は再開できるセッションがあるかを返します
func (h *PracticeHandler) GetResumeOffer(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	offer, err := h.service.ResumeOffer(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, offer, logger)
}

// GetAudio は出題中の単語の音声を返します。何度呼んでもよい
func (h *PracticeHandler) GetAudio(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	audio, err := h.service.Audio(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithAudio(w, audio.ContentType, audio.Data, logger)
}

type stateFunc func(ctx context.Context, userID string) (*model.PracticeStateResponse, error)

func (h *PracticeHandler) respond(w http.ResponseWriter, r *http.Request, fn stateFunc) {
	logger := middleware.GetLogger(r.Context())

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resp, err := fn(r.Context(), identity.UserID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}
