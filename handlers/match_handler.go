package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-league/middleware"
	"github.com/Dosada05/tournament-league/services"
)

type submitScoreRequest struct {
	Score1 *int `json:"score1" validate:"required"`
	Score2 *int `json:"score2" validate:"required"`
}

type disputeScoreRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type MatchHandler struct {
	responder
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		responder:    responder{logger: logger},
		matchService: ms,
	}
}

// SubmitScoreHandler handles POST /matches/{matchID}/score.
func (h *MatchHandler) SubmitScoreHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, matchID, ok := h.actorAndMatch(w, r)
	if !ok {
		return
	}

	var input submitScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		h.failedValidationResponse(w, r, validationErrors(err))
		return
	}

	match, err := h.matchService.SubmitScore(r.Context(), matchID, currentUserID, *input.Score1, *input.Score2)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"match": match})
}

// ApproveScoreHandler handles POST /matches/{matchID}/approve.
func (h *MatchHandler) ApproveScoreHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, matchID, ok := h.actorAndMatch(w, r)
	if !ok {
		return
	}

	match, err := h.matchService.ApproveScore(r.Context(), matchID, currentUserID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"match": match})
}

// DisputeScoreHandler handles POST /matches/{matchID}/dispute.
func (h *MatchHandler) DisputeScoreHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, matchID, ok := h.actorAndMatch(w, r)
	if !ok {
		return
	}

	var input disputeScoreRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		h.failedValidationResponse(w, r, validationErrors(err))
		return
	}

	match, err := h.matchService.DisputeScore(r.Context(), matchID, currentUserID, input.Reason)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"match": match})
}

func (h *MatchHandler) actorAndMatch(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return "", "", false
	}
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return "", "", false
	}
	return currentUserID, matchID, true
}
