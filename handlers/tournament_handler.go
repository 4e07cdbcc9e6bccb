package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/tournament-league/middleware"
	"github.com/Dosada05/tournament-league/models"
	"github.com/Dosada05/tournament-league/services"
)

type createTournamentRequest struct {
	Name           string    `json:"name" validate:"required,max=200"`
	ParticipantIDs []string  `json:"participant_ids" validate:"required"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled active completed"`
}

type TournamentHandler struct {
	responder
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService, logger *slog.Logger) *TournamentHandler {
	return &TournamentHandler{
		responder:         responder{logger: logger},
		tournamentService: ts,
	}
}

// CreateHandler handles POST /tournaments.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var input createTournamentRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		h.failedValidationResponse(w, r, validationErrors(err))
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), currentUserID, services.CreateTournamentInput{
		Name:           input.Name,
		ParticipantIDs: input.ParticipantIDs,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
	})
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusCreated, jsonResponse{"tournament": tournament})
}

// ListHandler handles GET /tournaments with an optional ?status= filter.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}

	var status *models.TournamentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TournamentStatus(raw)
		status = &s
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), currentUserID, status)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"tournaments": tournaments})
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetTournament(r.Context(), currentUserID, id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}

// ListMatchesHandler handles GET /tournaments/{tournamentID}/matches with an optional ?player_id= filter.
func (h *TournamentHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.tournamentService.ListMatches(r.Context(), currentUserID, id, r.URL.Query().Get("player_id"))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"matches": matches})
}

// LeaderboardHandler handles GET /tournaments/{tournamentID}/leaderboard.
func (h *TournamentHandler) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	leaderboard, err := h.tournamentService.GetLeaderboard(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"leaderboard": leaderboard})
}

// UpdateStatusHandler handles PATCH /tournaments/{tournamentID}/status.
func (h *TournamentHandler) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input updateStatusRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		h.failedValidationResponse(w, r, validationErrors(err))
		return
	}

	tournament, err := h.tournamentService.UpdateTournamentStatus(r.Context(), currentUserID, id, models.TournamentStatus(input.Status))
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"tournament": tournament})
}
