package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/tournament-league/middleware"
	"github.com/Dosada05/tournament-league/services"
)

type addMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type TeamHandler struct {
	responder
	rosterService services.RosterService
}

func NewTeamHandler(rs services.RosterService, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		responder:     responder{logger: logger},
		rosterService: rs,
	}
}

// MyTeamHandler handles GET /teams/me.
func (h *TeamHandler) MyTeamHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}

	teamID, members, err := h.rosterService.MyTeam(r.Context(), currentUserID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusOK, jsonResponse{"team_id": teamID, "members": members})
}

// AddMemberHandler handles POST /teams/{teamID}/members.
func (h *TeamHandler) AddMemberHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input addMemberRequest
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validate.Struct(input); err != nil {
		h.failedValidationResponse(w, r, validationErrors(err))
		return
	}

	member, err := h.rosterService.AddMember(r.Context(), currentUserID, teamID, input.UserID)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.writeOrFail(w, r, http.StatusCreated, jsonResponse{"member": member})
}
