package handlers

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/Dosada05/tournament-league/middleware"
	"github.com/Dosada05/tournament-league/notify"
	"github.com/Dosada05/tournament-league/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	responder
	hub               *notify.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
}

// NewWebSocketHandler accepts upgrades from allowedOrigins only; requests without an Origin
// header (non-browser clients) are always accepted.
func NewWebSocketHandler(hub *notify.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		responder:         responder{logger: logger},
		hub:               hub,
		tournamentService: ts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin) || slices.Contains(allowedOrigins, "*")
			},
		},
	}
}

// ServeWs handles GET /ws/tournaments/{tournamentID}. Only members of the owning team may subscribe.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		h.unauthorizedResponse(w, r, "authentication required")
		return
	}
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if _, err := h.tournamentService.GetTournament(r.Context(), currentUserID, tournamentID); err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("tournament_id", tournamentID),
			slog.Any("error", err),
		)
		return
	}

	room := notify.RoomForTournament(tournamentID)
	if !h.hub.NewClient(conn, room).Serve() {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
		return
	}
	h.logger.DebugContext(r.Context(), "websocket client subscribed",
		slog.String("room", room),
		slog.String("user_id", currentUserID),
	)
}
