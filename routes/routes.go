package routes

import (
	"log/slog"
	"net/http"

	_ "github.com/Dosada05/tournament-league/docs"
	"github.com/Dosada05/tournament-league/handlers"
	"github.com/Dosada05/tournament-league/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
	// Metrics serves GET /metrics; nil leaves the route out.
	Metrics http.Handler
	Logger  *slog.Logger
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	teamHandler *handlers.TeamHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics)
	}
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", tournamentHandler.ListHandler)
			r.Post("/", tournamentHandler.CreateHandler)

			r.Route("/{tournamentID}", func(r chi.Router) {
				r.Get("/", tournamentHandler.GetByIDHandler)
				r.Get("/matches", tournamentHandler.ListMatchesHandler)
				r.Get("/leaderboard", tournamentHandler.LeaderboardHandler)
				r.Patch("/status", tournamentHandler.UpdateStatusHandler)
			})
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Post("/score", matchHandler.SubmitScoreHandler)
			r.Post("/approve", matchHandler.ApproveScoreHandler)
			r.Post("/dispute", matchHandler.DisputeScoreHandler)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/me", teamHandler.MyTeamHandler)
			r.Post("/{teamID}/members", teamHandler.AddMemberHandler)
		})
	})

	router.With(authenticate).Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
