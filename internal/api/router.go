package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fencetrack/fencetrack/internal/api/handlers"
	"github.com/fencetrack/fencetrack/internal/api/middleware"
	"github.com/fencetrack/fencetrack/internal/service"
	"github.com/fencetrack/fencetrack/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	competitionHandler := handlers.NewCompetitionHandler(services.Competition)
	playerHandler := handlers.NewPlayerHandler(services.Player)
	runHandler := handlers.NewRunHandler(services.Run, services.Ingest, services.Competition)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", authHandler.Token)

		// Public read routes
		r.Route("/competitions", func(r chi.Router) {
			r.Get("/", competitionHandler.List)
			r.Get("/{compKey}", competitionHandler.Get)
			r.Get("/{compKey}/events", competitionHandler.Events)
		})

		r.Route("/events/{eventId}", func(r chi.Router) {
			r.Get("/bouts", competitionHandler.EventBouts)
			r.Get("/rankings", competitionHandler.EventRankings)
			r.Get("/record", competitionHandler.EventRecord)
		})

		r.Get("/players", playerHandler.List)
		r.Get("/players/{playerId}", playerHandler.Get)
		r.Get("/gaps", runHandler.Gaps)
		r.Get("/conflicts", runHandler.Conflicts)
		r.Get("/runs/latest", runHandler.Latest)

		// Operator routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Post("/runs", runHandler.Trigger)
			r.Post("/fragments", runHandler.IngestFragment)
			r.Post("/players/aliases", playerHandler.CreateAlias)
			r.Get("/players/aliases", playerHandler.ListAliases)
			r.Get("/players/duplicates", playerHandler.ListDuplicates)
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
