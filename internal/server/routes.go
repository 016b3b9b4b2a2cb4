package server

import (
	"database/sql"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/fahroox/attendance/internal/config"
)

func addRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, db *sql.DB, store Store, sessions *Registry, broker *Broker) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Studio Attendance API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Auth — no session required.
	r.Post("/api/auth/login", handleLogin(store))
	r.Post("/api/auth/logout", handleLogout(store, sessions))

	// Public studio list, rendered on the login screen.
	r.Get("/api/studios", handleListStudios(store))

	// Event stream authenticates via the session cookie itself; it stays
	// outside the middleware chain so the long-lived response is not
	// wrapped by the request logger.
	r.Get("/api/location/events", handleEvents(store, broker))

	// Session-scoped routes.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware(store))

		r.Get("/api/auth/me", handleMe())

		r.Post("/api/location/report", handleLocationReport(sessions))
		r.Get("/api/location/state", handleLocationState(sessions))
		r.Post("/api/location/clear", handleLocationClear(sessions))
		r.Post("/api/location/retry", handleLocationRetry(sessions))

		r.Get("/api/checkins/mine", handleListMyCheckIns(store))

		// Check-in requires passing the location gate.
		r.Group(func(r chi.Router) {
			r.Use(locationGate(sessions, logger, cfg.GateFallbackTimeout))
			r.Post("/api/checkins", handleCreateCheckIn(store, sessions))
		})
	})

	// Admin routes.
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authMiddleware(store))
		r.Use(adminMiddleware)

		r.Get("/users", handleListUsers(store))
		r.Post("/users", handleCreateUser(store))
		r.Get("/users/{id}", handleGetUser(store))
		r.Put("/users/{id}", handleUpdateUser(store))
		r.Delete("/users/{id}", handleDeleteUser(store))

		r.Get("/studios", handleListAllStudios(store))
		r.Post("/studios", handleCreateStudio(store, sessions, logger))
		r.Put("/studios/{id}", handleUpdateStudio(store, sessions, logger))
		r.Delete("/studios/{id}", handleDeleteStudio(store, sessions, logger))

		r.Get("/checkins", handleCheckInReport(store))
	})

	if cfg.SPADir != "" {
		if info, err := os.Stat(cfg.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", cfg.SPADir)
			r.NotFound(handleSPA(cfg.SPADir))
		}
	}
}
