package server

import (
	"log/slog"
	"net/http"

	"starfield-server/internal/auth"
	"starfield-server/internal/middleware"
	serverHandlers "starfield-server/internal/server/handlers"
	"starfield-server/internal/shared/database"
	"starfield-server/internal/shared/redis"
	"starfield-server/internal/universe"
	universeHandlers "starfield-server/internal/universe/handlers"
)

type Routes struct {
	db              *database.DB
	cache           *redis.Client
	universeService *universe.Service
	authService     *auth.Service
	logger          *slog.Logger
}

func NewRoutes(db *database.DB, cache *redis.Client, universeService *universe.Service, authService *auth.Service, logger *slog.Logger) *Routes {
	return &Routes{
		db:              db,
		cache:           cache,
		universeService: universeService,
		authService:     authService,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache)
	universeHandler := universeHandlers.NewUniverseHandler(r.universeService, r.logger)
	chunkHandler := universeHandlers.NewChunkHandler(r.universeService, r.logger)
	censusHandler := universeHandlers.NewCensusHandler(r.universeService, r.logger)
	tokenHandler := auth.NewTokenHandler(r.authService, r.logger)

	// Public endpoints
	mux.Handle("/api/server/health", healthHandler)
	mux.HandleFunc("GET /api/universes", universeHandler.GetUniverses)
	mux.HandleFunc("GET /api/universes/{id}", universeHandler.GetUniverse)
	mux.HandleFunc("GET /api/universes/{id}/chunks/{coords}", chunkHandler.GetChunk)
	mux.HandleFunc("GET /api/universes/{id}/locate/{entity}", chunkHandler.Locate)
	mux.HandleFunc("GET /api/universes/{id}/stats", censusHandler.Stats)
	mux.HandleFunc("GET /api/universes/{id}/catalog.csv", censusHandler.Catalog)

	// Admin-only endpoints (registry mutation)
	mux.Handle("POST /api/universes", middleware.RequireAdmin(r.authService, http.HandlerFunc(universeHandler.CreateUniverse)))
	mux.Handle("DELETE /api/universes/{id}", middleware.RequireAdmin(r.authService, http.HandlerFunc(universeHandler.DeleteUniverse)))

	// Auth endpoints
	mux.HandleFunc("/auth/token", tokenHandler.IssueToken)

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{
			"/api/server/health",
			"/api/universes",
			"/api/universes/{id}",
			"/api/universes/{id}/chunks/{coords}",
			"/api/universes/{id}/locate/{entity}",
			"/api/universes/{id}/stats",
			"/api/universes/{id}/catalog.csv",
		},
		"admin_endpoints", []string{"POST /api/universes", "DELETE /api/universes/{id}"},
		"auth_endpoints", []string{"/auth/token"},
	)

	return mux
}
