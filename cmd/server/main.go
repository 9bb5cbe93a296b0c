package main

import (
	"log/slog"
	"net/http"
	"os"

	"starfield-server/internal/auth"
	"starfield-server/internal/middleware"
	"starfield-server/internal/server"
	"starfield-server/internal/shared/config"
	"starfield-server/internal/shared/database"
	"starfield-server/internal/shared/logger"
	"starfield-server/internal/shared/redis"
	"starfield-server/internal/universe"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()
	cfg := config.GlobalConfig

	appLogger := slog.With("component", "main")
	appLogger.Info("Starting starfield server",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
	)

	db, err := database.Connect()
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()

		if err := db.RunMigrations(cfg.Database.MigrationsPath); err != nil {
			appLogger.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	cache, err := redis.Connect()
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	presets := universe.DefaultPresets()
	if cfg.Universe.PresetsPath != "" {
		presets, err = universe.LoadPresets(cfg.Universe.PresetsPath)
		if err != nil {
			appLogger.Error("Failed to load generation presets", "error", err, "path", cfg.Universe.PresetsPath)
			os.Exit(1)
		}
		appLogger.Info("Loaded generation preset overrides", "path", cfg.Universe.PresetsPath)
	}

	var repo universe.Repository
	if db != nil {
		repo = universe.NewPostgresRepository(db.DB, slog.With("component", "universe_repository"))
	} else {
		repo = universe.NewMemoryRepository()
	}

	universeService := universe.NewService(
		repo,
		presets,
		cache,
		cfg.Universe.CacheMaxChunks,
		slog.With("component", "universe_service"),
	)

	if _, err := universeService.EnsureDefault(
		cfg.Universe.DefaultName,
		cfg.Universe.DefaultSeed,
		cfg.Universe.StarDensity,
		cfg.Universe.PlanetDensity,
	); err != nil {
		appLogger.Error("Failed to ensure default universe", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(cfg.Auth, slog.With("component", "auth_service"))

	routes := server.NewRoutes(db, cache, universeService, authService, slog.With("component", "handlers"))
	mux := routes.Setup()

	corsMiddleware := middleware.NewCORS()
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})

	handler := middleware.RequestID(rateLimiter.Middleware(corsMiddleware.Middleware(mux)))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	appLogger.Info("Server listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		appLogger.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
