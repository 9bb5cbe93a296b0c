package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"starfield-server/internal/shared/database"
	"starfield-server/internal/shared/redis"
	"starfield-server/internal/shared/response"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
}

type HealthHandler struct {
	db    *database.DB
	cache *redis.Client
}

func NewHealthHandler(db *database.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "disconnected"
		if err := h.db.Ping(); err == nil {
			dbStatus = "connected"
		} else {
			logger.Warn("Database ping failed", "error", err)
		}
	}

	redisStatus := "disabled"
	if h.cache != nil {
		redisStatus = "disconnected"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx).Err(); err == nil {
			redisStatus = "connected"
		} else {
			logger.Warn("Redis ping failed", "error", err)
		}
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  dbStatus,
		Redis:     redisStatus,
	}

	response.Success(w, http.StatusOK, resp)
}
