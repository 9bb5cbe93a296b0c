package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"starfield-server/internal/shared/errors"
	"starfield-server/internal/shared/response"
	"starfield-server/internal/universe"
)

type UniverseHandler struct {
	service *universe.Service
	logger  *slog.Logger
}

func NewUniverseHandler(service *universe.Service, logger *slog.Logger) *UniverseHandler {
	return &UniverseHandler{
		service: service,
		logger:  logger,
	}
}

type createUniverseRequest struct {
	Name          string  `json:"name"`
	Seed          string  `json:"seed"`
	StarDensity   float64 `json:"star_density"`
	PlanetDensity float64 `json:"planet_density"`
}

// CreateUniverse handles POST /api/universes - Admin only
func (h *UniverseHandler) CreateUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "create_universe")

	var req createUniverseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	u, err := h.service.CreateUniverse(req.Name, req.Seed, req.StarDensity, req.PlanetDensity)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, u)
}

// GetUniverses handles GET /api/universes
func (h *UniverseHandler) GetUniverses(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_universes")

	universes, err := h.service.ListUniverses()
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	if universes == nil {
		universes = []*universe.Universe{}
	}

	response.Success(w, http.StatusOK, universes)
}

// GetUniverse handles GET /api/universes/{id}
func (h *UniverseHandler) GetUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_universe")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	u, err := h.service.GetUniverse(id)
	if err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	response.Success(w, http.StatusOK, u)
}

// DeleteUniverse handles DELETE /api/universes/{id} - Admin only
func (h *UniverseHandler) DeleteUniverse(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "delete_universe")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.DeleteUniverse(id); err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// universeID extracts the {id} path value shared by all universe routes.
func universeID(r *http.Request) (int, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("universe id is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.Validationf("invalid universe id %q", idStr)
	}
	return id, nil
}
