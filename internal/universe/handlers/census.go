package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gocarina/gocsv"

	"starfield-server/internal/shared/errors"
	"starfield-server/internal/shared/response"
	"starfield-server/internal/universe"
)

type CensusHandler struct {
	service *universe.Service
	logger  *slog.Logger
}

func NewCensusHandler(service *universe.Service, logger *slog.Logger) *CensusHandler {
	return &CensusHandler{
		service: service,
		logger:  logger,
	}
}

// Stats handles GET /api/universes/{id}/stats?radius=N: generation
// statistics over the chunk block around the origin. Radius defaults to 2
// and must be in [0, 8]; larger values are rejected, not clamped.
func (h *CensusHandler) Stats(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "stats")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	radius, err := censusRadius(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	mgr, err := h.service.Manager(id)
	if err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	response.Success(w, http.StatusOK, mgr.Census(radius))
}

// Catalog handles GET /api/universes/{id}/catalog.csv?radius=N: every
// star in the chunk block as a CSV download. Same radius bounds as Stats.
func (h *CensusHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "catalog")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	radius, err := censusRadius(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	mgr, err := h.service.Manager(id)
	if err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	rows := mgr.Catalog(radius)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"universe-%d-catalog.csv\"", id))
	if err := gocsv.Marshal(&rows, w); err != nil {
		// Headers are already out; all we can do is log.
		logger.Error("Failed to write catalog CSV", "universe_id", id, "error", err)
	}
}

// maxCensusRadius caps the chunk block a single request may generate.
const maxCensusRadius = 8

func censusRadius(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("radius")
	if raw == "" {
		return 2, nil
	}
	radius, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Validationf("invalid radius %q", raw)
	}
	if radius < 0 || radius > maxCensusRadius {
		return 0, errors.Validationf("radius %d out of range [0, %d]", radius, maxCensusRadius)
	}
	return radius, nil
}
