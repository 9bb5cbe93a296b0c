package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"starfield-server/internal/shared/errors"
	"starfield-server/internal/shared/response"
	"starfield-server/internal/universe"
)

type ChunkHandler struct {
	service *universe.Service
	logger  *slog.Logger
}

func NewChunkHandler(service *universe.Service, logger *slog.Logger) *ChunkHandler {
	return &ChunkHandler{
		service: service,
		logger:  logger,
	}
}

// chunkResponse wraps a chunk with its flattened planet list, which is
// not part of the chunk's own JSON encoding.
type chunkResponse struct {
	*universe.Chunk
	FlatPlanets []*universe.Planet `json:"flat_planets"`
}

// GetChunk handles GET /api/universes/{id}/chunks/{coords} where coords
// is "ix,iy". Generates and caches the chunk on first access.
func (h *ChunkHandler) GetChunk(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "get_chunk")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	ix, iy, err := parseChunkCoords(r.PathValue("coords"))
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	mgr, err := h.service.Manager(id)
	if err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	chunk := mgr.GetChunk(ix, iy)
	response.Success(w, http.StatusOK, chunkResponse{Chunk: chunk, FlatPlanets: chunk.Planets})
}

// Locate handles GET /api/universes/{id}/locate/{entity}: resolves a
// deep-link id to its entity, generating the owning chunk if needed.
func (h *ChunkHandler) Locate(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "locate")

	id, err := universeID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	entityID := r.PathValue("entity")
	mgr, err := h.service.Manager(id)
	if err != nil {
		response.Error(w, r, logger.With("universe_id", id), err)
		return
	}

	resolved, err := mgr.Resolve(entityID)
	if err != nil {
		response.Error(w, r, logger.With("entity_id", entityID), err)
		return
	}

	response.Success(w, http.StatusOK, resolved)
}

func parseChunkCoords(raw string) (int, int, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return 0, 0, errors.Validationf("chunk coordinates must be \"ix,iy\", got %q", raw)
	}
	ix, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, errors.WrapValidation("invalid chunk x coordinate", err)
	}
	iy, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, errors.WrapValidation("invalid chunk y coordinate", err)
	}
	return ix, iy, nil
}
