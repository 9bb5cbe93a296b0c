package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"starfield-server/internal/shared/errors"
	"starfield-server/internal/shared/response"
)

type TokenHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewTokenHandler(service *Service, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger,
	}
}

type tokenRequest struct {
	AdminKey string `json:"admin_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// IssueToken handles POST /auth/token: exchanges the admin key for a JWT.
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.With("handler", "issue_token")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	if !h.service.CheckAdminKey(req.AdminKey) {
		response.Error(w, r, logger, errors.Unauthorized("invalid admin key"))
		return
	}

	token, err := h.service.IssueAdminToken()
	if err != nil {
		response.Error(w, r, logger, errors.WrapInternal("failed to sign token", err))
		return
	}

	logger.Info("Admin token issued")
	response.Success(w, http.StatusOK, tokenResponse{Token: token})
}
