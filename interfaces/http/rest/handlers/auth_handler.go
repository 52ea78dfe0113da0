package handlers

import (
	"net/http"

	"schoolhub-backend/application/services"
	"schoolhub-backend/pkg/common"
	apperrors "schoolhub-backend/pkg/errors"
	"schoolhub-backend/pkg/utils"

	"go.uber.org/zap"
)

// AuthHandler handles login requests.
type AuthHandler struct {
	auth   *services.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<16); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.auth.Login(r.Context(), req.ID, req.Password)
	if err != nil {
		if !apperrors.IsUnauthorized(err) {
			h.logger.Error("Login failed",
				zap.String("id", req.ID),
				zap.Error(err),
			)
		}
		common.RespondError(w, apperrors.StatusFor(err), errorMessage(err))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    result.User,
		"role":    result.Role,
		"token":   result.Token,
	})
}

// errorMessage returns the message a handler should echo for an error.
// AppError messages are already caller-safe; anything else is surfaced
// verbatim as a deliberate debug convenience.
func errorMessage(err error) string {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		return appErr.Message
	}
	return err.Error()
}
