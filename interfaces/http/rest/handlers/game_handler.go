package handlers

import (
	"errors"
	"io"
	"net/http"

	"schoolhub-backend/application/services"
	"schoolhub-backend/pkg/common"
	apperrors "schoolhub-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GameHandler handles game click requests.
type GameHandler struct {
	clicks *services.ClickService
	logger *zap.Logger
}

// NewGameHandler creates a game handler.
func NewGameHandler(clicks *services.ClickService, logger *zap.Logger) *GameHandler {
	return &GameHandler{clicks: clicks, logger: logger}
}

// ClickRequest is the optional body for POST /games/{gameID}/click.
type ClickRequest struct {
	StudentID string `json:"student_id,omitempty"`
	Role      string `json:"role,omitempty"`
}

// Click handles POST /games/{gameID}/click
func (h *GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	if gameID == "" {
		common.RespondError(w, http.StatusBadRequest, "game id is required")
		return
	}

	// The body is optional; anonymous clicks send nothing at all.
	var req ClickRequest
	if err := common.ParseJSONBody(w, r, &req, 1<<16); err != nil && !errors.Is(err, io.EOF) {
		common.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.clicks.Click(r.Context(), gameID, req.StudentID, req.Role)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("Click failed",
				zap.String("gameID", gameID),
				zap.Error(err),
			)
		}
		common.RespondError(w, apperrors.StatusFor(err), errorMessage(err))
		return
	}

	body := map[string]interface{}{
		"success":           true,
		"accumulated_click": result.AccumulatedClick,
	}
	if result.Marks != nil {
		body["marks"] = *result.Marks
	}
	common.RespondJSON(w, http.StatusOK, body)
}
