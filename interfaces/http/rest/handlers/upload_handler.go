package handlers

import (
	"fmt"
	"net/http"

	"schoolhub-backend/application/services"
	"schoolhub-backend/application/upload"
	"schoolhub-backend/pkg/common"
	apperrors "schoolhub-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxUploadBody bounds the request body; a 4000-row workbook encodes well
// under this.
const maxUploadBody = 32 << 20

// UploadHandler handles bulk spreadsheet uploads.
type UploadHandler struct {
	uploads *services.UploadService
	logger  *zap.Logger
}

// NewUploadHandler creates an upload handler.
func NewUploadHandler(uploads *services.UploadService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{uploads: uploads, logger: logger}
}

// UploadRequest is the body for POST /upload/{entity}.
type UploadRequest struct {
	File string `json:"file"`
}

// Upload handles POST /upload/{entity}
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	var req UploadRequest
	if err := common.ParseJSONBody(w, r, &req, maxUploadBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	uploadID, result, err := h.uploads.Run(r.Context(), entity, req.File)
	if err != nil {
		if result != nil {
			// Rows were examined but nothing was processed; return the tally
			// with the collected row errors.
			common.RespondJSON(w, apperrors.StatusFor(err), uploadBody(false, errorMessage(err), uploadID, result))
			return
		}
		status := apperrors.StatusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("Upload failed",
				zap.String("entity", entity),
				zap.Error(err),
			)
		}
		response := common.ErrorResponse{Success: false, Message: errorMessage(err)}
		if appErr := apperrors.GetAppError(err); appErr != nil && appErr.Details != nil {
			common.RespondJSON(w, status, map[string]interface{}{
				"success": false,
				"message": appErr.Message,
				"details": appErr.Details,
			})
			return
		}
		common.RespondJSON(w, status, response)
		return
	}

	message := fmt.Sprintf("processed %d rows (%d inserted, %d updated)",
		result.Processed, result.Inserted, result.Updated)
	common.RespondJSON(w, http.StatusOK, uploadBody(true, message, uploadID, result))
}

func uploadBody(success bool, message, uploadID string, result *upload.Result) map[string]interface{} {
	body := map[string]interface{}{
		"success":   success,
		"message":   message,
		"upload_id": uploadID,
		"processed": result.Processed,
		"inserted":  result.Inserted,
		"updated":   result.Updated,
	}
	if len(result.Errors) > 0 {
		body["errors"] = result.Errors
	}
	return body
}
