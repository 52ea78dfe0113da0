package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"schoolhub-backend/application/services"
	"schoolhub-backend/pkg/common"
	apperrors "schoolhub-backend/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DownloadHandler streams entity tables as spreadsheet attachments.
type DownloadHandler struct {
	exports *services.ExportService
	logger  *zap.Logger
}

// NewDownloadHandler creates a download handler.
func NewDownloadHandler(exports *services.ExportService, logger *zap.Logger) *DownloadHandler {
	return &DownloadHandler{exports: exports, logger: logger}
}

// Download handles GET /{entity}/download
func (h *DownloadHandler) Download(w http.ResponseWriter, r *http.Request) {
	entity := chi.URLParam(r, "entity")

	filename, content, err := h.exports.Export(r.Context(), entity)
	if err != nil {
		if !apperrors.IsNotFound(err) {
			h.logger.Error("Download failed",
				zap.String("entity", entity),
				zap.Error(err),
			)
		}
		common.RespondError(w, apperrors.StatusFor(err), errorMessage(err))
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
