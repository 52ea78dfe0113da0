package services

import (
	"context"
	"sort"
	"time"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/application/upload"
	apperrors "schoolhub-backend/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadService routes bulk uploads to the per-entity pipeline and emits
// the audit event and metrics once a pipeline finishes.
type UploadService struct {
	pipelines map[string]*upload.Pipeline
	publisher ports.EventPublisher
	metrics   ports.MetricsRecorder
	logger    *zap.Logger
}

// NewUploadService creates an upload service over the given pipelines,
// keyed by the plural entity name used in the URL ("students", "teachers",
// "games"). publisher and metrics may be nil.
func NewUploadService(
	pipelines map[string]*upload.Pipeline,
	publisher ports.EventPublisher,
	metrics ports.MetricsRecorder,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		pipelines: pipelines,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Entities lists the entity names the service accepts, sorted.
func (s *UploadService) Entities() []string {
	names := make([]string, 0, len(s.pipelines))
	for name := range s.pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run processes one upload and returns the upload id together with the
// tally. The returned result is non-nil whenever any rows were examined,
// even when err reports total failure.
func (s *UploadService) Run(ctx context.Context, entity, fileBase64 string) (string, *upload.Result, error) {
	pipeline, ok := s.pipelines[entity]
	if !ok {
		return "", nil, apperrors.NewNotFoundError("upload target")
	}

	uploadID := uuid.New().String()
	logger := s.logger.With(
		zap.String("uploadID", uploadID),
		zap.String("entity", entity),
	)
	logger.Info("Upload started")

	result, err := pipeline.Run(ctx, fileBase64)
	if result != nil {
		s.publish(ctx, uploadID, entity, result, logger)
	}
	return uploadID, result, err
}

// publish emits the audit event and metrics, best-effort.
func (s *UploadService) publish(ctx context.Context, uploadID, entity string, result *upload.Result, logger *zap.Logger) {
	if s.metrics != nil {
		s.metrics.RecordUpload(ctx, entity, result.Processed, result.Inserted, result.Updated, len(result.Errors))
	}

	if s.publisher == nil {
		return
	}
	event := ports.UploadEvent{
		UploadID:   uploadID,
		Entity:     entity,
		Processed:  result.Processed,
		Inserted:   result.Inserted,
		Updated:    result.Updated,
		ErrorCount: len(result.Errors),
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.PublishUploadCompleted(ctx, event); err != nil {
		logger.Warn("Failed to publish upload event", zap.Error(err))
	}
}
