package ports

import (
	"context"
	"time"
)

// UploadEvent is the audit event emitted after a bulk upload finishes.
type UploadEvent struct {
	UploadID   string    `json:"upload_id"`
	Entity     string    `json:"entity"`
	Processed  int       `json:"processed"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	ErrorCount int       `json:"error_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes audit events. Implementations are best-effort;
// callers log and continue on failure.
type EventPublisher interface {
	PublishUploadCompleted(ctx context.Context, event UploadEvent) error
}

// MetricsRecorder emits operational metrics. Implementations are
// best-effort and must never fail the request path.
type MetricsRecorder interface {
	RecordUpload(ctx context.Context, entity string, processed, inserted, updated, failed int)
	RecordClick(ctx context.Context, gameID string, marksAwarded int)
}
