package mocks

import (
	"context"
	"sync"

	"schoolhub-backend/application/ports"
)

// FakeEventPublisher records published upload events.
type FakeEventPublisher struct {
	mu     sync.Mutex
	Events []ports.UploadEvent
	Err    error
}

func (f *FakeEventPublisher) PublishUploadCompleted(ctx context.Context, event ports.UploadEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Events = append(f.Events, event)
	return nil
}

// UploadMetric is one RecordUpload call.
type UploadMetric struct {
	Entity    string
	Processed int
	Inserted  int
	Updated   int
	Failed    int
}

// ClickMetric is one RecordClick call.
type ClickMetric struct {
	GameID       string
	MarksAwarded int
}

// FakeMetricsRecorder records metric emissions.
type FakeMetricsRecorder struct {
	mu      sync.Mutex
	Uploads []UploadMetric
	Clicks  []ClickMetric
}

func (f *FakeMetricsRecorder) RecordUpload(ctx context.Context, entity string, processed, inserted, updated, failed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploads = append(f.Uploads, UploadMetric{Entity: entity, Processed: processed, Inserted: inserted, Updated: updated, Failed: failed})
}

func (f *FakeMetricsRecorder) RecordClick(ctx context.Context, gameID string, marksAwarded int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clicks = append(f.Clicks, ClickMetric{GameID: gameID, MarksAwarded: marksAwarded})
}
