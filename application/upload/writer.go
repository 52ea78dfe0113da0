package upload

import (
	"context"
	"fmt"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"

	"go.uber.org/zap"
)

// Result is the caller-visible tally of one upload.
type Result struct {
	Processed int      `json:"processed"`
	Inserted  int      `json:"inserted"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"errors,omitempty"`
}

// BatchWriter persists reconciled records in bounded-size batches with
// graceful degradation: unprocessed items are retried individually, and a
// failed batch call falls back to writing every item in the chunk one at a
// time.
type BatchWriter struct {
	store  ports.RecordStore
	spec   EntitySpec
	logger *zap.Logger
}

// NewBatchWriter creates a writer for one entity pipeline.
func NewBatchWriter(store ports.RecordStore, spec EntitySpec, logger *zap.Logger) *BatchWriter {
	return &BatchWriter{store: store, spec: spec, logger: logger}
}

// Write persists the intents and returns the running tally. Unchanged rows
// count as processed without a write.
func (w *BatchWriter) Write(ctx context.Context, intents []WriteIntent) *Result {
	result := &Result{}

	writable := make([]WriteIntent, 0, len(intents))
	for _, intent := range intents {
		if intent.Kind == IntentUnchanged {
			result.Processed++
			continue
		}
		writable = append(writable, intent)
	}

	for start := 0; start < len(writable); start += ports.BatchLimit {
		end := start + ports.BatchLimit
		if end > len(writable) {
			end = len(writable)
		}
		w.writeChunk(ctx, writable[start:end], result)
	}

	return result
}

// writeChunk issues one batch write for up to BatchLimit intents.
func (w *BatchWriter) writeChunk(ctx context.Context, chunk []WriteIntent, result *Result) {
	byKey := make(map[string]WriteIntent, len(chunk))
	records := make([]school.Record, 0, len(chunk))
	for _, intent := range chunk {
		byKey[intent.Key] = intent
		records = append(records, intent.Record)
	}

	unprocessed, err := w.store.BatchPut(ctx, w.spec.Table, records)
	if err != nil {
		// The whole call failed; write every item individually instead.
		w.logger.Warn("Batch write failed, falling back to individual writes",
			zap.String("entity", w.spec.Name),
			zap.Int("items", len(chunk)),
			zap.Error(err),
		)
		for _, intent := range chunk {
			w.writeOne(ctx, intent, result)
		}
		return
	}

	// Optimistically count the whole chunk, then walk back anything the
	// store reported as unprocessed and could not be written individually.
	for _, intent := range chunk {
		w.count(intent, result, +1)
	}
	for _, record := range unprocessed {
		key := record.String(w.spec.Table.Key)
		intent, ok := byKey[key]
		if !ok {
			w.logger.Error("Store returned unprocessed item outside the chunk",
				zap.String("entity", w.spec.Name),
				zap.String("key", key),
			)
			continue
		}
		if putErr := w.store.Put(ctx, w.spec.Table, intent.Record); putErr != nil {
			w.count(intent, result, -1)
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %s: write failed: %v", w.spec.Name, key, putErr))
		}
	}
}

// writeOne writes a single intent, updating the tally on success and
// recording a row-scoped error on failure.
func (w *BatchWriter) writeOne(ctx context.Context, intent WriteIntent, result *Result) {
	if err := w.store.Put(ctx, w.spec.Table, intent.Record); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%s %s: write failed: %v", w.spec.Name, intent.Key, err))
		return
	}
	w.count(intent, result, +1)
}

func (w *BatchWriter) count(intent WriteIntent, result *Result, delta int) {
	result.Processed += delta
	switch intent.Kind {
	case IntentInsert:
		result.Inserted += delta
	case IntentUpdate:
		result.Updated += delta
	}
}
