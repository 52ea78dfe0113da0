package upload

import (
	"context"

	"schoolhub-backend/application/ports"
	apperrors "schoolhub-backend/pkg/errors"

	"go.uber.org/zap"
)

// Pipeline is one entity's full upload workflow:
// decode -> validate -> reconcile -> write.
type Pipeline struct {
	spec       EntitySpec
	reconciler *Reconciler
	writer     *BatchWriter
	logger     *zap.Logger
}

// NewPipeline wires a pipeline for one entity spec.
func NewPipeline(store ports.RecordStore, spec EntitySpec, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		spec:       spec,
		reconciler: NewReconciler(store, spec, logger),
		writer:     NewBatchWriter(store, spec, logger),
		logger:     logger,
	}
}

// Spec returns the entity spec the pipeline was built with.
func (p *Pipeline) Spec() EntitySpec {
	return p.spec
}

// Run processes one uploaded base64 spreadsheet. Pre-write failures (bad
// file, missing headers, row cap) return an error with a nil result.
// Row-level failures are collected into the result; if nothing at all was
// processed the result is returned together with a validation error, which
// is the caller-visible failure signal.
func (p *Pipeline) Run(ctx context.Context, fileBase64 string) (*Result, error) {
	sheet, err := DecodeBase64Workbook(fileBase64)
	if err != nil {
		return nil, err
	}

	if err := ValidateSheet(sheet, p.spec, p.logger); err != nil {
		return nil, err
	}

	rows := sheet.RowMaps()
	intents, rowErrors := p.reconciler.Reconcile(ctx, rows)

	result := p.writer.Write(ctx, intents)
	result.Errors = append(rowErrors, result.Errors...)

	p.logger.Info("Upload processed",
		zap.String("entity", p.spec.Name),
		zap.Int("rows", len(rows)),
		zap.Int("processed", result.Processed),
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("errors", len(result.Errors)),
	)

	if result.Processed == 0 {
		return result, apperrors.NewValidationError("no rows could be processed")
	}

	return result, nil
}
