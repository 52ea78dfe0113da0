package upload

import (
	"context"
	"fmt"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
	"schoolhub-backend/pkg/utils"

	"go.uber.org/zap"
)

// IntentKind classifies a reconciled row.
type IntentKind int

const (
	// IntentInsert creates a record that does not exist yet.
	IntentInsert IntentKind = iota
	// IntentUpdate overwrites an existing record whose tracked fields changed.
	IntentUpdate
	// IntentUnchanged matched an existing record field-for-field; the writer
	// counts it as processed without issuing a write.
	IntentUnchanged
)

// WriteIntent is the reconciler's verdict for one row: what to write and
// whether it is an insert, an update, or a no-op.
type WriteIntent struct {
	Kind   IntentKind
	Key    string
	Record school.Record
}

// Reconciler looks up existing records in chunks of the store's batch limit
// and merges each incoming row against them.
type Reconciler struct {
	store  ports.RecordStore
	spec   EntitySpec
	logger *zap.Logger
}

// NewReconciler creates a reconciler for one entity pipeline.
func NewReconciler(store ports.RecordStore, spec EntitySpec, logger *zap.Logger) *Reconciler {
	return &Reconciler{store: store, spec: spec, logger: logger}
}

// builtRow is a parsed row awaiting its existing-state lookup.
type builtRow struct {
	rowNum int
	key    string
	record school.Record
}

// Reconcile classifies every row. Row-level failures (missing key, merge
// errors, lost existing-state lookups) are returned as human-readable error
// strings and never abort the batch. Row numbers in errors count the header
// as row 1.
func (r *Reconciler) Reconcile(ctx context.Context, rows []map[string]string) ([]WriteIntent, []string) {
	var rowErrors []string
	now := utils.NowRFC3339()

	built := make([]builtRow, 0, len(rows))
	for i, row := range rows {
		rowNum := i + 2
		record, err := r.spec.Build(row, now)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		key := record.String(r.spec.Table.Key)
		if key == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: missing %s", rowNum, r.spec.Table.Key))
			continue
		}
		built = append(built, builtRow{rowNum: rowNum, key: key, record: record})
	}

	intents := make([]WriteIntent, 0, len(built))
	for start := 0; start < len(built); start += ports.BatchLimit {
		end := start + ports.BatchLimit
		if end > len(built) {
			end = len(built)
		}
		chunk := built[start:end]

		existing, failed, lookupErrors := r.loadExisting(ctx, chunk)
		rowErrors = append(rowErrors, lookupErrors...)

		for _, b := range chunk {
			if failed[b.key] {
				continue
			}
			intents = append(intents, r.merge(b.key, b.record, existing[b.key]))
		}
	}

	return intents, rowErrors
}

// merge applies sticky fields and change detection against the existing
// record, classifying the row.
func (r *Reconciler) merge(key string, record school.Record, prior school.Record) WriteIntent {
	if prior == nil {
		return WriteIntent{Kind: IntentInsert, Key: key, Record: record}
	}

	for _, field := range r.spec.Sticky {
		if v, ok := prior[field]; ok && v != nil {
			record[field] = v
		}
	}

	changed := false
	for _, field := range r.spec.Tracked {
		if !fieldEqual(record, prior, field) {
			changed = true
			break
		}
	}
	if !changed {
		// Roll the timestamps back so a no-op row never bumps them.
		for _, field := range []string{school.FieldUpdatedAt, school.FieldLastUpdate} {
			if v, ok := prior[field]; ok {
				record[field] = v
			}
		}
		return WriteIntent{Kind: IntentUnchanged, Key: key, Record: record}
	}

	return WriteIntent{Kind: IntentUpdate, Key: key, Record: record}
}

// loadExisting batch-gets the chunk's keys, falling back to individual gets
// when the batch call fails. A row whose existing state cannot be loaded at
// all is reported as a row error and flagged in the failed set; it is never
// silently treated as absent.
func (r *Reconciler) loadExisting(ctx context.Context, chunk []builtRow) (map[string]school.Record, map[string]bool, []string) {
	seen := make(map[string]bool, len(chunk))
	keys := make([]string, 0, len(chunk))
	for _, b := range chunk {
		if !seen[b.key] {
			seen[b.key] = true
			keys = append(keys, b.key)
		}
	}

	failed := make(map[string]bool)

	existing, err := r.store.BatchGet(ctx, r.spec.Table, keys)
	if err == nil {
		return existing, failed, nil
	}

	r.logger.Warn("Batch get failed, falling back to individual gets",
		zap.String("entity", r.spec.Name),
		zap.Int("keys", len(keys)),
		zap.Error(err),
	)

	existing = make(map[string]school.Record, len(keys))
	var rowErrors []string
	for _, key := range keys {
		record, getErr := r.store.Get(ctx, r.spec.Table, key)
		if getErr != nil {
			rowErrors = append(rowErrors,
				fmt.Sprintf("%s %s: failed to load existing record: %v", r.spec.Name, key, getErr))
			failed[key] = true
			continue
		}
		if record != nil {
			existing[key] = record
		}
	}
	return existing, failed, rowErrors
}

// fieldEqual compares one tracked field between the merged and existing
// records, normalizing representation differences (store numerics coming
// back as float64, lists as []any, JSON-encoded list strings).
func fieldEqual(a, b school.Record, field string) bool {
	av, aok := a[field]
	bv, bok := b[field]
	if !aok && !bok {
		return true
	}

	if isListLike(av) || isListLike(bv) {
		al := school.NormalizeStringList(av)
		bl := school.NormalizeStringList(bv)
		if len(al) != len(bl) {
			return false
		}
		for i := range al {
			if al[i] != bl[i] {
				return false
			}
		}
		return true
	}

	return a.String(field) == b.String(field)
}

func isListLike(v any) bool {
	switch v.(type) {
	case []string, []any:
		return true
	default:
		return false
	}
}
