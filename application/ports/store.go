package ports

import (
	"context"
	"errors"

	"schoolhub-backend/domain/school"
)

// BatchLimit is the store's maximum item count per batch get/write call.
const BatchLimit = 25

// ErrRecordNotFound is returned by conditioned writes against a missing key.
var ErrRecordNotFound = errors.New("record not found")

// Table identifies one key-value table and its primary-key attribute.
type Table struct {
	Name string
	Key  string
}

// Tables bundles the three entity tables the platform persists to.
type Tables struct {
	Students Table
	Teachers Table
	Games    Table
}

// RecordStore is the port every handler and pipeline talks to instead of a
// concrete store client. Get returns (nil, nil) when the key is absent.
// BatchPut returns the records the store reported as unprocessed so callers
// can retry them individually; it returns an error only when the whole call
// failed.
type RecordStore interface {
	Get(ctx context.Context, table Table, key string) (school.Record, error)
	BatchGet(ctx context.Context, table Table, keys []string) (map[string]school.Record, error)
	Put(ctx context.Context, table Table, record school.Record) error
	BatchPut(ctx context.Context, table Table, records []school.Record) ([]school.Record, error)
	// Add atomically adds delta to a numeric attribute of an existing record
	// and returns the record's new state. ErrRecordNotFound when the key does
	// not exist.
	Add(ctx context.Context, table Table, key, attribute string, delta int) (school.Record, error)
	Scan(ctx context.Context, table Table) ([]school.Record, error)
}
