// Package mocks provides in-memory implementations of the application ports
// for unit testing services and pipelines without a real store.
package mocks

import (
	"context"
	"sync"

	"schoolhub-backend/application/ports"
	"schoolhub-backend/domain/school"
)

// FakeRecordStore is an in-memory ports.RecordStore. Error scenarios are
// configured per method with SetError, per key with FailPutKey, and batch
// degradation with ReportUnprocessed.
type FakeRecordStore struct {
	mu sync.RWMutex

	// tables maps table name -> key value -> record.
	tables map[string]map[string]school.Record

	// shouldFailOn maps a method name ("Get", "BatchGet", "Put", "BatchPut",
	// "Add", "Scan") to the error it should return.
	shouldFailOn map[string]error

	// failPutKeys makes Put fail for specific keys only, so batch fallback
	// paths can be exercised with partial failures.
	failPutKeys map[string]error

	// unprocessedKeys makes BatchPut report these keys back as unprocessed
	// (the writes still do not land) while the call itself succeeds.
	unprocessedKeys map[string]bool

	// Call counters for asserting how the store was driven.
	GetCalls      int
	BatchGetCalls int
	PutCalls      int
	BatchPutCalls int
	AddCalls      int
	ScanCalls     int
}

// NewFakeRecordStore creates an empty fake store.
func NewFakeRecordStore() *FakeRecordStore {
	return &FakeRecordStore{
		tables:          make(map[string]map[string]school.Record),
		shouldFailOn:    make(map[string]error),
		failPutKeys:     make(map[string]error),
		unprocessedKeys: make(map[string]bool),
	}
}

// SetError configures the named method to fail with err. A nil err clears it.
func (f *FakeRecordStore) SetError(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.shouldFailOn, method)
		return
	}
	f.shouldFailOn[method] = err
}

// FailPutKey makes individual puts of the given key fail with err.
func (f *FakeRecordStore) FailPutKey(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failPutKeys[key] = err
}

// ReportUnprocessed makes BatchPut skip the given keys and echo them back as
// unprocessed, the way a throttled store would.
func (f *FakeRecordStore) ReportUnprocessed(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.unprocessedKeys[k] = true
	}
}

// Seed stores a record directly, bypassing error knobs.
func (f *FakeRecordStore) Seed(table ports.Table, record school.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows(table.Name)[record.String(table.Key)] = clone(record)
}

// Stored returns a copy of the record at key, or nil.
func (f *FakeRecordStore) Stored(table ports.Table, key string) school.Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	record, ok := f.tables[table.Name][key]
	if !ok {
		return nil
	}
	return clone(record)
}

// Count returns how many records the table holds.
func (f *FakeRecordStore) Count(table ports.Table) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tables[table.Name])
}

func (f *FakeRecordStore) Get(ctx context.Context, table ports.Table, key string) (school.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if err := f.shouldFailOn["Get"]; err != nil {
		return nil, err
	}
	record, ok := f.tables[table.Name][key]
	if !ok {
		return nil, nil
	}
	return clone(record), nil
}

func (f *FakeRecordStore) BatchGet(ctx context.Context, table ports.Table, keys []string) (map[string]school.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BatchGetCalls++
	if err := f.shouldFailOn["BatchGet"]; err != nil {
		return nil, err
	}
	out := make(map[string]school.Record, len(keys))
	for _, key := range keys {
		if record, ok := f.tables[table.Name][key]; ok {
			out[key] = clone(record)
		}
	}
	return out, nil
}

func (f *FakeRecordStore) Put(ctx context.Context, table ports.Table, record school.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PutCalls++
	if err := f.shouldFailOn["Put"]; err != nil {
		return err
	}
	key := record.String(table.Key)
	if err := f.failPutKeys[key]; err != nil {
		return err
	}
	f.rows(table.Name)[key] = clone(record)
	return nil
}

func (f *FakeRecordStore) BatchPut(ctx context.Context, table ports.Table, records []school.Record) ([]school.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.BatchPutCalls++
	if err := f.shouldFailOn["BatchPut"]; err != nil {
		return nil, err
	}
	var unprocessed []school.Record
	for _, record := range records {
		key := record.String(table.Key)
		if f.unprocessedKeys[key] {
			unprocessed = append(unprocessed, clone(record))
			continue
		}
		f.rows(table.Name)[key] = clone(record)
	}
	return unprocessed, nil
}

func (f *FakeRecordStore) Add(ctx context.Context, table ports.Table, key, attribute string, delta int) (school.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.AddCalls++
	if err := f.shouldFailOn["Add"]; err != nil {
		return nil, err
	}
	record, ok := f.tables[table.Name][key]
	if !ok {
		return nil, ports.ErrRecordNotFound
	}
	record[attribute] = record.Int(attribute) + delta
	return clone(record), nil
}

func (f *FakeRecordStore) Scan(ctx context.Context, table ports.Table) ([]school.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ScanCalls++
	if err := f.shouldFailOn["Scan"]; err != nil {
		return nil, err
	}
	out := make([]school.Record, 0, len(f.tables[table.Name]))
	for _, record := range f.tables[table.Name] {
		out = append(out, clone(record))
	}
	return out, nil
}

func (f *FakeRecordStore) rows(table string) map[string]school.Record {
	if f.tables[table] == nil {
		f.tables[table] = make(map[string]school.Record)
	}
	return f.tables[table]
}

func clone(record school.Record) school.Record {
	out := make(school.Record, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
