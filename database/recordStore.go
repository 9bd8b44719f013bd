package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
)

// Record is one persisted entity: a JSON object keyed by field name.
type Record map[string]any

var (
	// ErrNotFound is matched by every "absent" error the store returns.
	ErrNotFound = errors.New("not found")
	// ErrCollectionNotFound is returned when a collection was never created.
	ErrCollectionNotFound = errors.WithMessage(ErrNotFound, "collection")
	// ErrRecordNotFound is returned when no record matches a key.
	ErrRecordNotFound = errors.WithMessage(ErrNotFound, "record")
	// ErrConflict is returned by Modify callbacks that reject a write
	// because it would violate a uniqueness rule.
	ErrConflict = errors.New("conflict")
)

// StorageError reports a persistence failure. Previously committed
// collection contents are left untouched when one is returned.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Collection, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// WriteHook is notified after every committed write.
type WriteHook func(collection, op string)

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithWriteHook registers a hook called after each committed write.
func WithWriteHook(hook WriteHook) Option {
	return func(s *RecordStore) { s.onWrite = hook }
}

// RecordStore keeps one JSON file per collection under a data directory.
// Every operation on a collection runs under that collection's mutex, so
// reads observe either the old or the new contents of a write, never a mix.
type RecordStore struct {
	dir     string
	onWrite WriteHook

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// Open prepares the data directory and returns a store rooted at it.
func Open(dir string, opts ...Option) (*RecordStore, error) {
	if dir == "" {
		return nil, errors.New("data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat data directory")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("data path %s is not a directory", dir)
	}

	s := &RecordStore{
		dir:   dir,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the data directory.
func (s *RecordStore) Dir() string {
	return s.dir
}

// EnsureCollections creates each named collection as an empty sequence if it
// does not exist yet. Existing collections are left as they are.
func (s *RecordStore) EnsureCollections(names ...string) error {
	for _, name := range names {
		if err := s.withLock(name, func() error {
			if _, err := os.Stat(s.path(name)); err == nil {
				return nil
			} else if !os.IsNotExist(err) {
				return &StorageError{Op: "stat", Collection: name, Err: err}
			}
			return s.persist(name, "create", []Record{})
		}); err != nil {
			return err
		}
	}
	return nil
}

// ReadAll returns every record of the collection in insertion order.
func (s *RecordStore) ReadAll(collection string) ([]Record, error) {
	var records []Record
	err := s.withLock(collection, func() error {
		var err error
		records, err = s.load(collection)
		return err
	})
	return records, err
}

// WriteAll atomically replaces the whole collection.
func (s *RecordStore) WriteAll(collection string, records []Record) error {
	return s.withLock(collection, func() error {
		return s.persist(collection, "replace", records)
	})
}

// Modify runs a read-modify-write cycle under the collection lock. When fn
// returns an error nothing is written and the error is returned as is.
func (s *RecordStore) Modify(collection string, fn func(records []Record) ([]Record, error)) error {
	return s.withLock(collection, func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		updated, err := fn(records)
		if err != nil {
			return err
		}
		return s.persist(collection, "modify", updated)
	})
}

// Add appends one record to the collection.
func (s *RecordStore) Add(collection string, record Record) (Record, error) {
	err := s.withLock(collection, func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		return s.persist(collection, "add", append(records, record))
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindByKey returns the first record whose keyField equals keyValue.
func (s *RecordStore) FindByKey(collection, keyField string, keyValue any) (Record, error) {
	records, err := s.ReadAll(collection)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if fieldMatches(record, keyField, keyValue) {
			return record, nil
		}
	}
	return nil, ErrRecordNotFound
}

// FindAllByField returns every record whose field equals value, in
// collection order.
func (s *RecordStore) FindAllByField(collection, field string, value any) ([]Record, error) {
	records, err := s.ReadAll(collection)
	if err != nil {
		return nil, err
	}
	matches := make([]Record, 0)
	for _, record := range records {
		if fieldMatches(record, field, value) {
			matches = append(matches, record)
		}
	}
	return matches, nil
}

// Update merges fields into the first record matching the key and persists
// the collection. Fields not named in the update are kept.
func (s *RecordStore) Update(collection, keyField string, keyValue any, fields Record) (Record, error) {
	var merged Record
	err := s.withLock(collection, func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for _, record := range records {
			if !fieldMatches(record, keyField, keyValue) {
				continue
			}
			for k, v := range fields {
				record[k] = v
			}
			merged = record
			return s.persist(collection, "update", records)
		}
		return ErrRecordNotFound
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// Delete removes the first record matching the key. It reports whether a
// record was removed; the collection is not rewritten when nothing matched.
func (s *RecordStore) Delete(collection, keyField string, keyValue any) (bool, error) {
	removed := false
	err := s.withLock(collection, func() error {
		records, err := s.load(collection)
		if err != nil {
			return err
		}
		for i, record := range records {
			if fieldMatches(record, keyField, keyValue) {
				records = append(records[:i], records[i+1:]...)
				removed = true
				return s.persist(collection, "delete", records)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (s *RecordStore) withLock(collection string, fn func() error) error {
	if err := validateCollectionName(collection); err != nil {
		return err
	}
	lock := s.lockFor(collection)
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

// lockFor returns the mutex for a collection, creating it on first use.
func (s *RecordStore) lockFor(collection string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[collection]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[collection] = lock
	}
	return lock
}

func (s *RecordStore) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// load must be called with the collection lock held.
func (s *RecordStore) load(collection string) ([]Record, error) {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCollectionNotFound
		}
		return nil, &StorageError{Op: "read", Collection: collection, Err: errors.Wrap(err, "failed to read collection file")}
	}

	records := make([]Record, 0)
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "decode", Collection: collection, Err: errors.Wrap(err, "failed to decode collection file")}
	}
	if records == nil {
		records = make([]Record, 0)
	}
	return records, nil
}

// persist stages the encoded collection in a temporary file, syncs it and
// renames it over the old file. Must be called with the collection lock held.
func (s *RecordStore) persist(collection, op string, records []Record) error {
	if records == nil {
		records = make([]Record, 0)
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Collection: collection, Err: errors.Wrap(err, "failed to encode collection")}
	}
	if err := renameio.WriteFile(s.path(collection), data, 0o644); err != nil {
		return &StorageError{Op: "write", Collection: collection, Err: errors.Wrap(err, "failed to replace collection file")}
	}
	if s.onWrite != nil {
		s.onWrite(collection, op)
	}
	return nil
}

func validateCollectionName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return errors.Errorf("invalid collection name %q", name)
	}
	return nil
}

// fieldMatches compares a record field with a value. A missing or null field
// only matches a nil value.
func fieldMatches(record Record, field string, value any) bool {
	got, ok := record[field]
	if !ok || got == nil {
		return value == nil
	}
	if value == nil {
		return false
	}
	if want, ok := value.(string); ok {
		s, ok := got.(string)
		return ok && s == want
	}
	a, errA := json.Marshal(got)
	b, errB := json.Marshal(value)
	return errA == nil && errB == nil && bytes.Equal(a, b)
}
