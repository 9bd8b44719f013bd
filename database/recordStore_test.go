package database

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func newTestStore(t *testing.T, opts ...Option) *RecordStore {
	t.Helper()
	store, err := Open(t.TempDir(), opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.EnsureCollections("patients"); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}
	return store
}

func TestReadAllMissingCollection(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ReadAll("assessments")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("ReadAll error = %v, want ErrCollectionNotFound", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ErrCollectionNotFound should match ErrNotFound")
	}
}

func TestReadAllEmptyCollection(t *testing.T) {
	store := newTestStore(t)

	records, err := store.ReadAll("patients")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records = %#v, want empty non-nil slice", records)
	}
}

func TestEnsureCollectionsKeepsExistingData(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add("patients", Record{"patientID": "p1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.EnsureCollections("patients", "doctors"); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}

	records, err := store.ReadAll("patients")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("len(records) = %d, want 1", len(records))
	}
}

func TestAddAppendsAtEnd(t *testing.T) {
	store := newTestStore(t)
	for _, id := range []string{"p1", "p2"} {
		if _, err := store.Add("patients", Record{"patientID": id}); err != nil {
			t.Fatalf("Add(%s): %v", id, err)
		}
	}

	added, err := store.Add("patients", Record{"patientID": "p3", "firstName": "Ada"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added["patientID"] != "p3" {
		t.Errorf("Add returned %v", added)
	}

	records, err := store.ReadAll("patients")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	last := records[2]
	if last["patientID"] != "p3" || last["firstName"] != "Ada" {
		t.Errorf("last record = %v", last)
	}
}

func TestFindByKey(t *testing.T) {
	store := newTestStore(t)
	want := Record{"patientID": "p1", "email": "a@example.com", "age": float64(30)}
	if _, err := store.Add("patients", want); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.FindByKey("patients", "patientID", "p1")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %s = %v, want %v", k, got[k], v)
		}
	}

	if _, err := store.FindByKey("patients", "patientID", "missing"); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("FindByKey(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestFindByKeyNumericValue(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add("patients", Record{"patientID": "p1", "age": 42}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.FindByKey("patients", "age", 42)
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if got["patientID"] != "p1" {
		t.Errorf("got %v", got)
	}
}

func TestFindAllByFieldPreservesOrder(t *testing.T) {
	store := newTestStore(t)
	rows := []Record{
		{"assessmentID": "a1", "patientID": "p1"},
		{"assessmentID": "a2", "patientID": "p2"},
		{"assessmentID": "a3", "patientID": "p1"},
	}
	for _, r := range rows {
		if _, err := store.Add("patients", r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	matches, err := store.FindAllByField("patients", "patientID", "p1")
	if err != nil {
		t.Fatalf("FindAllByField: %v", err)
	}
	if len(matches) != 2 || matches[0]["assessmentID"] != "a1" || matches[1]["assessmentID"] != "a3" {
		t.Errorf("matches = %v", matches)
	}

	none, err := store.FindAllByField("patients", "patientID", "p9")
	if err != nil {
		t.Fatalf("FindAllByField: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("none = %#v, want empty non-nil slice", none)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add("patients", Record{"patientID": "p1", "firstName": "Ada", "lastName": "Lovelace"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	merged, err := store.Update("patients", "patientID", "p1", Record{"firstName": "Augusta"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if merged["firstName"] != "Augusta" || merged["lastName"] != "Lovelace" {
		t.Errorf("merged = %v", merged)
	}

	got, err := store.FindByKey("patients", "patientID", "p1")
	if err != nil {
		t.Fatalf("FindByKey: %v", err)
	}
	if got["firstName"] != "Augusta" || got["lastName"] != "Lovelace" {
		t.Errorf("persisted = %v", got)
	}
}

func TestUpdateMissingKeyLeavesFileUnchanged(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add("patients", Record{"patientID": "p1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	before := readFile(t, store, "patients")

	_, err := store.Update("patients", "patientID", "missing", Record{"firstName": "x"})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Update error = %v, want ErrRecordNotFound", err)
	}
	if after := readFile(t, store, "patients"); !bytes.Equal(before, after) {
		t.Errorf("collection changed:\nbefore %s\nafter  %s", before, after)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	for _, r := range []Record{
		{"patientID": "p1", "n": "first"},
		{"patientID": "p2"},
		{"patientID": "p1", "n": "second"},
	} {
		if _, err := store.Add("patients", r); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	before := readFile(t, store, "patients")

	removed, err := store.Delete("patients", "patientID", "missing")
	if err != nil || removed {
		t.Fatalf("Delete(missing) = %v, %v", removed, err)
	}
	if after := readFile(t, store, "patients"); !bytes.Equal(before, after) {
		t.Errorf("collection changed after deleting a missing key")
	}

	removed, err = store.Delete("patients", "patientID", "p1")
	if err != nil || !removed {
		t.Fatalf("Delete(p1) = %v, %v", removed, err)
	}
	records, err := store.ReadAll("patients")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 2 || records[0]["patientID"] != "p2" || records[1]["n"] != "second" {
		t.Errorf("records = %v", records)
	}
}

func TestModifyErrorWritesNothing(t *testing.T) {
	store := newTestStore(t)
	before := readFile(t, store, "patients")

	err := store.Modify("patients", func(records []Record) ([]Record, error) {
		return append(records, Record{"patientID": "p1"}), ErrConflict
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("Modify error = %v, want ErrConflict", err)
	}
	if after := readFile(t, store, "patients"); !bytes.Equal(before, after) {
		t.Errorf("collection changed after a rejected Modify")
	}
}

func TestCorruptCollectionIsStorageError(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(filepath.Join(store.Dir(), "patients.json"), []byte("[{"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := store.ReadAll("patients")
	var storageErr *StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("ReadAll error = %v, want *StorageError", err)
	}
	if storageErr.Op != "decode" || storageErr.Collection != "patients" {
		t.Errorf("storage error = %+v", storageErr)
	}
}

func TestInvalidCollectionName(t *testing.T) {
	store := newTestStore(t)
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if _, err := store.ReadAll(name); err == nil {
			t.Errorf("ReadAll(%q) succeeded", name)
		}
	}
}

func TestWriteHook(t *testing.T) {
	var mu sync.Mutex
	var ops []string
	store := newTestStore(t, WithWriteHook(func(collection, op string) {
		mu.Lock()
		defer mu.Unlock()
		ops = append(ops, collection+":"+op)
	}))

	if _, err := store.Add("patients", Record{"patientID": "p1"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.Update("patients", "patientID", "p1", Record{"x": 1}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := store.Update("patients", "patientID", "nope", Record{"x": 1}); err == nil {
		t.Fatalf("Update(nope) succeeded")
	}

	want := []string{"patients:create", "patients:add", "patients:update"}
	if fmt.Sprint(ops) != fmt.Sprint(want) {
		t.Errorf("ops = %v, want %v", ops, want)
	}
}

func TestConcurrentAdds(t *testing.T) {
	store := newTestStore(t)
	const n = 64

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := store.Add("patients", Record{"patientID": fmt.Sprintf("p%03d", i)}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Add: %v", err)
	}

	records, err := store.ReadAll("patients")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != n {
		t.Fatalf("len(records) = %d, want %d", len(records), n)
	}
	seen := make(map[string]bool, n)
	for _, r := range records {
		id, _ := r["patientID"].(string)
		if seen[id] {
			t.Errorf("duplicate record %s", id)
		}
		seen[id] = true
	}
	for i := 0; i < n; i++ {
		if id := fmt.Sprintf("p%03d", i); !seen[id] {
			t.Errorf("record %s lost", id)
		}
	}
}

func TestConcurrentReadersSeeWholeCollections(t *testing.T) {
	store := newTestStore(t)
	const writes = 30

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			if _, err := store.Add("patients", Record{"patientID": fmt.Sprintf("p%d", i)}); err != nil {
				t.Errorf("Add: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		last := 0
		for i := 0; i < writes*2; i++ {
			records, err := store.ReadAll("patients")
			if err != nil {
				t.Errorf("ReadAll: %v", err)
				return
			}
			if len(records) < last {
				t.Errorf("collection shrank from %d to %d", last, len(records))
			}
			last = len(records)
		}
	}()
	wg.Wait()
}

func readFile(t *testing.T, store *RecordStore, collection string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(store.Dir(), collection+".json"))
	if err != nil {
		t.Fatalf("read %s: %v", collection, err)
	}
	return data
}
