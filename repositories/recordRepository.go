package repositories

import (
	"MediIntake/database"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	PatientsCollection      = "patients"
	DoctorsCollection       = "doctors"
	AssessmentsCollection   = "assessments"
	PrescriptionsCollection = "prescriptions"
	AssignmentsCollection   = "assignments"
)

// Collections lists every collection the application persists.
var Collections = []string{
	PatientsCollection,
	DoctorsCollection,
	AssessmentsCollection,
	PrescriptionsCollection,
	AssignmentsCollection,
}

// validatable is implemented by every model written through a repository.
type validatable interface {
	Validate() error
}

// toRecord validates a model and converts it into a store record.
func toRecord(model validatable) (database.Record, error) {
	if err := model.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	var record database.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return record, nil
}

func fromRecord[T any](record database.Record) (*T, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	var model T
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &model, nil
}

func fromRecords[T any](records []database.Record) ([]T, error) {
	models := make([]T, 0, len(records))
	for _, record := range records {
		model, err := fromRecord[T](record)
		if err != nil {
			return nil, err
		}
		models = append(models, *model)
	}
	return models, nil
}

// findOne looks a model up by key. A missing record or collection yields
// database.ErrRecordNotFound.
func findOne[T any](store *database.RecordStore, collection, keyField string, keyValue any) (*T, error) {
	record, err := store.FindByKey(collection, keyField, keyValue)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, database.ErrRecordNotFound
		}
		return nil, err
	}
	return fromRecord[T](record)
}

// findAll returns every model whose field equals value. A collection that
// was never created reads as empty.
func findAll[T any](store *database.RecordStore, collection, field string, value any) ([]T, error) {
	records, err := store.FindAllByField(collection, field, value)
	if err != nil {
		if errors.Is(err, database.ErrCollectionNotFound) {
			return []T{}, nil
		}
		return nil, err
	}
	return fromRecords[T](records)
}

// findByEmail looks a model up by e-mail address, ignoring case like the
// uniqueness check on create does.
func findByEmail[T any](store *database.RecordStore, collection, email string) (*T, error) {
	records, err := store.ReadAll(collection)
	if err != nil {
		if errors.Is(err, database.ErrCollectionNotFound) {
			return nil, database.ErrRecordNotFound
		}
		return nil, err
	}
	record, ok := lo.Find(records, func(record database.Record) bool {
		return strings.EqualFold(stringField(record, "email"), email)
	})
	if !ok {
		return nil, database.ErrRecordNotFound
	}
	return fromRecord[T](record)
}

func listAll[T any](store *database.RecordStore, collection string) ([]T, error) {
	records, err := store.ReadAll(collection)
	if err != nil {
		if errors.Is(err, database.ErrCollectionNotFound) {
			return []T{}, nil
		}
		return nil, err
	}
	return fromRecords[T](records)
}

func stringField(record database.Record, field string) string {
	s, _ := record[field].(string)
	return s
}
