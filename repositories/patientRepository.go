package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
	"fmt"
	"strings"
)

type PatientRepository struct {
	store *database.RecordStore
}

func NewPatientRepository(store *database.RecordStore) *PatientRepository {
	return &PatientRepository{store: store}
}

// Create appends a patient. The e-mail check and the append happen under one
// collection lock, so two registrations racing on the same address cannot
// both succeed.
func (r *PatientRepository) Create(ctx context.Context, patient *models.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(patient)
	if err != nil {
		return err
	}
	return r.store.Modify(PatientsCollection, func(records []database.Record) ([]database.Record, error) {
		for _, existing := range records {
			if strings.EqualFold(stringField(existing, "email"), patient.Email) {
				return nil, fmt.Errorf("patient email %s: %w", patient.Email, database.ErrConflict)
			}
		}
		return append(records, record), nil
	})
}

func (r *PatientRepository) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return findOne[models.Patient](r.store, PatientsCollection, "patientID", id)
}

func (r *PatientRepository) GetByEmail(ctx context.Context, email string) (*models.Patient, error) {
	return findByEmail[models.Patient](r.store, PatientsCollection, email)
}
