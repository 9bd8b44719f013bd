package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
	"fmt"
)

type PrescriptionRepository struct {
	store *database.RecordStore
}

func NewPrescriptionRepository(store *database.RecordStore) *PrescriptionRepository {
	return &PrescriptionRepository{store: store}
}

// Create appends a prescription. An assessment carries at most one
// prescription; a second one for the same assessment is a conflict.
func (r *PrescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(prescription)
	if err != nil {
		return err
	}
	return r.store.Modify(PrescriptionsCollection, func(records []database.Record) ([]database.Record, error) {
		for _, existing := range records {
			if stringField(existing, "assessmentID") == prescription.AssessmentID {
				return nil, fmt.Errorf("prescription for assessment %s: %w", prescription.AssessmentID, database.ErrConflict)
			}
		}
		return append(records, record), nil
	})
}

func (r *PrescriptionRepository) GetByID(ctx context.Context, id string) (*models.Prescription, error) {
	return findOne[models.Prescription](r.store, PrescriptionsCollection, "prescriptionID", id)
}

func (r *PrescriptionRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	return findAll[models.Prescription](r.store, PrescriptionsCollection, "patientID", patientID)
}

// Update merges a doctor's edit into the stored prescription. Fields that are
// not part of the edit keep their stored values.
func (r *PrescriptionRepository) Update(ctx context.Context, id string, update models.PrescriptionUpdate, modifiedBy, modifiedDate string) (*models.Prescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, medication := range update.Medications {
		if err := medication.Validate(); err != nil {
			return nil, err
		}
	}
	medications, err := toRecords(update.Medications)
	if err != nil {
		return nil, err
	}
	fields := database.Record{
		"medications":      medications,
		"lastModifiedBy":   modifiedBy,
		"lastModifiedDate": modifiedDate,
	}
	if update.Instructions != nil {
		fields["instructions"] = *update.Instructions
	}
	merged, err := r.store.Update(PrescriptionsCollection, "prescriptionID", id, fields)
	if err != nil {
		return nil, err
	}
	return fromRecord[models.Prescription](merged)
}

func toRecords(medications []models.Medication) ([]database.Record, error) {
	records := make([]database.Record, 0, len(medications))
	for i := range medications {
		record, err := toRecord(medications[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
