package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
)

type AssessmentRepository struct {
	store *database.RecordStore
}

func NewAssessmentRepository(store *database.RecordStore) *AssessmentRepository {
	return &AssessmentRepository{store: store}
}

func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(assessment)
	if err != nil {
		return err
	}
	_, err = r.store.Add(AssessmentsCollection, record)
	return err
}

func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	return findOne[models.Assessment](r.store, AssessmentsCollection, "assessmentID", id)
}

// ListByPatient returns the patient's assessments in insertion order.
func (r *AssessmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Assessment, error) {
	return findAll[models.Assessment](r.store, AssessmentsCollection, "patientID", patientID)
}
