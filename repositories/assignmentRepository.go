package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
)

type AssignmentRepository struct {
	store *database.RecordStore
}

func NewAssignmentRepository(store *database.RecordStore) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(assignment)
	if err != nil {
		return err
	}
	_, err = r.store.Add(AssignmentsCollection, record)
	return err
}

// ListByDoctor returns the doctor's assignments in assignment order.
func (r *AssignmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Assignment, error) {
	return findAll[models.Assignment](r.store, AssignmentsCollection, "doctorID", doctorID)
}

func (r *AssignmentRepository) ListByPatient(ctx context.Context, patientID string) ([]models.Assignment, error) {
	return findAll[models.Assignment](r.store, AssignmentsCollection, "patientID", patientID)
}

func (r *AssignmentRepository) GetByAssessment(ctx context.Context, assessmentID string) (*models.Assignment, error) {
	return findOne[models.Assignment](r.store, AssignmentsCollection, "assessmentID", assessmentID)
}
