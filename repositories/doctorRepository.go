package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
	"fmt"
	"strings"
)

type DoctorRepository struct {
	store *database.RecordStore
}

func NewDoctorRepository(store *database.RecordStore) *DoctorRepository {
	return &DoctorRepository{store: store}
}

func (r *DoctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := toRecord(doctor)
	if err != nil {
		return err
	}
	return r.store.Modify(DoctorsCollection, func(records []database.Record) ([]database.Record, error) {
		for _, existing := range records {
			if strings.EqualFold(stringField(existing, "email"), doctor.Email) {
				return nil, fmt.Errorf("doctor email %s: %w", doctor.Email, database.ErrConflict)
			}
		}
		return append(records, record), nil
	})
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return findOne[models.Doctor](r.store, DoctorsCollection, "doctorID", id)
}

func (r *DoctorRepository) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	return findByEmail[models.Doctor](r.store, DoctorsCollection, email)
}

// List returns every doctor in registration order.
func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	return listAll[models.Doctor](r.store, DoctorsCollection)
}
