package services

import (
	"MediIntake/database"
	"MediIntake/models"
	"MediIntake/repositories"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Placeholder doctor used for assignments while no doctor is registered.
var placeholderDoctor = models.Doctor{
	DoctorID:       "d001",
	FirstName:      "Dr.",
	LastName:       "Smith",
	Specialization: "General Practice",
}

type DoctorService struct {
	doctors     *repositories.DoctorRepository
	patients    *repositories.PatientRepository
	assignments *repositories.AssignmentRepository
	history     *HistoryService
	logger      zerolog.Logger
}

func NewDoctorService(
	doctors *repositories.DoctorRepository,
	patients *repositories.PatientRepository,
	assignments *repositories.AssignmentRepository,
	history *HistoryService,
	logger zerolog.Logger,
) *DoctorService {
	return &DoctorService{
		doctors:     doctors,
		patients:    patients,
		assignments: assignments,
		history:     history,
		logger:      logger,
	}
}

// SelectForAssignment returns the first registered doctor, or the
// placeholder doctor when none is registered.
func (s *DoctorService) SelectForAssignment(ctx context.Context) (models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return models.Doctor{}, fmt.Errorf("failed to list doctors: %w", err)
	}
	if len(doctors) == 0 {
		return placeholderDoctor, nil
	}
	return doctors[0], nil
}

// IsAssignedToPatient reports whether any of the patient's assessments was
// assigned to the doctor.
func (s *DoctorService) IsAssignedToPatient(ctx context.Context, doctorID, patientID string) (bool, error) {
	assignments, err := s.assignments.ListByPatient(ctx, patientID)
	if err != nil {
		return false, fmt.Errorf("failed to list assignments: %w", err)
	}
	return lo.ContainsBy(assignments, func(a models.Assignment) bool {
		return a.DoctorID == doctorID
	}), nil
}

// AssignedPatients lists the doctor's distinct patients in order of first
// assignment, each with the full assembled history.
func (s *DoctorService) AssignedPatients(ctx context.Context, doctorID string) ([]models.AssignedPatient, error) {
	assignments, err := s.assignments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	patientIDs := lo.Uniq(lo.Map(assignments, func(a models.Assignment, _ int) string {
		return a.PatientID
	}))

	result := make([]models.AssignedPatient, 0, len(patientIDs))
	for _, patientID := range patientIDs {
		patient, err := s.patients.GetByID(ctx, patientID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				s.logger.Warn().Str("patient_id", patientID).Str("doctor_id", doctorID).Msg("assignment references unknown patient")
				continue
			}
			return nil, fmt.Errorf("failed to look up patient: %w", err)
		}

		history, err := s.history.Assemble(ctx, patientID)
		if err != nil {
			return nil, err
		}
		result = append(result, models.AssignedPatient{
			PatientProfile:  patient.Profile(),
			AssessmentCount: len(history),
			History:         history,
		})
	}
	return result, nil
}
