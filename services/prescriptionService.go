package services

import (
	"MediIntake/database"
	"MediIntake/events"
	"MediIntake/models"
	"MediIntake/repositories"
	"MediIntake/utils"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type PrescriptionService struct {
	prescriptions *repositories.PrescriptionRepository
	assignments   *repositories.AssignmentRepository
	history       *HistoryService
	events        events.Publisher
	logger        zerolog.Logger
	now           func() time.Time
}

func NewPrescriptionService(
	prescriptions *repositories.PrescriptionRepository,
	assignments *repositories.AssignmentRepository,
	history *HistoryService,
	publisher events.Publisher,
	logger zerolog.Logger,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		assignments:   assignments,
		history:       history,
		events:        publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Update applies a doctor's edit. Only the doctor assigned to the
// prescription's assessment may edit it.
func (s *PrescriptionService) Update(ctx context.Context, doctorID, prescriptionID string, update models.PrescriptionUpdate) (*models.Prescription, error) {
	if err := utils.ValidatePrescriptionUpdate(update); err != nil {
		return nil, invalid(err)
	}

	prescription, err := s.prescriptions.GetByID(ctx, prescriptionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("failed to look up prescription: %w", err)
	}

	assignment, err := s.assignments.GetByAssessment(ctx, prescription.AssessmentID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("failed to look up assignment: %w", err)
	}
	if assignment.DoctorID != doctorID {
		return nil, ErrForbidden
	}

	updated, err := s.prescriptions.Update(ctx, prescriptionID, update, doctorID, models.Timestamp(s.now()))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPrescriptionNotFound
		}
		return nil, fmt.Errorf("failed to update prescription: %w", err)
	}

	s.history.Invalidate(ctx, updated.PatientID)
	if err := s.events.Publish(ctx, events.Event{
		Type:           events.PrescriptionUpdated,
		AssessmentID:   updated.AssessmentID,
		PatientID:      updated.PatientID,
		DoctorID:       doctorID,
		PrescriptionID: updated.PrescriptionID,
	}); err != nil {
		s.logger.Error().Err(err).Str("prescription_id", prescriptionID).Msg("failed to publish prescription event")
	}

	s.logger.Info().Str("prescription_id", prescriptionID).Str("doctor_id", doctorID).Msg("prescription updated")
	return updated, nil
}
