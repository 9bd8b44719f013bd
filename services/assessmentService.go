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
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AssessmentResult is everything written for one new assessment.
type AssessmentResult struct {
	Assessment     models.Assessment
	Prescription   models.Prescription
	Assignment     models.Assignment
	Specialization string
}

type AssessmentService struct {
	patients      *repositories.PatientRepository
	assessments   *repositories.AssessmentRepository
	prescriptions *repositories.PrescriptionRepository
	assignments   *repositories.AssignmentRepository
	doctors       *DoctorService
	history       *HistoryService
	generator     *PrescriptionGenerator
	events        events.Publisher
	mailer        utils.Mailer
	logger        zerolog.Logger
	now           func() time.Time
}

func NewAssessmentService(
	patients *repositories.PatientRepository,
	assessments *repositories.AssessmentRepository,
	prescriptions *repositories.PrescriptionRepository,
	assignments *repositories.AssignmentRepository,
	doctors *DoctorService,
	history *HistoryService,
	generator *PrescriptionGenerator,
	publisher events.Publisher,
	mailer utils.Mailer,
	logger zerolog.Logger,
) *AssessmentService {
	return &AssessmentService{
		patients:      patients,
		assessments:   assessments,
		prescriptions: prescriptions,
		assignments:   assignments,
		doctors:       doctors,
		history:       history,
		generator:     generator,
		events:        publisher,
		mailer:        mailer,
		logger:        logger,
		now:           time.Now,
	}
}

// Create stores the assessment, its generated prescription and the doctor
// assignment, in that order. The three writes are independent: a failure
// part way leaves the earlier records in place.
func (s *AssessmentService) Create(ctx context.Context, req models.AssessmentRequest) (*AssessmentResult, error) {
	req.Symptoms = normalizeSymptoms(req.Symptoms)
	if err := utils.ValidateAssessmentRequest(req); err != nil {
		return nil, invalid(err)
	}

	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	followUps := req.FollowUpResponses
	if followUps == nil {
		followUps = []models.FollowUpResponse{}
	}
	assessment := models.Assessment{
		AssessmentID:      utils.GenerateID(""),
		PatientID:         req.PatientID,
		Weight:            req.Weight,
		WeightUnit:        req.WeightUnit,
		Height:            req.Height,
		HeightUnit:        req.HeightUnit,
		Age:               req.Age,
		Symptoms:          req.Symptoms,
		FollowUpResponses: followUps,
		AssessmentDate:    models.Timestamp(s.now()),
	}
	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}
	// The assessment is stored from here on, so the cached history is stale
	// even if a later write fails.
	defer s.history.Invalidate(ctx, assessment.PatientID)

	generated := s.generator.Generate(ctx, PatientVitals{
		Symptoms:   assessment.Symptoms,
		Age:        assessment.Age,
		Weight:     assessment.Weight,
		WeightUnit: assessment.WeightUnit,
		Height:     assessment.Height,
		HeightUnit: assessment.HeightUnit,
	})
	prescription := models.Prescription{
		PrescriptionID: utils.GenerateID(""),
		AssessmentID:   assessment.AssessmentID,
		PatientID:      assessment.PatientID,
		Medications:    generated.Medications,
		Instructions:   generated.Instructions,
		GeneratedDate:  models.Timestamp(s.now()),
		GeneratedBy:    generated.GeneratedBy,
	}
	if err := s.prescriptions.Create(ctx, &prescription); err != nil {
		return nil, fmt.Errorf("failed to store prescription: %w", err)
	}

	doctor, err := s.doctors.SelectForAssignment(ctx)
	if err != nil {
		return nil, err
	}
	assignment := models.Assignment{
		AssignmentID:   utils.GenerateID(""),
		AssessmentID:   assessment.AssessmentID,
		PatientID:      assessment.PatientID,
		DoctorID:       doctor.DoctorID,
		DoctorName:     doctor.FullName(),
		TokenID:        utils.GenerateID(""),
		AssignmentDate: models.Timestamp(s.now()),
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return nil, fmt.Errorf("failed to store assignment: %w", err)
	}

	s.afterCreate(ctx, patient, doctor, assessment, prescription, assignment)

	s.logger.Info().
		Str("assessment_id", assessment.AssessmentID).
		Str("patient_id", assessment.PatientID).
		Str("doctor_id", assignment.DoctorID).
		Str("generated_by", prescription.GeneratedBy).
		Msg("assessment created")

	return &AssessmentResult{
		Assessment:     assessment,
		Prescription:   prescription,
		Assignment:     assignment,
		Specialization: doctor.Specialization,
	}, nil
}

// afterCreate runs the side effects of a new assessment. None of them can
// fail the request.
func (s *AssessmentService) afterCreate(ctx context.Context, patient *models.Patient, doctor models.Doctor, assessment models.Assessment, prescription models.Prescription, assignment models.Assignment) {
	if err := s.events.Publish(ctx, events.Event{
		Type:           events.AssessmentCreated,
		AssessmentID:   assessment.AssessmentID,
		PatientID:      assessment.PatientID,
		DoctorID:       assignment.DoctorID,
		PrescriptionID: prescription.PrescriptionID,
		TokenID:        assignment.TokenID,
	}); err != nil {
		s.logger.Error().Err(err).Str("assessment_id", assessment.AssessmentID).Msg("failed to publish assessment event")
	}

	if err := s.mailer.SendAssignmentNotice(utils.AssignmentNotice{
		DoctorEmail:  doctor.Email,
		DoctorName:   assignment.DoctorName,
		PatientName:  patient.FirstName + " " + patient.LastName,
		AssessmentID: assessment.AssessmentID,
		TokenID:      assignment.TokenID,
		Symptoms:     assessment.Symptoms,
	}); err != nil {
		s.logger.Error().Err(err).Str("doctor_id", doctor.DoctorID).Msg("failed to notify doctor")
	}
}

func normalizeSymptoms(symptoms []string) []string {
	if symptoms == nil {
		return nil
	}
	out := make([]string, 0, len(symptoms))
	for _, symptom := range symptoms {
		out = append(out, strings.TrimSpace(symptom))
	}
	return out
}
