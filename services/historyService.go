package services

import (
	"MediIntake/cache"
	"MediIntake/database"
	"MediIntake/models"
	"MediIntake/repositories"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const DefaultHistoryCacheTTL = 5 * time.Minute

type HistoryService struct {
	patients      *repositories.PatientRepository
	assessments   *repositories.AssessmentRepository
	prescriptions *repositories.PrescriptionRepository
	cache         cache.Cache
	ttl           time.Duration
	logger        zerolog.Logger
}

func NewHistoryService(
	patients *repositories.PatientRepository,
	assessments *repositories.AssessmentRepository,
	prescriptions *repositories.PrescriptionRepository,
	historyCache cache.Cache,
	ttl time.Duration,
	logger zerolog.Logger,
) *HistoryService {
	if historyCache == nil {
		historyCache = cache.NewNopCache()
	}
	if ttl <= 0 {
		ttl = DefaultHistoryCacheTTL
	}
	return &HistoryService{
		patients:      patients,
		assessments:   assessments,
		prescriptions: prescriptions,
		cache:         historyCache,
		ttl:           ttl,
		logger:        logger,
	}
}

func historyCacheKey(patientID string) string {
	return fmt.Sprintf("history_cache:%s", patientID)
}

// Assemble reads the patient's assessments and prescriptions and joins them.
// The two reads are separate snapshots.
func (s *HistoryService) Assemble(ctx context.Context, patientID string) ([]models.HistoryEntry, error) {
	assessments, err := s.assessments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to read assessments: %w", err)
	}
	prescriptions, err := s.prescriptions.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to read prescriptions: %w", err)
	}
	return AssembleHistory(assessments, prescriptions), nil
}

// PatientHistory returns the history of an existing patient, served from the
// cache when possible.
func (s *HistoryService) PatientHistory(ctx context.Context, patientID string) ([]models.HistoryEntry, error) {
	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	key := historyCacheKey(patientID)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to read history cache")
	} else if cached != "" {
		var history []models.HistoryEntry
		if err := json.Unmarshal([]byte(cached), &history); err == nil {
			return history, nil
		}
	}

	history, err := s.Assemble(ctx, patientID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(history); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to write history cache")
		}
	}
	return history, nil
}

// Invalidate drops the cached history of a patient. Failures are logged only.
func (s *HistoryService) Invalidate(ctx context.Context, patientID string) {
	if err := s.cache.Delete(ctx, historyCacheKey(patientID)); err != nil {
		s.logger.Error().Err(err).Str("patient_id", patientID).Msg("failed to invalidate history cache")
	}
}

// AssembleHistory joins assessments with their prescriptions and orders the
// entries by assessment date, newest first. Entries with equal or missing
// dates keep their input order. When several prescriptions name the same
// assessment the last one wins.
func AssembleHistory(assessments []models.Assessment, prescriptions []models.Prescription) []models.HistoryEntry {
	linked := lo.Filter(prescriptions, func(p models.Prescription, _ int) bool {
		return p.AssessmentID != ""
	})
	byAssessment := lo.KeyBy(linked, func(p models.Prescription) string {
		return p.AssessmentID
	})

	entries := lo.Map(assessments, func(a models.Assessment, _ int) models.HistoryEntry {
		entry := models.HistoryEntry{
			AssessmentID:      a.AssessmentID,
			AssessmentDate:    a.AssessmentDate,
			Weight:            a.Weight,
			WeightUnit:        a.WeightUnit,
			Height:            a.Height,
			HeightUnit:        a.HeightUnit,
			Age:               a.Age,
			Symptoms:          lo.Ternary(a.Symptoms == nil, []string{}, a.Symptoms),
			FollowUpResponses: lo.Ternary(a.FollowUpResponses == nil, []models.FollowUpResponse{}, a.FollowUpResponses),
		}
		if p, ok := byAssessment[a.AssessmentID]; ok {
			entry.Prescription = &models.PrescriptionSummary{
				PrescriptionID:   p.PrescriptionID,
				Medications:      lo.Ternary(p.Medications == nil, []models.Medication{}, p.Medications),
				Instructions:     p.Instructions,
				GeneratedDate:    p.GeneratedDate,
				LastModifiedBy:   p.LastModifiedBy,
				LastModifiedDate: p.LastModifiedDate,
			}
		}
		return entry
	})

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AssessmentDate > entries[j].AssessmentDate
	})
	return entries
}
