package services

import (
	"MediIntake/database"
	"MediIntake/events"
	"MediIntake/llm"
	"MediIntake/models"
	"MediIntake/repositories"
	"MediIntake/utils"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	default:
		c.values[key] = fmt.Sprint(v)
	}
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type recordingMailer struct {
	notices []utils.AssignmentNotice
}

func (m *recordingMailer) SendAssignmentNotice(notice utils.AssignmentNotice) error {
	m.notices = append(m.notices, notice)
	return nil
}

type testEnv struct {
	store         *database.RecordStore
	patients      *repositories.PatientRepository
	doctorRepo    *repositories.DoctorRepository
	assessments   *repositories.AssessmentRepository
	prescriptions *repositories.PrescriptionRepository
	assignments   *repositories.AssignmentRepository

	tokens    utils.TokenManager
	cache     *memoryCache
	publisher *recordingPublisher
	mailer    *recordingMailer

	auth          AuthService
	history       *HistoryService
	doctors       *DoctorService
	assessment    *AssessmentService
	prescription  *PrescriptionService
	generatedFrom []string
}

func newTestEnv(t *testing.T, text llm.TextGenerator) *testEnv {
	t.Helper()
	store, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.EnsureCollections(repositories.Collections...); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}
	tokens, err := utils.NewTokenManager(utils.TokenFormatJWT, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	env := &testEnv{
		store:         store,
		patients:      repositories.NewPatientRepository(store),
		doctorRepo:    repositories.NewDoctorRepository(store),
		assessments:   repositories.NewAssessmentRepository(store),
		prescriptions: repositories.NewPrescriptionRepository(store),
		assignments:   repositories.NewAssignmentRepository(store),
		tokens:        tokens,
		cache:         newMemoryCache(),
		publisher:     &recordingPublisher{},
		mailer:        &recordingMailer{},
	}
	log := zerolog.Nop()

	generator := NewPrescriptionGenerator(text, time.Second, log, func(source string) {
		env.generatedFrom = append(env.generatedFrom, source)
	})
	env.auth = NewAuthService(env.patients, env.doctorRepo, tokens, bcrypt.MinCost, log)
	env.history = NewHistoryService(env.patients, env.assessments, env.prescriptions, env.cache, time.Minute, log)
	env.doctors = NewDoctorService(env.doctorRepo, env.patients, env.assignments, env.history, log)
	env.assessment = NewAssessmentService(env.patients, env.assessments, env.prescriptions, env.assignments,
		env.doctors, env.history, generator, env.publisher, env.mailer, log)
	env.prescription = NewPrescriptionService(env.prescriptions, env.assignments, env.history, env.publisher, log)
	return env
}

func (e *testEnv) registerPatient(t *testing.T, email string) *models.Patient {
	t.Helper()
	patient, err := e.auth.RegisterPatient(context.Background(), models.PatientRegistration{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "patient-pw",
	})
	if err != nil {
		t.Fatalf("RegisterPatient: %v", err)
	}
	return patient
}

func (e *testEnv) registerDoctor(t *testing.T, email string) *models.Doctor {
	t.Helper()
	doctor, err := e.auth.RegisterDoctor(context.Background(), models.DoctorRegistration{
		FirstName:      "Gregory",
		LastName:       "House",
		Email:          email,
		Password:       "doctor-pw",
		Specialization: "Diagnostics",
	})
	if err != nil {
		t.Fatalf("RegisterDoctor: %v", err)
	}
	return doctor
}

func (e *testEnv) createAssessment(t *testing.T, patientID string, symptoms ...string) *AssessmentResult {
	t.Helper()
	result, err := e.assessment.Create(context.Background(), models.AssessmentRequest{
		PatientID:  patientID,
		Weight:     70,
		WeightUnit: "kg",
		Height:     175,
		HeightUnit: "cm",
		Age:        36,
		Symptoms:   symptoms,
	})
	if err != nil {
		t.Fatalf("Create assessment: %v", err)
	}
	return result
}
