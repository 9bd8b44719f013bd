package services

import (
	"MediIntake/database"
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

// LoginResult is returned by a successful login. Exactly one of Patient and
// Doctor is set, matching UserType.
type LoginResult struct {
	Token    string
	UserType models.UserType
	Patient  *models.PatientProfile
	Doctor   *models.DoctorProfile
}

type AuthService interface {
	RegisterPatient(ctx context.Context, req models.PatientRegistration) (*models.Patient, error)
	RegisterDoctor(ctx context.Context, req models.DoctorRegistration) (*models.Doctor, error)
	LoginPatient(ctx context.Context, email, password string) (*LoginResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error)
}

type authService struct {
	patients   *repositories.PatientRepository
	doctors    *repositories.DoctorRepository
	tokens     utils.TokenManager
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

func NewAuthService(
	patients *repositories.PatientRepository,
	doctors *repositories.DoctorRepository,
	tokens utils.TokenManager,
	bcryptCost int,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		patients:   patients,
		doctors:    doctors,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) RegisterPatient(ctx context.Context, req models.PatientRegistration) (*models.Patient, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidatePatientRegistration(req); err != nil {
		return nil, invalid(err)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	patient := &models.Patient{
		PatientID:        utils.GenerateID(""),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PasswordHash:     hash,
		RegistrationDate: models.Timestamp(s.now()),
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info().Str("patient_id", patient.PatientID).Msg("patient registered")
	return patient, nil
}

func (s *authService) RegisterDoctor(ctx context.Context, req models.DoctorRegistration) (*models.Doctor, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Specialization = strings.TrimSpace(req.Specialization)
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidateDoctorRegistration(req); err != nil {
		return nil, invalid(err)
	}

	hash, err := utils.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	doctor := &models.Doctor{
		DoctorID:         utils.GenerateID(""),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PasswordHash:     hash,
		Specialization:   req.Specialization,
		RegistrationDate: models.Timestamp(s.now()),
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.logger.Info().Str("doctor_id", doctor.DoctorID).Msg("doctor registered")
	return doctor, nil
}

func (s *authService) LoginPatient(ctx context.Context, email, password string) (*LoginResult, error) {
	return s.Login(ctx, models.LoginRequest{Email: email, Password: password, UserType: models.UserTypePatient})
}

// Login authenticates against the requested account type, or patients then
// doctors when no type is given.
func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	req.Email = normalizeEmail(req.Email)
	if err := utils.ValidateLogin(req); err != nil {
		return nil, invalid(err)
	}

	if req.UserType == "" || req.UserType == models.UserTypePatient {
		result, err := s.loginPatient(ctx, req.Email, req.Password)
		if err == nil || !errors.Is(err, ErrInvalidCredentials) || req.UserType != "" {
			return result, err
		}
	}
	return s.loginDoctor(ctx, req.Email, req.Password)
}

func (s *authService) loginPatient(ctx context.Context, email, password string) (*LoginResult, error) {
	patient, err := s.patients.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}
	if !utils.CheckPassword(patient.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(patient.PatientID, models.UserTypePatient)
	if err != nil {
		return nil, err
	}
	profile := patient.Profile()
	return &LoginResult{Token: token, UserType: models.UserTypePatient, Patient: &profile}, nil
}

func (s *authService) loginDoctor(ctx context.Context, email, password string) (*LoginResult, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up doctor: %w", err)
	}
	if !utils.CheckPassword(doctor.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(doctor.DoctorID, models.UserTypeDoctor)
	if err != nil {
		return nil, err
	}
	profile := doctor.Profile()
	return &LoginResult{Token: token, UserType: models.UserTypeDoctor, Doctor: &profile}, nil
}
