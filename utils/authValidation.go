package utils

import (
	"MediIntake/models"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// bcrypt ignores everything past 72 bytes.
const maxPasswordLength = 72

func emailRules() []validation.Rule {
	return []validation.Rule{
		validation.Required,
		is.EmailFormat,
		validation.Match(emailPattern).Error("invalid email format"),
	}
}

// ValidatePatientRegistration checks a normalized patient sign-up request.
func ValidatePatientRegistration(req models.PatientRegistration) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, emailRules()...),
		validation.Field(&req.Password, validation.Required, validation.Length(1, maxPasswordLength)),
	)
}

// ValidateDoctorRegistration checks a normalized doctor sign-up request.
func ValidateDoctorRegistration(req models.DoctorRegistration) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, emailRules()...),
		validation.Field(&req.Password, validation.Required, validation.Length(1, maxPasswordLength)),
		validation.Field(&req.Specialization, validation.Required, validation.Length(1, 100)),
	)
}

// ValidateLogin checks that credentials are present and the user type, if
// given, is known.
func ValidateLogin(req models.LoginRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.UserType, validation.In(models.UserTypePatient, models.UserTypeDoctor)),
	)
}

// ValidateAssessmentRequest checks vitals, units and symptoms.
func ValidateAssessmentRequest(req models.AssessmentRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.PatientID, validation.Required),
		validation.Field(&req.Weight,
			validation.Required.Error("must be a positive number"),
			validation.Min(0.0).Exclusive().Error("must be a positive number")),
		validation.Field(&req.WeightUnit, validation.Required,
			validation.In(models.WeightUnits...).Error(`must be "kg" or "lbs"`)),
		validation.Field(&req.Height,
			validation.Required.Error("must be a positive number"),
			validation.Min(0.0).Exclusive().Error("must be a positive number")),
		validation.Field(&req.HeightUnit, validation.Required,
			validation.In(models.HeightUnits...).Error(`must be "cm" or "inches"`)),
		validation.Field(&req.Age,
			validation.Required.Error("must be a positive number"),
			validation.Min(1).Error("must be a positive number")),
		validation.Field(&req.Symptoms,
			validation.Required.Error("must be a non-empty list"),
			validation.Each(validation.Required)),
		validation.Field(&req.FollowUpResponses),
	)
}

// ValidatePrescriptionUpdate checks a doctor's edit before it is merged.
func ValidatePrescriptionUpdate(req models.PrescriptionUpdate) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Medications, validation.Required),
		validation.Field(&req.Instructions, validation.Length(0, 2000)),
	)
}
