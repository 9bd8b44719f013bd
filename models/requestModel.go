package models

// PatientRegistration is the body of a patient sign-up request.
type PatientRegistration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// DoctorRegistration is the body of a doctor sign-up request.
type DoctorRegistration struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization"`
}

// LoginRequest is used by both login endpoints. UserType is optional and
// only honoured by the unified login.
type LoginRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	UserType UserType `json:"userType,omitempty"`
}

// AssessmentRequest is the body of a new symptom assessment.
type AssessmentRequest struct {
	PatientID         string             `json:"patientID"`
	Weight            float64            `json:"weight"`
	WeightUnit        string             `json:"weightUnit"`
	Height            float64            `json:"height"`
	HeightUnit        string             `json:"heightUnit"`
	Age               int                `json:"age"`
	Symptoms          []string           `json:"symptoms"`
	FollowUpResponses []FollowUpResponse `json:"followUpResponses"`
}

// PrescriptionUpdate carries a doctor's edit of a prescription. A nil
// Instructions keeps the stored instructions.
type PrescriptionUpdate struct {
	Medications  []Medication `json:"medications"`
	Instructions *string      `json:"instructions,omitempty"`
}
