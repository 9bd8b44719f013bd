package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Medication is one line of a prescription.
type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

func (m Medication) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Name, validation.Required),
	)
}

// Prescription belongs to exactly one assessment.
type Prescription struct {
	PrescriptionID   string       `json:"prescriptionID"`
	AssessmentID     string       `json:"assessmentID"`
	PatientID        string       `json:"patientID"`
	Medications      []Medication `json:"medications"`
	Instructions     string       `json:"instructions"`
	GeneratedDate    string       `json:"generatedDate"`
	GeneratedBy      string       `json:"generatedBy"`
	LastModifiedBy   string       `json:"lastModifiedBy,omitempty"`
	LastModifiedDate string       `json:"lastModifiedDate,omitempty"`
}

func (p Prescription) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.PrescriptionID, validation.Required),
		validation.Field(&p.AssessmentID, validation.Required),
		validation.Field(&p.PatientID, validation.Required),
		validation.Field(&p.Medications, validation.Required),
		validation.Field(&p.GeneratedDate, validation.Required),
		validation.Field(&p.GeneratedBy, validation.Required),
	)
}

// Assignment links an assessment to the doctor who reviews it.
type Assignment struct {
	AssignmentID   string `json:"assignmentID"`
	AssessmentID   string `json:"assessmentID"`
	PatientID      string `json:"patientID"`
	DoctorID       string `json:"doctorID"`
	DoctorName     string `json:"doctorName"`
	TokenID        string `json:"tokenID"`
	AssignmentDate string `json:"assignmentDate"`
}

func (a Assignment) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.AssignmentID, validation.Required),
		validation.Field(&a.AssessmentID, validation.Required),
		validation.Field(&a.PatientID, validation.Required),
		validation.Field(&a.DoctorID, validation.Required),
		validation.Field(&a.DoctorName, validation.Required),
		validation.Field(&a.TokenID, validation.Required),
		validation.Field(&a.AssignmentDate, validation.Required),
	)
}
