package models

// PrescriptionSummary is the part of a prescription embedded in a history entry.
type PrescriptionSummary struct {
	PrescriptionID   string       `json:"prescriptionID"`
	Medications      []Medication `json:"medications"`
	Instructions     string       `json:"instructions"`
	GeneratedDate    string       `json:"generatedDate"`
	LastModifiedBy   string       `json:"lastModifiedBy,omitempty"`
	LastModifiedDate string       `json:"lastModifiedDate,omitempty"`
}

// HistoryEntry joins one assessment with its prescription, if any.
type HistoryEntry struct {
	AssessmentID      string               `json:"assessmentID"`
	AssessmentDate    string               `json:"assessmentDate"`
	Weight            float64              `json:"weight"`
	WeightUnit        string               `json:"weightUnit"`
	Height            float64              `json:"height"`
	HeightUnit        string               `json:"heightUnit"`
	Age               int                  `json:"age"`
	Symptoms          []string             `json:"symptoms"`
	FollowUpResponses []FollowUpResponse   `json:"followUpResponses"`
	Prescription      *PrescriptionSummary `json:"prescription,omitempty"`
}

// AssignedPatient is a doctor's view of one of their patients.
type AssignedPatient struct {
	PatientProfile
	AssessmentCount int            `json:"assessmentCount"`
	History         []HistoryEntry `json:"history"`
}
