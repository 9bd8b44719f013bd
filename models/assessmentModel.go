package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	WeightUnits = []interface{}{"kg", "lbs"}
	HeightUnits = []interface{}{"cm", "inches"}
)

// FollowUpResponse is one answered follow-up question, kept in asked order.
type FollowUpResponse struct {
	QuestionID   string `json:"questionID"`
	QuestionText string `json:"questionText"`
	Answer       string `json:"answer"`
}

func (f FollowUpResponse) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.QuestionID, validation.Required),
		validation.Field(&f.Answer, validation.Required),
	)
}

// Assessment is one symptom submission with the patient's vitals.
type Assessment struct {
	AssessmentID      string             `json:"assessmentID"`
	PatientID         string             `json:"patientID"`
	Weight            float64            `json:"weight"`
	WeightUnit        string             `json:"weightUnit"`
	Height            float64            `json:"height"`
	HeightUnit        string             `json:"heightUnit"`
	Age               int                `json:"age"`
	Symptoms          []string           `json:"symptoms"`
	FollowUpResponses []FollowUpResponse `json:"followUpResponses"`
	AssessmentDate    string             `json:"assessmentDate"`
}

func (a Assessment) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.AssessmentID, validation.Required),
		validation.Field(&a.PatientID, validation.Required),
		validation.Field(&a.Weight, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&a.WeightUnit, validation.Required, validation.In(WeightUnits...)),
		validation.Field(&a.Height, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&a.HeightUnit, validation.Required, validation.In(HeightUnits...)),
		validation.Field(&a.Age, validation.Required, validation.Min(1)),
		validation.Field(&a.Symptoms, validation.Required, validation.Each(validation.Required)),
		validation.Field(&a.FollowUpResponses),
		validation.Field(&a.AssessmentDate, validation.Required),
	)
}

// TimestampLayout is a fixed-width RFC 3339 layout. Stored dates are compared
// as strings, so every timestamp must have the same width.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
