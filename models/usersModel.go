package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// UserType identifies which account collection a token subject belongs to.
type UserType string

const (
	UserTypePatient UserType = "patient"
	UserTypeDoctor  UserType = "doctor"
)

// Valid reports whether t is a known user type.
func (t UserType) Valid() bool {
	return t == UserTypePatient || t == UserTypeDoctor
}

// Patient is a registered patient account.
type Patient struct {
	PatientID        string `json:"patientID"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PasswordHash     string `json:"passwordHash"`
	RegistrationDate string `json:"registrationDate"`
}

func (p Patient) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.PatientID, validation.Required),
		validation.Field(&p.FirstName, validation.Required),
		validation.Field(&p.LastName, validation.Required),
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.PasswordHash, validation.Required),
		validation.Field(&p.RegistrationDate, validation.Required),
	)
}

// PatientProfile is the public view of a patient, without credentials.
type PatientProfile struct {
	PatientID string `json:"patientID"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (p Patient) Profile() PatientProfile {
	return PatientProfile{
		PatientID: p.PatientID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
	}
}

// Doctor is a registered doctor account.
type Doctor struct {
	DoctorID         string `json:"doctorID"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PasswordHash     string `json:"passwordHash"`
	Specialization   string `json:"specialization"`
	RegistrationDate string `json:"registrationDate,omitempty"`
}

func (d Doctor) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.DoctorID, validation.Required),
		validation.Field(&d.FirstName, validation.Required),
		validation.Field(&d.LastName, validation.Required),
		validation.Field(&d.Email, validation.Required, is.EmailFormat),
		validation.Field(&d.PasswordHash, validation.Required),
		validation.Field(&d.Specialization, validation.Required),
	)
}

// DoctorProfile is the public view of a doctor.
type DoctorProfile struct {
	DoctorID       string `json:"doctorID"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

func (d Doctor) Profile() DoctorProfile {
	return DoctorProfile{
		DoctorID:       d.DoctorID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		Specialization: d.Specialization,
	}
}

// FullName joins first and last name.
func (d Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
