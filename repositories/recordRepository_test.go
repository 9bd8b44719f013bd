package repositories

import (
	"MediIntake/database"
	"MediIntake/models"
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/samber/lo"
)

func openStore(t *testing.T) *database.RecordStore {
	t.Helper()
	store, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.EnsureCollections(Collections...); err != nil {
		t.Fatalf("EnsureCollections: %v", err)
	}
	return store
}

func testPatient(id, email string) *models.Patient {
	return &models.Patient{
		PatientID:        id,
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Email:            email,
		PasswordHash:     "hash",
		RegistrationDate: "2024-01-01T00:00:00.000000Z",
	}
}

func TestPatientRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPatientRepository(openStore(t))

	if err := repo.Create(ctx, testPatient("p1", "ada@example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, testPatient("p2", "ADA@example.com")); !errors.Is(err, database.ErrConflict) {
		t.Errorf("duplicate email error = %v, want ErrConflict", err)
	}

	got, err := repo.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.PatientID != "p1" || got.PasswordHash != "hash" {
		t.Errorf("patient = %+v", got)
	}

	if _, err := repo.GetByID(ctx, "p2"); !errors.Is(err, database.ErrRecordNotFound) {
		t.Errorf("GetByID(p2) error = %v, want ErrRecordNotFound", err)
	}
}

func TestGetByEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	patients := NewPatientRepository(store)
	doctors := NewDoctorRepository(store)

	if err := patients.Create(ctx, testPatient("p1", "Ada.Lovelace@Example.com")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := doctors.Create(ctx, &models.Doctor{
		DoctorID:       "d1",
		FirstName:      "Greg",
		LastName:       "House",
		Email:          "House@Example.com",
		PasswordHash:   "hash",
		Specialization: "Diagnostics",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	patient, err := patients.GetByEmail(ctx, "ada.lovelace@example.com")
	if err != nil || patient.PatientID != "p1" {
		t.Errorf("patient GetByEmail = %+v, %v", patient, err)
	}
	doctor, err := doctors.GetByEmail(ctx, "house@example.com")
	if err != nil || doctor.DoctorID != "d1" {
		t.Errorf("doctor GetByEmail = %+v, %v", doctor, err)
	}
	if _, err := patients.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, database.ErrRecordNotFound) {
		t.Errorf("GetByEmail(nobody) error = %v, want ErrRecordNotFound", err)
	}
}

func TestCreateRejectsInvalidModel(t *testing.T) {
	store := openStore(t)
	repo := NewPatientRepository(store)

	patient := testPatient("", "ada@example.com")
	if err := repo.Create(context.Background(), patient); err == nil {
		t.Fatal("patient without id accepted")
	}
	records, err := store.ReadAll(PatientsCollection)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("invalid patient was written")
	}
}

func TestDoctorRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewDoctorRepository(openStore(t))

	doctors, err := repo.List(ctx)
	if err != nil || len(doctors) != 0 {
		t.Fatalf("List on empty = %v, %v", doctors, err)
	}
	for _, id := range []string{"d1", "d2"} {
		err := repo.Create(ctx, &models.Doctor{
			DoctorID:       id,
			FirstName:      "Greg",
			LastName:       "House",
			Email:          id + "@example.com",
			PasswordHash:   "hash",
			Specialization: "Diagnostics",
		})
		if err != nil {
			t.Fatalf("Create(%s): %v", id, err)
		}
	}
	doctors, err = repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(doctors) != 2 || doctors[0].DoctorID != "d1" || doctors[1].DoctorID != "d2" {
		t.Errorf("doctors = %+v", doctors)
	}
}

func testPrescription(id, assessmentID string) *models.Prescription {
	return &models.Prescription{
		PrescriptionID: id,
		AssessmentID:   assessmentID,
		PatientID:      "p1",
		Medications:    []models.Medication{{Name: "Ibuprofen", Dosage: "200mg"}},
		Instructions:   "rest",
		GeneratedDate:  "2024-01-01T00:00:00.000000Z",
		GeneratedBy:    "rule-based-fallback",
	}
}

func TestPrescriptionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewPrescriptionRepository(openStore(t))

	if err := repo.Create(ctx, testPrescription("r1", "a1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, testPrescription("r2", "a1")); !errors.Is(err, database.ErrConflict) {
		t.Errorf("second prescription for a1 error = %v, want ErrConflict", err)
	}

	updated, err := repo.Update(ctx, "r1", models.PrescriptionUpdate{
		Medications:  []models.Medication{{Name: "Paracetamol"}},
		Instructions: lo.ToPtr("reviewed"),
	}, "d1", "2024-01-02T00:00:00.000000Z")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Medications[0].Name != "Paracetamol" || updated.LastModifiedBy != "d1" || updated.GeneratedBy != "rule-based-fallback" {
		t.Errorf("updated = %+v", updated)
	}

	stored, err := repo.GetByID(ctx, "r1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Instructions != "reviewed" || stored.LastModifiedDate != "2024-01-02T00:00:00.000000Z" {
		t.Errorf("stored = %+v", stored)
	}

	// An edit without instructions keeps the stored ones.
	updated, err = repo.Update(ctx, "r1", models.PrescriptionUpdate{
		Medications: []models.Medication{{Name: "Honey"}},
	}, "d2", "2024-01-03T00:00:00.000000Z")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Instructions != "reviewed" || updated.Medications[0].Name != "Honey" || updated.LastModifiedBy != "d2" {
		t.Errorf("medications-only update = %+v", updated)
	}

	if _, err := repo.Update(ctx, "missing", models.PrescriptionUpdate{Medications: []models.Medication{{Name: "x"}}}, "d1", "now"); !errors.Is(err, database.ErrRecordNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrRecordNotFound", err)
	}
}

func TestListByPatientOnMissingCollection(t *testing.T) {
	store, err := database.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	assessments, err := NewAssessmentRepository(store).ListByPatient(context.Background(), "p1")
	if err != nil {
		t.Fatalf("ListByPatient: %v", err)
	}
	if assessments == nil || len(assessments) != 0 {
		t.Errorf("assessments = %#v, want empty", assessments)
	}
}

func TestAssignmentRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(openStore(t))

	for i, doctorID := range []string{"d1", "d2", "d1"} {
		err := repo.Create(ctx, &models.Assignment{
			AssignmentID:   "s" + strconv.Itoa(i+1),
			AssessmentID:   "a" + strconv.Itoa(i+1),
			PatientID:      "p1",
			DoctorID:       doctorID,
			DoctorName:     "Dr. " + doctorID,
			TokenID:        "t",
			AssignmentDate: "2024-01-01T00:00:00.000000Z",
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	byDoctor, err := repo.ListByDoctor(ctx, "d1")
	if err != nil {
		t.Fatalf("ListByDoctor: %v", err)
	}
	if len(byDoctor) != 2 || byDoctor[0].AssessmentID != "a1" || byDoctor[1].AssessmentID != "a3" {
		t.Errorf("byDoctor = %+v", byDoctor)
	}

	got, err := repo.GetByAssessment(ctx, "a2")
	if err != nil || got.DoctorID != "d2" {
		t.Errorf("GetByAssessment = %+v, %v", got, err)
	}
	if _, err := repo.GetByAssessment(ctx, "a9"); !errors.Is(err, database.ErrRecordNotFound) {
		t.Errorf("GetByAssessment(a9) error = %v", err)
	}
}
