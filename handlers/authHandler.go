package handlers

import (
	"MediIntake/models"
	"MediIntake/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPatient handles new patient registration
func (h *AuthHandler) RegisterPatient(c *gin.Context) {
	var req models.PatientRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	patient, err := h.service.RegisterPatient(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Patient registered successfully",
		"patientID": patient.PatientID,
		"firstName": patient.FirstName,
		"lastName":  patient.LastName,
		"email":     patient.Email,
	})
}

// LoginPatient authenticates a patient and returns a token with the profile
func (h *AuthHandler) LoginPatient(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	result, err := h.service.LoginPatient(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Authentication successful",
		"token":   result.Token,
		"patient": result.Patient,
	})
}

// RegisterDoctor handles new doctor registration
func (h *AuthHandler) RegisterDoctor(c *gin.Context) {
	var req models.DoctorRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	doctor, err := h.service.RegisterDoctor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Doctor registered successfully",
		"doctorID":       doctor.DoctorID,
		"firstName":      doctor.FirstName,
		"lastName":       doctor.LastName,
		"email":          doctor.Email,
		"specialization": doctor.Specialization,
	})
}

// Login authenticates a patient or a doctor
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"message":  "Authentication successful",
		"token":    result.Token,
		"userType": result.UserType,
	}
	if result.Patient != nil {
		body["patient"] = result.Patient
	}
	if result.Doctor != nil {
		body["doctor"] = result.Doctor
	}
	c.JSON(http.StatusOK, body)
}
