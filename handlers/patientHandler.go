package handlers

import (
	"MediIntake/middlewares"
	"MediIntake/models"
	"MediIntake/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	history *services.HistoryService
	doctors *services.DoctorService
}

func NewPatientHandler(history *services.HistoryService, doctors *services.DoctorService) *PatientHandler {
	return &PatientHandler{history: history, doctors: doctors}
}

// GetHistory returns a patient's assessments with their prescriptions,
// newest first. Patients may read their own history; doctors may read the
// history of patients assigned to them.
func (h *PatientHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	userType, _ := middlewares.ExtractUserTypeFromContext(c.Request.Context())
	patientID := c.Param("patient_id")

	switch userType {
	case models.UserTypePatient:
		if userID != patientID {
			middlewares.HttpError(c, http.StatusForbidden, "Forbidden", "You can only access your own patient history", nil)
			return
		}
	case models.UserTypeDoctor:
		assigned, err := h.doctors.IsAssignedToPatient(c.Request.Context(), userID, patientID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !assigned {
			middlewares.HttpError(c, http.StatusForbidden, "Forbidden", "Patient is not assigned to you", nil)
			return
		}
	default:
		middlewares.HttpError(c, http.StatusForbidden, "Forbidden", "Unknown account type", nil)
		return
	}

	history, err := h.history.PatientHistory(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "History retrieved successfully",
		"patientID": patientID,
		"history":   history,
	})
}
