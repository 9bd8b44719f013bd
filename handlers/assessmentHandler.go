package handlers

import (
	"MediIntake/middlewares"
	"MediIntake/models"
	"MediIntake/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssessmentHandler struct {
	service *services.AssessmentService
}

func NewAssessmentHandler(service *services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{service: service}
}

// CreateAssessment stores a patient's assessment and returns the generated
// prescription and doctor assignment.
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.AssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	if req.PatientID != userID {
		middlewares.HttpError(c, http.StatusForbidden, "Forbidden", "You can only create assessments for yourself", nil)
		return
	}

	result, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Assessment created successfully",
		"assessment": gin.H{
			"assessmentID":   result.Assessment.AssessmentID,
			"assessmentDate": result.Assessment.AssessmentDate,
		},
		"prescription": gin.H{
			"prescriptionID": result.Prescription.PrescriptionID,
			"medications":    result.Prescription.Medications,
			"instructions":   result.Prescription.Instructions,
			"generatedBy":    result.Prescription.GeneratedBy,
		},
		"doctorAssignment": gin.H{
			"doctorName":     result.Assignment.DoctorName,
			"tokenID":        result.Assignment.TokenID,
			"specialization": result.Specialization,
		},
	})
}
