package controllers

import (
	"MediIntake/handlers"
	"MediIntake/middlewares"
	"MediIntake/models"

	"github.com/gin-gonic/gin"
)

// SetupPatientRoutes registers the authenticated patient and doctor routes
func SetupPatientRoutes(
	api *gin.RouterGroup,
	tokenAuth gin.HandlerFunc,
	patientHandler *handlers.PatientHandler,
	assessmentHandler *handlers.AssessmentHandler,
	doctorHandler *handlers.DoctorHandler,
	prescriptionHandler *handlers.PrescriptionHandler,
) {
	authed := api.Group("", tokenAuth)
	{
		authed.GET("/patients/:patient_id/history", patientHandler.GetHistory)
	}

	patients := api.Group("", tokenAuth, middlewares.UserTypeMiddleware(models.UserTypePatient))
	{
		patients.POST("/assessments", assessmentHandler.CreateAssessment)
	}

	doctors := api.Group("", tokenAuth, middlewares.UserTypeMiddleware(models.UserTypeDoctor))
	{
		doctors.GET("/doctors/patients", doctorHandler.GetAssignedPatients)
		doctors.PUT("/prescriptions/:prescription_id", prescriptionHandler.UpdatePrescription)
	}
}
