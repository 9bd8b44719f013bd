package handlers

import (
	"MediIntake/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// GetAssignedPatients lists the calling doctor's patients with their history.
func (h *DoctorHandler) GetAssignedPatients(c *gin.Context) {
	doctorID, ok := currentUser(c)
	if !ok {
		return
	}

	patients, err := h.service.AssignedPatients(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Assigned patients retrieved successfully",
		"doctorID": doctorID,
		"patients": patients,
	})
}
