package handlers

import (
	"MediIntake/models"
	"MediIntake/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

// UpdatePrescription lets the assigned doctor edit medications and instructions.
func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	doctorID, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.PrescriptionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	prescription, err := h.service.Update(c.Request.Context(), doctorID, c.Param("prescription_id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Prescription updated successfully",
		"prescription": prescription,
	})
}
