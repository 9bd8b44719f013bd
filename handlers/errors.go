package handlers

import (
	"MediIntake/database"
	"MediIntake/middlewares"
	"MediIntake/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func invalidBody(c *gin.Context, err error) {
	middlewares.HttpError(c, http.StatusBadRequest, "Validation error", "Invalid request body", err)
}

// respondError maps a service error to its HTTP status and body.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		middlewares.HttpError(c, http.StatusBadRequest, "Validation error", validationErr.Error(), nil)
	case errors.Is(err, services.ErrEmailTaken):
		middlewares.HttpError(c, http.StatusBadRequest, "Validation error", "Email already registered", nil)
	case errors.Is(err, database.ErrConflict):
		middlewares.HttpError(c, http.StatusBadRequest, "Validation error", "Record conflicts with an existing one", err)
	case errors.Is(err, services.ErrInvalidCredentials):
		middlewares.HttpError(c, http.StatusUnauthorized, "Invalid credentials", "Invalid email or password", nil)
	case errors.Is(err, services.ErrForbidden):
		middlewares.HttpError(c, http.StatusForbidden, "Forbidden", "You are not allowed to perform this action", nil)
	case errors.Is(err, services.ErrPatientNotFound):
		middlewares.HttpError(c, http.StatusNotFound, "Not found", "Patient not found", nil)
	case errors.Is(err, services.ErrPrescriptionNotFound):
		middlewares.HttpError(c, http.StatusNotFound, "Not found", "Prescription not found", nil)
	default:
		middlewares.HttpError(c, http.StatusInternalServerError, "Internal server error", "An unexpected error occurred", err)
	}
}

// currentUser returns the authenticated user ID. The token middleware runs
// first, so a missing user is a wiring error.
func currentUser(c *gin.Context) (string, bool) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.HttpError(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token", err)
		return "", false
	}
	return userID, true
}
