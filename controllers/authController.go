package controllers

import (
	"MediIntake/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes registers the public registration and login routes
func (ac *AuthController) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/patients/register", ac.Handler.RegisterPatient)
	api.POST("/patients/login", ac.Handler.LoginPatient)
	api.POST("/doctors/register", ac.Handler.RegisterDoctor)
	api.POST("/auth/login", ac.Handler.Login)
}
