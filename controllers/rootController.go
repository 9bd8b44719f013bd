package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// healthHandler reports that the API is up
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Patient Assessment System API is running",
	})
}

// SetupRootRoute registers the health check and, when given, the metrics endpoint
func SetupRootRoute(router *gin.Engine, metricsHandler http.Handler) {
	router.GET("/api/health", healthHandler)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}
