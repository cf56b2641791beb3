package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SERVICE_NAME    = "WhatsApp-Bitrix24 Backend"
	SERVICE_VERSION = "2.0.0"
)

// GET /health
func Health(c *gin.Context) {
	RespondSuccess(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"service":   SERVICE_NAME,
		"version":   SERVICE_VERSION,
	})
}
