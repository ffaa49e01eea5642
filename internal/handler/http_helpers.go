package handler

import (
	"github.com/gin-gonic/gin"
)

const reportRunIDHeader = "X-Report-Run-ID"

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondText(c *gin.Context, status int, runID, message string) {
	if runID != "" {
		c.Header(reportRunIDHeader, runID)
	}
	c.String(status, message)
}
