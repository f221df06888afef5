package controllers

import (
	"log"
	"net/http"

	"derma-review-api/config"
	"derma-review-api/services"

	"github.com/gin-gonic/gin"
)

// Swapped out in tests.
var sendMailFunc = config.SendMail

func sendMailSafe(to []string, subject, html string) {
	if err := sendMailFunc(to, subject, html); err != nil {
		log.Printf("email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func getCurrentUserID(c *gin.Context) (uint, bool) {
	if v, ok := c.Get("userID"); ok {
		switch t := v.(type) {
		case uint:
			return t, true
		case int:
			return uint(t), true
		case int64:
			return uint(t), true
		case float64:
			return uint(t), true
		}
	}
	return 0, false
}

func getCurrentUserRole(c *gin.Context) (string, bool) {
	if v, ok := c.Get("userRole"); ok {
		if role, ok := v.(string); ok {
			return role, true
		}
	}
	return "", false
}

// respondWorkflowError maps a workflow failure kind to its HTTP status.
// Anything else is an infrastructure error and reports 500.
func respondWorkflowError(c *gin.Context, err error) {
	wfErr, ok := services.AsWorkflowError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch wfErr.Kind {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindForbidden:
		status = http.StatusForbidden
	case services.KindInvalidTarget, services.KindValidation:
		status = http.StatusBadRequest
	case services.KindConflict, services.KindInvalidState:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"error": wfErr.Message, "reason": wfErr.Reason})
}
