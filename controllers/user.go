package controllers

import (
	"net/http"

	"derma-review-api/config"
	"derma-review-api/models"

	"github.com/gin-gonic/gin"
)

// GetMe returns the authenticated user's identity.
func GetMe(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// ListDermatologists returns the candidate dermatologists a patient can
// target with a review request.
func ListDermatologists(c *gin.Context) {
	var dermatologists []models.User
	if err := config.DB.
		Where("role = ? AND is_verified = ? AND is_suspended = ? AND delete_at IS NULL",
			models.RoleDermatologist, true, false).
		Order("username ASC").
		Find(&dermatologists).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(dermatologists))
	for _, d := range dermatologists {
		items = append(items, gin.H{
			"id":       d.UserID,
			"username": d.Username,
			"email":    d.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"dermatologists": items})
}
