package controllers

import (
	"net/http"
	"strconv"
	"time"

	"derma-review-api/config"
	"derma-review-api/models"

	"github.com/gin-gonic/gin"
)

// SuspendUser handles POST /admin/users/:id/suspend. A suspended account
// keeps its data but every authenticated call is rejected by the auth
// middleware until an admin lifts the suspension.
func SuspendUser(c *gin.Context) {
	setSuspension(c, true)
}

// UnsuspendUser handles POST /admin/users/:id/unsuspend.
func UnsuspendUser(c *gin.Context) {
	setSuspension(c, false)
}

func setSuspension(c *gin.Context, suspended bool) {
	adminID, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if uint(id) == adminID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot suspend your own account"})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", id).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]interface{}{"is_suspended": suspended, "update_at": now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "user_id": user.UserID, "is_suspended": suspended})
}
