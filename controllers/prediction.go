package controllers

import (
	"net/http"
	"strconv"

	"derma-review-api/config"
	"derma-review-api/models"

	"github.com/gin-gonic/gin"
)

// GetPredictions lists the caller's prediction history, newest first.
func GetPredictions(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var predictions []models.Prediction
	if err := config.DB.
		Where("user_id = ?", uid).
		Order("create_at DESC").
		Find(&predictions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"predictions": predictions})
}

// GetPrediction returns a single prediction. Only the owner may fetch it.
func GetPrediction(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid prediction id"})
		return
	}

	var prediction models.Prediction
	if err := config.DB.First(&prediction, "prediction_id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
		return
	}

	if prediction.UserID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to view this prediction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prediction": prediction})
}
