package controllers

import (
	"net/http"
	"strings"

	"derma-review-api/config"
	"derma-review-api/models"
	"derma-review-api/services"
	"derma-review-api/utils"

	"github.com/gin-gonic/gin"
)

type treatmentSuggestionReq struct {
	Condition  string   `json:"condition" binding:"required,max=100"`
	Treatments []string `json:"treatments"`
	Prevention []string `json:"prevention"`
	Resources  []string `json:"resources"`
}

type treatmentGuidanceReq struct {
	Treatments []string `json:"treatments"`
	Prevention []string `json:"prevention"`
	Resources  []string `json:"resources"`
}

func treatmentSuggestionView(s *models.TreatmentSuggestion) gin.H {
	guidance, err := s.ParseGuidance()
	if err != nil || guidance == nil {
		guidance = &models.TreatmentGuidance{}
	}
	return gin.H{
		"suggestion_id": s.SuggestionID,
		"condition":     s.Condition,
		"treatments":    guidance.Treatments,
		"prevention":    guidance.Prevention,
		"resources":     guidance.Resources,
		"created_at":    s.CreatedAt,
		"updated_at":    s.UpdatedAt,
	}
}

// GetTreatmentSuggestions handles GET /treatment/suggestions. Public: the
// frontend shows guidance next to a prediction result without a login.
func GetTreatmentSuggestions(c *gin.Context) {
	treatment := services.NewTreatmentService(config.DB)
	suggestions, err := treatment.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(suggestions))
	for i := range suggestions {
		items = append(items, treatmentSuggestionView(&suggestions[i]))
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": items})
}

// GetTreatmentSuggestion handles GET /treatment/suggestions/:condition.
func GetTreatmentSuggestion(c *gin.Context) {
	condition := strings.TrimSpace(c.Param("condition"))
	if condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition is required"})
		return
	}

	treatment := services.NewTreatmentService(config.DB)
	suggestion, err := treatment.GetByCondition(condition)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, treatmentSuggestionView(suggestion))
}

// CreateTreatmentSuggestion handles POST /admin/treatment/suggestions.
func CreateTreatmentSuggestion(c *gin.Context) {
	var req treatmentSuggestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	treatment := services.NewTreatmentService(config.DB)
	suggestion, err := treatment.Create(utils.SanitizeInput(req.Condition), models.TreatmentGuidance{
		Treatments: req.Treatments,
		Prevention: req.Prevention,
		Resources:  req.Resources,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, treatmentSuggestionView(suggestion))
}

// UpdateTreatmentSuggestion handles PUT /admin/treatment/suggestions/:condition.
func UpdateTreatmentSuggestion(c *gin.Context) {
	condition := strings.TrimSpace(c.Param("condition"))
	if condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition is required"})
		return
	}

	var req treatmentGuidanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	treatment := services.NewTreatmentService(config.DB)
	suggestion, err := treatment.Update(condition, models.TreatmentGuidance{
		Treatments: req.Treatments,
		Prevention: req.Prevention,
		Resources:  req.Resources,
	})
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, treatmentSuggestionView(suggestion))
}

// DeleteTreatmentSuggestion handles DELETE /admin/treatment/suggestions/:condition.
func DeleteTreatmentSuggestion(c *gin.Context) {
	condition := strings.TrimSpace(c.Param("condition"))
	if condition == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "condition is required"})
		return
	}

	treatment := services.NewTreatmentService(config.DB)
	if err := treatment.Delete(condition); err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Treatment suggestion deleted successfully"})
}
