package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"derma-review-api/config"
	"derma-review-api/models"
	"derma-review-api/services"

	"github.com/gin-gonic/gin"
)

type createReviewRequestReq struct {
	PredictionID    uint `json:"prediction_id" binding:"required"`
	DermatologistID uint `json:"dermatologist_id" binding:"required"`
}

type submitReviewReq struct {
	Comment string `json:"comment" binding:"required"`
}

// CreateReviewRequest handles POST /review-requests (patient only).
func CreateReviewRequest(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createReviewRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	workflow := services.NewReviewWorkflowService(config.DB)
	request, err := workflow.RequestReview(req.PredictionID, req.DermatologistID, uid)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// SubmitReview handles POST /review-requests/:id/review (dermatologist only).
func SubmitReview(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	var req submitReviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	workflow := services.NewReviewWorkflowService(config.DB)
	request, err := workflow.SubmitReview(uint(requestID), req.Comment, uid)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetReviewRequest handles GET /review-requests/:id. Visible only to the
// patient who created the request or the assigned dermatologist.
func GetReviewRequest(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	ledger := services.NewReviewRequestService(config.DB)
	request, err := ledger.Get(uint(requestID), uid)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// Attach the prediction so the reviewer sees the case inline.
	var prediction models.Prediction
	if err := config.DB.First(&prediction, "prediction_id = ?", request.PredictionID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Prediction not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request":    request,
		"prediction": prediction,
	})
}

// ListReviewRequests handles GET /review-requests. Patients see requests they
// created, dermatologists see requests assigned to them.
func ListReviewRequests(c *gin.Context) {
	uid, ok := getCurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	role, _ := getCurrentUserRole(c)

	caller, ok := services.CallerForRole(role, uid)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	statusFilter := strings.TrimSpace(c.Query("status"))
	if statusFilter != "" && statusFilter != models.ReviewStatusPending && statusFilter != models.ReviewStatusReviewed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}

	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	ledger := services.NewReviewRequestService(config.DB)
	requests, total, err := ledger.List(caller, statusFilter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}
