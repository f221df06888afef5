package services

import (
	"errors"
	"log"
	"time"
	"unicode/utf8"

	"derma-review-api/config"
	"derma-review-api/models"

	"gorm.io/gorm"
)

// MaxReviewCommentLength bounds the dermatologist's review comment.
const MaxReviewCommentLength = 2000

// ReviewRequestService is the authoritative store and transition logic for
// review requests. Create is the only writer of new records and SubmitReview
// the only transition; both rely on storage-level constraints (a unique
// index, a conditional update) rather than in-process locks, so multiple
// API instances stay correct.
type ReviewRequestService struct {
	db *gorm.DB
}

func NewReviewRequestService(db *gorm.DB) *ReviewRequestService {
	if db == nil {
		db = config.DB
	}
	return &ReviewRequestService{db: db}
}

// Create validates and inserts a new pending review request.
// Preconditions are checked in order; the first failure wins.
func (s *ReviewRequestService) Create(predictionID, patientID, dermatologistID uint) (*models.ReviewRequest, error) {
	var prediction models.Prediction
	if err := s.db.First(&prediction, "prediction_id = ?", predictionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("prediction", "Prediction not found")
		}
		return nil, err
	}

	if prediction.UserID != patientID {
		return nil, forbiddenErr("not_owner", "You can only request reviews for your own predictions")
	}

	// The target must hold the dermatologist role right now. A later role
	// change does not retroactively invalidate requests created before it.
	var dermatologist models.User
	err := s.db.First(&dermatologist, "user_id = ? AND delete_at IS NULL", dermatologistID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidTargetErr("not_dermatologist", "Selected user is not a dermatologist")
		}
		return nil, err
	}
	if dermatologist.Role != models.RoleDermatologist {
		return nil, invalidTargetErr("not_dermatologist", "Selected user is not a dermatologist")
	}

	request := models.ReviewRequest{
		PredictionID:    predictionID,
		PatientID:       patientID,
		DermatologistID: dermatologistID,
		Status:          models.ReviewStatusPending,
		CreateAt:        time.Now(),
	}

	// The unique index on (prediction_id, dermatologist_id) arbitrates
	// concurrent duplicate submissions; of two racing creates exactly one
	// insert succeeds.
	if err := s.db.Create(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictErr("duplicate_request", "A review request to this dermatologist already exists for this prediction")
		}
		return nil, err
	}

	log.Printf("Created review request %d for prediction %d", request.RequestID, predictionID)

	return &request, nil
}

// SubmitReview transitions a pending request to reviewed, setting comment and
// reviewed_at in the same statement. The UPDATE is keyed on status='pending'
// so two concurrent submissions can never both succeed.
func (s *ReviewRequestService) SubmitReview(requestID, dermatologistID uint, comment string) (*models.ReviewRequest, error) {
	var request models.ReviewRequest
	if err := s.db.First(&request, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("request", "Review request not found")
		}
		return nil, err
	}

	if request.DermatologistID != dermatologistID {
		return nil, forbiddenErr("not_assigned", "You are not assigned to this request")
	}

	if request.Status != models.ReviewStatusPending {
		return nil, invalidStateErr("already_reviewed", "This request has already been reviewed")
	}

	if n := utf8.RuneCountInString(comment); n < 1 || n > MaxReviewCommentLength {
		return nil, validationErr("comment_length", "Comment must be between 1 and 2000 characters")
	}

	now := time.Now()
	result := s.db.Model(&models.ReviewRequest{}).
		Where("request_id = ? AND status = ?", requestID, models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":      models.ReviewStatusReviewed,
			"comment":     comment,
			"reviewed_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Lost the race: a concurrent submission reviewed it between our
		// read and the conditional update. Requests are never deleted, so
		// this cannot be a vanished row.
		return nil, invalidStateErr("already_reviewed", "This request has already been reviewed")
	}

	log.Printf("Review submitted for request %d by dermatologist %d", requestID, dermatologistID)

	request.Status = models.ReviewStatusReviewed
	request.Comment = &comment
	request.ReviewedAt = &now
	return &request, nil
}

// Get returns a single request, visible only to the patient who created it
// or the dermatologist assigned to it.
func (s *ReviewRequestService) Get(requestID, callerID uint) (*models.ReviewRequest, error) {
	var request models.ReviewRequest
	if err := s.db.First(&request, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("request", "Review request not found")
		}
		return nil, err
	}

	if request.PatientID != callerID && request.DermatologistID != callerID {
		return nil, forbiddenErr("not_authorized", "You are not authorized to view this request")
	}

	view := []models.ReviewRequest{request}
	s.attachUsernames(view)
	return &view[0], nil
}

// List returns the caller's requests, newest first. Patients see requests
// they created; dermatologists see requests assigned to them.
func (s *ReviewRequestService) List(caller Caller, statusFilter string, limit, offset int) ([]models.ReviewRequest, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.Model(&models.ReviewRequest{})
	if caller.IsPatient() {
		q = q.Where("patient_id = ?", caller.UserID())
	} else {
		q = q.Where("dermatologist_id = ?", caller.UserID())
	}
	if statusFilter != "" {
		q = q.Where("status = ?", statusFilter)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.ReviewRequest
	if err := q.Order("create_at DESC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	s.attachUsernames(requests)
	return requests, total, nil
}

// attachUsernames resolves patient/dermatologist display names. Best effort:
// a lookup failure leaves the names empty rather than failing the read.
func (s *ReviewRequestService) attachUsernames(requests []models.ReviewRequest) {
	if len(requests) == 0 {
		return
	}

	idSet := make(map[uint]struct{}, len(requests)*2)
	for i := range requests {
		idSet[requests[i].PatientID] = struct{}{}
		idSet[requests[i].DermatologistID] = struct{}{}
	}
	ids := make([]uint, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []struct {
		UserID   uint   `gorm:"column:user_id"`
		Username string `gorm:"column:username"`
	}
	if err := s.db.Model(&models.User{}).
		Select("user_id, username").
		Where("user_id IN ?", ids).
		Find(&users).Error; err != nil {
		log.Printf("failed to resolve usernames for review requests: %v", err)
		return
	}

	byID := make(map[uint]string, len(users))
	for _, u := range users {
		byID[u.UserID] = u.Username
	}
	for i := range requests {
		requests[i].PatientUsername = byID[requests[i].PatientID]
		requests[i].DermatologistUsername = byID[requests[i].DermatologistID]
	}
}
