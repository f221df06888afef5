package services

import (
	"log"
	"time"

	"derma-review-api/config"
	"derma-review-api/models"

	"gorm.io/gorm"
)

// NotificationService is the authoritative store and query logic for in-app
// notifications. Rows are created by the review workflow, mutated only by
// the recipient marking them read, and never deleted here.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db}
}

// Notify inserts an unread notification for userID.
func (s *NotificationService) Notify(userID uint, notificationType, message string, ref models.NotificationRef) (*models.Notification, error) {
	notification := models.Notification{
		UserID:   userID,
		Type:     notificationType,
		Message:  message,
		Ref:      ref,
		IsRead:   false,
		CreateAt: time.Now(),
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return nil, err
	}

	log.Printf("Created notification %d for user %d", notification.NotificationID, userID)
	return &notification, nil
}

// List returns the user's notifications, newest first. unreadCount covers all
// unread rows for the user regardless of pagination or the unreadOnly filter.
func (s *NotificationService) List(userID uint, unreadOnly bool, limit, offset int) ([]models.Notification, int64, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	unread, err := s.UnreadCount(userID)
	if err != nil {
		return nil, 0, 0, err
	}

	var notifications []models.Notification
	if err := q.Order("create_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, 0, err
	}

	return notifications, total, unread, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead flags a notification as read. The update is keyed on both id and
// owner; a miss reports NotFound either way, so a caller probing another
// user's notification id learns nothing about its existence.
func (s *NotificationService) MarkRead(notificationID, userID uint) error {
	result := s.db.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero affected rows for a no-op update, so an
		// already-read notification lands here too. Only report NotFound
		// when the row genuinely is not the caller's.
		var n int64
		if err := s.db.Model(&models.Notification{}).
			Where("notification_id = ? AND user_id = ?", notificationID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return notFoundErr("not_owned", "Notification not found")
		}
	}
	return nil
}

// MarkAllRead flags every unread notification for the user as read.
func (s *NotificationService) MarkAllRead(userID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
