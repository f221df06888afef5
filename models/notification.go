package models

import "time"

// Notification types created by the review workflow.
const (
	NotificationReviewRequested = "review_requested"
	NotificationReviewSubmitted = "review_submitted"
)

// NotificationRef is a non-owning back-reference to the review request
// that produced the notification. It is informational only - the
// referenced request may have moved on since; readers must re-fetch it
// for current status.
type NotificationRef struct {
	RequestID    uint `gorm:"column:request_id" json:"request_id"`
	PredictionID uint `gorm:"column:prediction_id" json:"prediction_id"`
}

type Notification struct {
	NotificationID uint            `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID         uint            `gorm:"column:user_id" json:"user_id"`
	Type           string          `gorm:"column:type" json:"type"` // review_requested|review_submitted
	Message        string          `gorm:"column:message" json:"message"`
	Ref            NotificationRef `gorm:"embedded;embeddedPrefix:ref_" json:"ref"`
	IsRead         bool            `gorm:"column:is_read" json:"is_read"`
	CreateAt       time.Time       `gorm:"column:create_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
