package models

import "time"

// Review request status values. A request moves pending -> reviewed
// exactly once; there is no other transition.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusReviewed = "reviewed"
)

// ReviewRequest links a patient's prediction to the dermatologist asked
// to review it. The unique index on (prediction_id, dermatologist_id)
// is the authority for duplicate prevention - a patient may ask several
// dermatologists about one prediction, but never the same one twice.
type ReviewRequest struct {
	RequestID       uint       `gorm:"primaryKey;column:request_id" json:"request_id"`
	PredictionID    uint       `gorm:"column:prediction_id;uniqueIndex:uniq_prediction_dermatologist" json:"prediction_id"`
	PatientID       uint       `gorm:"column:patient_id" json:"patient_id"`
	DermatologistID uint       `gorm:"column:dermatologist_id;uniqueIndex:uniq_prediction_dermatologist" json:"dermatologist_id"`
	Status          string     `gorm:"column:status" json:"status"` // pending|reviewed
	Comment         *string    `gorm:"column:comment" json:"comment,omitempty"`
	CreateAt        time.Time  `gorm:"column:create_at" json:"created_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	// Display names resolved from users at read time, never stored.
	PatientUsername       string `gorm:"-" json:"patient_username,omitempty"`
	DermatologistUsername string `gorm:"-" json:"dermatologist_username,omitempty"`
}

func (ReviewRequest) TableName() string {
	return "review_requests"
}
