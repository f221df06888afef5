package models

import "time"

// Prediction is a stored AI skin-condition prediction. Records are written
// by the inference pipeline; this API only reads them and resolves
// ownership when a review is requested.
type Prediction struct {
	PredictionID    uint      `gorm:"primaryKey;column:prediction_id" json:"prediction_id"`
	UserID          uint      `gorm:"column:user_id" json:"user_id"`
	PredictedLabel  string    `gorm:"column:predicted_label" json:"predicted_label"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	ImageURL        string    `gorm:"column:image_url" json:"image_url"`
	CreateAt        time.Time `gorm:"column:create_at" json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}
