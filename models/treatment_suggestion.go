package models

import (
	"encoding/json"
	"time"
)

// TreatmentSuggestion holds the care guidance shown to a patient for a
// predicted skin condition. Condition matches predictions.predicted_label;
// one suggestion per condition.
type TreatmentSuggestion struct {
	SuggestionID uint            `gorm:"primaryKey;column:suggestion_id" json:"suggestion_id"`
	Condition    string          `gorm:"column:condition_name;unique" json:"condition"`
	Guidance     json.RawMessage `gorm:"column:guidance;type:json" json:"guidance"`
	CreatedAt    time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    *time.Time      `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides the table name
func (TreatmentSuggestion) TableName() string {
	return "treatment_suggestions"
}

// TreatmentGuidance is the structure of the guidance JSON column.
type TreatmentGuidance struct {
	Treatments []string `json:"treatments"`
	Prevention []string `json:"prevention"`
	Resources  []string `json:"resources"`
}

// ParseGuidance parses the guidance JSON into a TreatmentGuidance struct
func (ts *TreatmentSuggestion) ParseGuidance() (*TreatmentGuidance, error) {
	if ts.Guidance == nil {
		return nil, nil
	}

	var guidance TreatmentGuidance
	if err := json.Unmarshal(ts.Guidance, &guidance); err != nil {
		return nil, err
	}
	return &guidance, nil
}

// SetGuidance sets the guidance column from a TreatmentGuidance struct
func (ts *TreatmentSuggestion) SetGuidance(guidance *TreatmentGuidance) error {
	if guidance == nil {
		ts.Guidance = nil
		return nil
	}

	data, err := json.Marshal(guidance)
	if err != nil {
		return err
	}
	ts.Guidance = data
	return nil
}
