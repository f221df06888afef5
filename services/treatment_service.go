package services

import (
	"errors"
	"log"
	"time"

	"derma-review-api/config"
	"derma-review-api/models"

	"gorm.io/gorm"
)

// TreatmentService is the store for per-condition care guidance. Conditions
// are keyed by the predicted label, one suggestion each; reads are public,
// writes admin-only at the route layer.
type TreatmentService struct {
	db *gorm.DB
}

func NewTreatmentService(db *gorm.DB) *TreatmentService {
	if db == nil {
		db = config.DB
	}
	return &TreatmentService{db: db}
}

// List returns every suggestion ordered by condition name.
func (s *TreatmentService) List() ([]models.TreatmentSuggestion, error) {
	var suggestions []models.TreatmentSuggestion
	err := s.db.Order("condition_name ASC").Find(&suggestions).Error
	return suggestions, err
}

// GetByCondition returns the suggestion for one condition.
func (s *TreatmentService) GetByCondition(condition string) (*models.TreatmentSuggestion, error) {
	var suggestion models.TreatmentSuggestion
	if err := s.db.First(&suggestion, "condition_name = ?", condition).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("condition", "No treatment suggestion for this condition")
		}
		return nil, err
	}
	return &suggestion, nil
}

// Create inserts a suggestion for a new condition. The unique index on
// condition_name rejects duplicates.
func (s *TreatmentService) Create(condition string, guidance models.TreatmentGuidance) (*models.TreatmentSuggestion, error) {
	suggestion := models.TreatmentSuggestion{
		Condition: condition,
		CreatedAt: time.Now(),
	}
	if err := suggestion.SetGuidance(&guidance); err != nil {
		return nil, err
	}

	if err := s.db.Create(&suggestion).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictErr("duplicate_condition", "A treatment suggestion for this condition already exists")
		}
		return nil, err
	}

	log.Printf("Created treatment suggestion for %q", condition)
	return &suggestion, nil
}

// Update replaces the guidance for an existing condition.
func (s *TreatmentService) Update(condition string, guidance models.TreatmentGuidance) (*models.TreatmentSuggestion, error) {
	var suggestion models.TreatmentSuggestion
	if err := suggestion.SetGuidance(&guidance); err != nil {
		return nil, err
	}

	now := time.Now()
	result := s.db.Model(&models.TreatmentSuggestion{}).
		Where("condition_name = ?", condition).
		Updates(map[string]interface{}{
			"guidance":   suggestion.Guidance,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// MySQL reports zero affected rows when the guidance is unchanged;
		// only report NotFound when the condition really has no row.
		var n int64
		if err := s.db.Model(&models.TreatmentSuggestion{}).
			Where("condition_name = ?", condition).
			Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, notFoundErr("condition", "No treatment suggestion for this condition")
		}
	}

	suggestion.Condition = condition
	suggestion.UpdatedAt = &now
	log.Printf("Updated treatment suggestion for %q", condition)
	return &suggestion, nil
}

// Delete removes the suggestion for a condition.
func (s *TreatmentService) Delete(condition string) error {
	result := s.db.Delete(&models.TreatmentSuggestion{}, "condition_name = ?", condition)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundErr("condition", "No treatment suggestion for this condition")
	}
	log.Printf("Deleted treatment suggestion for %q", condition)
	return nil
}
