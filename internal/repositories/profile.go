package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tenderhub/tender-analyzer/internal/models"
)

// ErrProfileNotFound signals that no account row exists for the identity.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	FindByID(id string) (*models.Profile, error)
	UpdateUsage(id string, credits int, dailyCount int, usageDate string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID implements ProfileRepository.
func (r *profileRepository) FindByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}

		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

// UpdateUsage implements ProfileRepository. It writes the paired credit
// decrement and usage increment in a single update.
func (r *profileRepository) UpdateUsage(id string, credits int, dailyCount int, usageDate string) error {
	result := r.db.Model(&models.Profile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credits_remaining": credits,
			"daily_usage_count": dailyCount,
			"last_usage_date":   usageDate,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update usage: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
