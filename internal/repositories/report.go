package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"tenderhub/tender-analyzer/internal/models"
)

type ReportRepository interface {
	Create(report *models.TenderReport) error
	FindByUserID(userID string) ([]models.TenderReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create implements ReportRepository.
func (r *reportRepository) Create(report *models.TenderReport) error {
	if err := r.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create tender report: %w", err)
	}

	return nil
}

// FindByUserID implements ReportRepository. Newest reports come first.
func (r *reportRepository) FindByUserID(userID string) ([]models.TenderReport, error) {
	var reports []models.TenderReport
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reports).Error

	if err != nil {
		return nil, fmt.Errorf("failed to list tender reports: %w", err)
	}

	return reports, nil
}
