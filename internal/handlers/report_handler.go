package handlers

import (
	"github.com/gofiber/fiber/v2"

	"tenderhub/tender-analyzer/internal/models"
	"tenderhub/tender-analyzer/internal/repositories"
	"tenderhub/tender-analyzer/internal/services"
)

type ReportHandler struct {
	reportRepo repositories.ReportRepository
}

func NewReportHandler(reportRepo repositories.ReportRepository) *ReportHandler {
	return &ReportHandler{
		reportRepo: reportRepo,
	}
}

// HandleListReports handles GET /reports: the caller's past analyses,
// newest first.
func (h *ReportHandler) HandleListReports(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "X-User-ID header is required",
			Kind:  string(services.KindUnauthorized),
		})
	}

	reports, err := h.reportRepo.FindByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: "failed to list reports",
			Kind:  string(services.KindInternal),
		})
	}

	summaries := make([]models.ReportSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, models.ReportSummary{
			ID:               report.ID.String(),
			TenderID:         report.TenderID,
			EligibilityScore: report.EligibilityScore,
			Status:           report.Status,
			CreatedAt:        report.CreatedAt,
		})
	}

	return c.JSON(models.ListReportsResponse{Reports: summaries})
}
