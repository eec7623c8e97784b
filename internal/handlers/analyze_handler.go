package handlers

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"

	"tenderhub/tender-analyzer/internal/models"
	"tenderhub/tender-analyzer/internal/services"
)

type AnalyzeHandler struct {
	orchestrator services.OrchestratorService
	maxFileSize  int64
}

func NewAnalyzeHandler(orchestrator services.OrchestratorService, maxFileSize int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		orchestrator: orchestrator,
		maxFileSize:  maxFileSize,
	}
}

// HandleAnalyze handles POST /analyze: multipart upload of one or more
// tender documents plus the company profile text.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "X-User-ID header is required",
			Kind:  string(services.KindUnauthorized),
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to parse multipart form",
			Kind:  string(services.KindInternal),
		})
	}

	profileText := c.FormValue("profile")
	if profileText == "" {
		if values, exists := form.Value["profile"]; exists && len(values) > 0 {
			profileText = values[0]
		}
	}
	if profileText == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "profile field is required",
			Kind:  string(services.KindInternal),
		})
	}

	fileHeaders, exists := form.File["documents"]
	if !exists || len(fileHeaders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "at least one document is required",
			Kind:  string(services.KindInternal),
		})
	}

	var documents []services.TenderDocument
	for _, header := range fileHeaders {
		if header.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "document too large",
				Kind:  string(services.KindInternal),
			})
		}

		src, err := header.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "failed to read uploaded document",
				Kind:  string(services.KindInternal),
			})
		}

		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
				Error: "failed to read uploaded document",
				Kind:  string(services.KindInternal),
			})
		}

		documents = append(documents, services.TenderDocument{
			Filename: header.Filename,
			Data:     data,
			MIMEType: header.Header.Get("Content-Type"),
		})
	}

	record, err := h.orchestrator.Run(c.UserContext(), userID, documents, profileText)
	if err != nil {
		return h.writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.AnalyzeResponse{
		ReportID: record.ID.String(),
		Report: &models.AnalysisReport{
			TenderID:         record.TenderID,
			EligibilityScore: record.EligibilityScore,
			Status:           record.Status,
			Summary:          record.Summary,
			GapAnalysis:      record.GapAnalysis,
			PenaltyClauses:   record.PenaltyClauses,
			MissingDocuments: record.MissingDocuments,
		},
	})
}

func (h *AnalyzeHandler) writeError(c *fiber.Ctx, err error) error {
	kind := services.Classify(err)

	var pipeErr *services.PipelineError
	if errors.As(err, &pipeErr) && pipeErr.RawOutput != "" {
		log.Printf("❌ Malformed provider output: %s\n", pipeErr.RawOutput)
	}

	status := fiber.StatusInternalServerError
	switch kind {
	case services.KindSaturated:
		status = fiber.StatusServiceUnavailable
		c.Set("Retry-After", "60")
	case services.KindUnauthorized:
		status = fiber.StatusNotFound
	case services.KindQuotaExceeded:
		status = fiber.StatusTooManyRequests
	case services.KindInvalidDocument:
		status = fiber.StatusBadRequest
	case services.KindUpstreamFailure:
		status = fiber.StatusBadGateway
	case services.KindMalformedOutput:
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: err.Error(),
		Kind:  string(kind),
	})
}
