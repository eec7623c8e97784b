package services

import (
	"context"
	"fmt"
	"log"

	"tenderhub/tender-analyzer/internal/models"
	"tenderhub/tender-analyzer/internal/repositories"
)

// TenderDocument is one uploaded document, consumed entirely by a single run.
type TenderDocument struct {
	Filename string
	Data     []byte
	MIMEType string
}

// OrchestratorService sequences one analysis request: admission, uploads,
// inference, best-effort persistence, and cleanup on every exit path.
type OrchestratorService interface {
	Run(ctx context.Context, userID string, documents []TenderDocument, profileText string) (*models.TenderReport, error)
}

type orchestratorService struct {
	rateLimiter *RateLimiter
	quota       QuotaService
	artifacts   ArtifactService
	analyzer    AnalyzerService
	storage     StorageService
	pdfParser   PDFParserService
	reportRepo  repositories.ReportRepository
}

func NewOrchestratorService(
	rateLimiter *RateLimiter,
	quota QuotaService,
	artifacts ArtifactService,
	analyzer AnalyzerService,
	storage StorageService,
	pdfParser PDFParserService,
	reportRepo repositories.ReportRepository,
) OrchestratorService {
	return &orchestratorService{
		rateLimiter: rateLimiter,
		quota:       quota,
		artifacts:   artifacts,
		analyzer:    analyzer,
		storage:     storage,
		pdfParser:   pdfParser,
		reportRepo:  reportRepo,
	}
}

// Run implements OrchestratorService.
//
// Admission failures return before any resource exists. Once the first
// resource is acquired, the deferred cleanup owns every temp path and every
// artifact handle accumulated so far and releases them on every exit path,
// success included. A persistence or debit failure after a validated report
// is logged, never returned: the report still goes back to the caller.
func (o *orchestratorService) Run(ctx context.Context, userID string, documents []TenderDocument, profileText string) (*models.TenderReport, error) {
	// Step 1: global admission. Nothing acquired yet.
	if !o.rateLimiter.Allow() {
		return nil, ErrSaturated
	}

	// Step 2: per-caller admission. Still nothing acquired.
	profile, err := o.quota.Authorize(ctx, userID)
	if err != nil {
		return nil, err
	}

	var tempPaths []string
	var handles []*RemoteArtifact

	defer func() {
		// Cleanup must run even when the request context is already dead.
		cleanupCtx := context.WithoutCancel(ctx)
		o.artifacts.DeleteAll(cleanupCtx, handles)
		o.storage.RemoveAll(tempPaths)
	}()

	// Step 3: spill, validate and upload each document in order. The first
	// failure leaves no dangling partial upload behind.
	for _, doc := range documents {
		path, err := o.storage.SaveTemp(doc.Data, doc.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to stage document %s: %w", doc.Filename, err)
		}
		tempPaths = append(tempPaths, path)

		content, err := o.pdfParser.Validate(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDocument, doc.Filename, err)
		}
		log.Printf("📄 Document %s validated (%d pages)\n", doc.Filename, content.PageCount)

		mimeType := doc.MIMEType
		if mimeType == "" {
			mimeType = "application/pdf"
		}

		artifact, err := o.artifacts.Upload(ctx, doc.Data, mimeType)
		if artifact != nil {
			// Keep the handle even when the upload failed mid-poll, so the
			// deferred cleanup deletes it.
			handles = append(handles, artifact)
		}
		if err != nil {
			return nil, err
		}
	}

	// Step 4: single-shot inference. No debit has happened yet.
	report, err := o.analyzer.Analyze(ctx, profileText, handles)
	if err != nil {
		return nil, err
	}

	// Step 5: persist and debit, best-effort past this point.
	record := models.NewTenderReport(userID, report)
	if err := o.reportRepo.Create(record); err != nil {
		log.Printf("⚠️  Failed to persist report for %s: %v\n", userID, err)
	}
	if err := o.quota.Debit(ctx, profile); err != nil {
		log.Printf("⚠️  Failed to debit quota for %s: %v\n", userID, err)
	}

	return record, nil
}
