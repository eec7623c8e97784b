package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"tenderhub/tender-analyzer/internal/models"
)

// AnalyzerService is the inference invoker: one prompt, one provider call,
// strict schema enforcement on the way back.
type AnalyzerService interface {
	Analyze(ctx context.Context, profileText string, artifacts []*RemoteArtifact) (*models.AnalysisReport, error)
}

type analyzerService struct {
	provider      InferenceProvider
	guidelines    GuidelineStore
	promptBuilder *PromptBuilder
}

// NewAnalyzerService creates the invoker. guidelines may be nil; context
// retrieval is an enrichment, never a requirement.
func NewAnalyzerService(provider InferenceProvider, guidelines GuidelineStore) AnalyzerService {
	return &analyzerService{
		provider:      provider,
		guidelines:    guidelines,
		promptBuilder: NewPromptBuilder(),
	}
}

// Analyze implements AnalyzerService. The inference call is single-shot:
// malformed output is reported, not retried, because unstructured provider
// output is not reliably transient.
func (a *analyzerService) Analyze(ctx context.Context, profileText string, artifacts []*RemoteArtifact) (*models.AnalysisReport, error) {
	guidelineContext := a.retrieveContext(ctx, profileText)

	instruction := a.promptBuilder.BuildAuditorInstruction()
	prompt := a.promptBuilder.BuildAnalysisPrompt(profileText, guidelineContext)

	log.Printf("🤖 Invoking analysis with %d artifacts, prompt length %d\n", len(artifacts), len(prompt))

	raw, err := a.provider.Infer(ctx, instruction, prompt, artifacts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInferenceFailed, err)
	}

	report, err := parseReport(raw)
	if err != nil {
		return nil, &PipelineError{
			Kind:      KindMalformedOutput,
			Err:       fmt.Errorf("%w: %v", ErrMalformedOutput, err),
			RawOutput: raw,
		}
	}

	log.Printf("📊 Analysis complete: tender=%s score=%.0f status=%s\n",
		report.TenderID, report.EligibilityScore, report.Status)

	return report, nil
}

// retrieveContext fetches similar guideline chunks for the prompt. Any
// failure degrades to an empty context with a warning.
func (a *analyzerService) retrieveContext(ctx context.Context, profileText string) string {
	if a.guidelines == nil {
		return ""
	}

	query := a.promptBuilder.BuildRetrievalQuery(profileText)

	embedding, err := a.provider.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Failed to embed retrieval query: %v\n", err)
		return ""
	}

	results, err := a.guidelines.SearchSimilar(ctx, embedding, 3)
	if err != nil {
		log.Printf("⚠️  Failed to retrieve guideline context: %v\n", err)
		return ""
	}

	return FormatGuidelineContext(results)
}

func parseReport(raw string) (*models.AnalysisReport, error) {
	jsonStr := extractJSON(raw)

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(jsonStr), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %v", err)
	}

	if err := validateReport(&report); err != nil {
		return nil, err
	}

	return &report, nil
}

func validateReport(report *models.AnalysisReport) error {
	if strings.TrimSpace(report.TenderID) == "" {
		return fmt.Errorf("missing required field: tender_id")
	}
	if report.EligibilityScore < 0 || report.EligibilityScore > 100 {
		return fmt.Errorf("eligibility_score out of range: %v", report.EligibilityScore)
	}
	switch report.Status {
	case models.StatusEligible, models.StatusConditional, models.StatusNotEligible:
	default:
		return fmt.Errorf("invalid status: %q", report.Status)
	}
	if strings.TrimSpace(report.Summary) == "" {
		return fmt.Errorf("missing required field: summary")
	}
	if report.GapAnalysis == nil {
		return fmt.Errorf("missing required field: gap_analysis")
	}
	if report.PenaltyClauses == nil {
		return fmt.Errorf("missing required field: penalty_clauses")
	}
	if report.MissingDocuments == nil {
		return fmt.Errorf("missing required field: missing_documents")
	}

	return nil
}

// extractJSON tries to extract JSON from text that might contain markdown or
// other formatting around the object.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}
