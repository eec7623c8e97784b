package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/tender-analyzer/internal/models"
)

func TestAnalyze_ValidOutput(t *testing.T) {
	provider := newMockProvider()
	analyzer := NewAnalyzerService(provider, nil)

	report, err := analyzer.Analyze(context.Background(), "company profile", nil)
	require.NoError(t, err)

	assert.Equal(t, "GEM/2025/B/1234567", report.TenderID)
	assert.Equal(t, 78.0, report.EligibilityScore)
	assert.Equal(t, models.StatusConditional, report.Status)
	assert.Len(t, report.GapAnalysis, 2)
	assert.Len(t, report.PenaltyClauses, 1)
	assert.Len(t, report.MissingDocuments, 1)
}

func TestAnalyze_StripsMarkdownFences(t *testing.T) {
	provider := newMockProvider()
	provider.inferText = "```json\n" + validReportJSON + "\n```"
	analyzer := NewAnalyzerService(provider, nil)

	report, err := analyzer.Analyze(context.Background(), "company profile", nil)
	require.NoError(t, err)
	assert.Equal(t, "GEM/2025/B/1234567", report.TenderID)
}

func TestAnalyze_MalformedOutput(t *testing.T) {
	provider := newMockProvider()
	provider.inferText = "I'm sorry, I cannot analyze these documents."
	analyzer := NewAnalyzerService(provider, nil)

	_, err := analyzer.Analyze(context.Background(), "company profile", nil)
	assert.ErrorIs(t, err, ErrMalformedOutput)

	var pipeErr *PipelineError
	require.ErrorAs(t, err, &pipeErr)
	assert.Equal(t, KindMalformedOutput, pipeErr.Kind)
	assert.Equal(t, provider.inferText, pipeErr.RawOutput, "raw output is kept for diagnosis")
}

func TestAnalyze_MissingRequiredFields(t *testing.T) {
	cases := map[string]string{
		"no tender_id":       `{"eligibility_score": 50, "status": "eligible", "summary": "ok", "gap_analysis": [], "penalty_clauses": [], "missing_documents": []}`,
		"no summary":         `{"tender_id": "T1", "eligibility_score": 50, "status": "eligible", "gap_analysis": [], "penalty_clauses": [], "missing_documents": []}`,
		"bad status":         `{"tender_id": "T1", "eligibility_score": 50, "status": "maybe", "summary": "ok", "gap_analysis": [], "penalty_clauses": [], "missing_documents": []}`,
		"score out of range": `{"tender_id": "T1", "eligibility_score": 150, "status": "eligible", "summary": "ok", "gap_analysis": [], "penalty_clauses": [], "missing_documents": []}`,
		"no gap_analysis":    `{"tender_id": "T1", "eligibility_score": 50, "status": "eligible", "summary": "ok", "penalty_clauses": [], "missing_documents": []}`,
		"no penalty_clauses": `{"tender_id": "T1", "eligibility_score": 50, "status": "eligible", "summary": "ok", "gap_analysis": [], "missing_documents": []}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			provider := newMockProvider()
			provider.inferText = payload
			analyzer := NewAnalyzerService(provider, nil)

			_, err := analyzer.Analyze(context.Background(), "company profile", nil)
			assert.ErrorIs(t, err, ErrMalformedOutput)
		})
	}
}

func TestAnalyze_SingleShotNoRetry(t *testing.T) {
	provider := newMockProvider()
	provider.inferErr = errors.New("deadline exceeded")
	analyzer := NewAnalyzerService(provider, nil)

	_, err := analyzer.Analyze(context.Background(), "company profile", nil)
	assert.ErrorIs(t, err, ErrInferenceFailed)
	assert.Equal(t, 1, provider.inferCalls, "the inference call is never retried here")
}

func TestAnalyze_EmbeddingFailureDegradesToEmptyContext(t *testing.T) {
	provider := newMockProvider()
	provider.embedErr = errors.New("embedding quota exhausted")
	analyzer := NewAnalyzerService(provider, &stubGuidelines{})

	report, err := analyzer.Analyze(context.Background(), "company profile", nil)
	require.NoError(t, err, "context retrieval is an enrichment, not a requirement")
	assert.NotNil(t, report)
}

type stubGuidelines struct{}

func (s *stubGuidelines) InitCollection() error { return nil }
func (s *stubGuidelines) UpsertChunk(ctx context.Context, sourceID, category, text string, embedding []float32) error {
	return nil
}
func (s *stubGuidelines) SearchSimilar(ctx context.Context, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	return []SearchResult{{ID: "g1", Score: 0.9, Text: "EMD exemption applies to MSME bidders."}}, nil
}
func (s *stubGuidelines) DeleteSource(ctx context.Context, sourceID string) error { return nil }
