package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// mockProvider is a scriptable InferenceProvider for pipeline tests.
type mockProvider struct {
	mu sync.Mutex

	uploadErr    error
	initialState ArtifactState
	// pollStates are returned by successive GetArtifactState calls; the last
	// entry repeats once exhausted.
	pollStates []ArtifactState
	pollErr    error
	deleteErr  map[string]error
	inferText  string
	inferErr   error
	embedErr   error
	listed     []*RemoteArtifact

	uploadCount int
	pollCount   int
	deleted     []string
	inferCalls  int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		initialState: ArtifactStateReady,
		inferText:    validReportJSON,
	}
}

func (m *mockProvider) UploadArtifact(ctx context.Context, content io.Reader, mimeType string) (*RemoteArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.uploadErr != nil {
		return nil, m.uploadErr
	}

	m.uploadCount++
	return &RemoteArtifact{
		Name:      fmt.Sprintf("files/mock-%d", m.uploadCount),
		URI:       fmt.Sprintf("https://provider.example/files/mock-%d", m.uploadCount),
		MIMEType:  mimeType,
		State:     m.initialState,
		CreatedAt: time.Now(),
	}, nil
}

func (m *mockProvider) GetArtifactState(ctx context.Context, name string) (ArtifactState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pollErr != nil {
		return "", m.pollErr
	}

	idx := m.pollCount
	m.pollCount++
	if idx >= len(m.pollStates) {
		idx = len(m.pollStates) - 1
	}
	if idx < 0 {
		return ArtifactStateReady, nil
	}
	return m.pollStates[idx], nil
}

func (m *mockProvider) DeleteArtifact(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.deleteErr[name]; ok {
		return err
	}

	m.deleted = append(m.deleted, name)
	return nil
}

func (m *mockProvider) ListArtifacts(ctx context.Context) ([]*RemoteArtifact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listed, nil
}

func (m *mockProvider) Infer(ctx context.Context, instruction, prompt string, artifacts []*RemoteArtifact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.inferCalls++
	if m.inferErr != nil {
		return "", m.inferErr
	}
	return m.inferText, nil
}

func (m *mockProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockProvider) deletedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.deleted))
	copy(out, m.deleted)
	return out
}

const validReportJSON = `{
  "tender_id": "GEM/2025/B/1234567",
  "eligibility_score": 78,
  "status": "conditional",
  "summary": "The company meets most criteria but lacks a valid solvency certificate.",
  "gap_analysis": [
    {"criteria": "Annual turnover", "tender_ask": "5 Cr average over 3 years", "your_profile": "6.2 Cr average", "status": "pass"},
    {"criteria": "Solvency certificate", "tender_ask": "2 Cr from a scheduled bank", "your_profile": "Not provided", "status": "fail"}
  ],
  "penalty_clauses": [
    {"title": "Liquidated damages", "description": "0.5% per week of delay, capped at 10%.", "severity": "high"}
  ],
  "missing_documents": [
    {"name": "Solvency certificate", "required": true}
  ]
}`
