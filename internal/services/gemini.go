package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"google.golang.org/genai"
)

// ArtifactState mirrors the provider-side processing state of an uploaded file.
type ArtifactState string

const (
	ArtifactStatePending ArtifactState = "pending"
	ArtifactStateReady   ArtifactState = "ready"
	ArtifactStateFailed  ArtifactState = "failed"
)

// RemoteArtifact is an opaque handle to content uploaded to the inference
// provider. Raw bytes are never re-sent once a handle exists.
type RemoteArtifact struct {
	Name      string
	URI       string
	MIMEType  string
	State     ArtifactState
	CreatedAt time.Time
}

// InferenceProvider is the remote document-understanding capability: it
// accepts artifact handles plus a prompt and returns raw text, or fails.
type InferenceProvider interface {
	UploadArtifact(ctx context.Context, content io.Reader, mimeType string) (*RemoteArtifact, error)
	GetArtifactState(ctx context.Context, name string) (ArtifactState, error)
	DeleteArtifact(ctx context.Context, name string) error
	ListArtifacts(ctx context.Context) ([]*RemoteArtifact, error)
	Infer(ctx context.Context, instruction string, prompt string, artifacts []*RemoteArtifact) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

type geminiProvider struct {
	client     *genai.Client
	modelName  string
	embedModel string
}

func NewGeminiProvider(apiKey, modelName string) (InferenceProvider, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiProvider{
		client:     client,
		modelName:  modelName,
		embedModel: "text-embedding-004",
	}, nil
}

// UploadArtifact implements InferenceProvider.
func (g *geminiProvider) UploadArtifact(ctx context.Context, content io.Reader, mimeType string) (*RemoteArtifact, error) {
	file, err := g.client.Files.Upload(ctx, content, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return fileToArtifact(file), nil
}

// GetArtifactState implements InferenceProvider.
func (g *geminiProvider) GetArtifactState(ctx context.Context, name string) (ArtifactState, error) {
	file, err := g.client.Files.Get(ctx, name, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get file %s: %w", name, err)
	}

	return stateFromFile(file.State), nil
}

// DeleteArtifact implements InferenceProvider.
func (g *geminiProvider) DeleteArtifact(ctx context.Context, name string) error {
	if _, err := g.client.Files.Delete(ctx, name, nil); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", name, err)
	}

	return nil
}

// ListArtifacts implements InferenceProvider.
func (g *geminiProvider) ListArtifacts(ctx context.Context) ([]*RemoteArtifact, error) {
	var artifacts []*RemoteArtifact
	for file, err := range g.client.Files.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}
		artifacts = append(artifacts, fileToArtifact(file))
	}

	return artifacts, nil
}

// Infer implements InferenceProvider. One call, no retry: unstructured
// provider output is not reliably transient, so retrying is the caller's
// decision, not this layer's.
func (g *geminiProvider) Infer(ctx context.Context, instruction string, prompt string, artifacts []*RemoteArtifact) (string, error) {
	parts := make([]*genai.Part, 0, len(artifacts)+1)
	for _, artifact := range artifacts {
		parts = append(parts, genai.NewPartFromURI(artifact.URI, artifact.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
		MaxOutputTokens:   8192,
		ResponseMIMEType:  "application/json",
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if resp == nil {
		return "", fmt.Errorf("no response generated (nil response)")
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("no text content in response")
	}

	return text, nil
}

// GenerateEmbedding implements InferenceProvider.
func (g *geminiProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	// Truncate text if too long (max ~10000 tokens for embedding)
	if len(text) > 40000 {
		text = text[:40000]
	}

	result, err := g.client.Models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}

	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	return result.Embeddings[0].Values, nil
}

func fileToArtifact(file *genai.File) *RemoteArtifact {
	return &RemoteArtifact{
		Name:      file.Name,
		URI:       file.URI,
		MIMEType:  file.MIMEType,
		State:     stateFromFile(file.State),
		CreatedAt: file.CreateTime,
	}
}

func stateFromFile(state genai.FileState) ArtifactState {
	switch state {
	case genai.FileStateActive:
		return ArtifactStateReady
	case genai.FileStateFailed:
		return ArtifactStateFailed
	default:
		return ArtifactStatePending
	}
}
