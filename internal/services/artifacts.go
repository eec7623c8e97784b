package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"
)

// PollInterval is how often an uploaded artifact's state is re-checked while
// the provider is still processing it.
const PollInterval = 2 * time.Second

// ArtifactService owns the provider-side lifecycle of uploaded content:
// upload, poll until ready, and deletion. Deletion is best-effort: cleanup
// must never be the reason a request fails.
type ArtifactService interface {
	Upload(ctx context.Context, data []byte, mimeType string) (*RemoteArtifact, error)
	Delete(ctx context.Context, artifact *RemoteArtifact)
	DeleteAll(ctx context.Context, artifacts []*RemoteArtifact)
}

type artifactService struct {
	provider    InferenceProvider
	pollTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewArtifactService(provider InferenceProvider, pollTimeout time.Duration) ArtifactService {
	return &artifactService{
		provider:    provider,
		pollTimeout: pollTimeout,
		sleep:       sleepCtx,
	}
}

// Upload implements ArtifactService. It submits the content and polls the
// handle until it leaves the pending state. The poll loop is bounded: a
// provider stuck processing yields ErrArtifactTimeout rather than blocking
// the request forever. The handle is returned even on processing failure or
// timeout so the caller can still delete it.
func (s *artifactService) Upload(ctx context.Context, data []byte, mimeType string) (*RemoteArtifact, error) {
	artifact, err := s.provider.UploadArtifact(ctx, bytes.NewReader(data), mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactUpload, err)
	}

	log.Printf("📤 Artifact %s uploaded (%d bytes), waiting for processing\n", artifact.Name, len(data))

	deadline := time.Now().Add(s.pollTimeout)
	state := artifact.State

	for state == ArtifactStatePending {
		if time.Now().After(deadline) {
			return artifact, fmt.Errorf("%w: %s still pending after %s", ErrArtifactTimeout, artifact.Name, s.pollTimeout)
		}

		if err := s.sleep(ctx, PollInterval); err != nil {
			return artifact, fmt.Errorf("%w: %v", ErrArtifactUpload, err)
		}

		state, err = s.provider.GetArtifactState(ctx, artifact.Name)
		if err != nil {
			return artifact, fmt.Errorf("%w: %v", ErrArtifactUpload, err)
		}
	}

	if state == ArtifactStateFailed {
		return artifact, fmt.Errorf("%w: %s", ErrArtifactProcessing, artifact.Name)
	}

	artifact.State = ArtifactStateReady
	log.Printf("✅ Artifact %s ready\n", artifact.Name)
	return artifact, nil
}

// Delete implements ArtifactService. Failures are logged and swallowed.
func (s *artifactService) Delete(ctx context.Context, artifact *RemoteArtifact) {
	if artifact == nil {
		return
	}

	if err := s.provider.DeleteArtifact(ctx, artifact.Name); err != nil {
		log.Printf("⚠️  Failed to delete artifact %s: %v\n", artifact.Name, err)
		return
	}

	log.Printf("🗑️  Artifact %s deleted\n", artifact.Name)
}

// DeleteAll implements ArtifactService, continuing past individual failures.
func (s *artifactService) DeleteAll(ctx context.Context, artifacts []*RemoteArtifact) {
	for _, artifact := range artifacts {
		s.Delete(ctx, artifact)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
