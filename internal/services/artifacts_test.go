package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newArtifactServiceForTest(provider InferenceProvider, pollTimeout time.Duration) *artifactService {
	return &artifactService{
		provider:    provider,
		pollTimeout: pollTimeout,
		sleep:       func(ctx context.Context, d time.Duration) error { return nil },
	}
}

func TestArtifactUpload_ReadyImmediately(t *testing.T) {
	provider := newMockProvider()
	svc := newArtifactServiceForTest(provider, time.Minute)

	artifact, err := svc.Upload(context.Background(), []byte("pdf bytes"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, ArtifactStateReady, artifact.State)
	assert.Equal(t, 0, provider.pollCount, "ready uploads need no polling")
}

func TestArtifactUpload_PollsUntilReady(t *testing.T) {
	provider := newMockProvider()
	provider.initialState = ArtifactStatePending
	provider.pollStates = []ArtifactState{ArtifactStatePending, ArtifactStatePending, ArtifactStateReady}
	svc := newArtifactServiceForTest(provider, time.Minute)

	artifact, err := svc.Upload(context.Background(), []byte("pdf bytes"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, ArtifactStateReady, artifact.State)
	assert.Equal(t, 3, provider.pollCount)
}

func TestArtifactUpload_ProcessingFailed(t *testing.T) {
	provider := newMockProvider()
	provider.initialState = ArtifactStatePending
	provider.pollStates = []ArtifactState{ArtifactStateFailed}
	svc := newArtifactServiceForTest(provider, time.Minute)

	artifact, err := svc.Upload(context.Background(), []byte("pdf bytes"), "application/pdf")
	assert.ErrorIs(t, err, ErrArtifactProcessing)
	require.NotNil(t, artifact, "the handle must come back so the caller can delete it")
}

func TestArtifactUpload_Timeout(t *testing.T) {
	provider := newMockProvider()
	provider.initialState = ArtifactStatePending
	provider.pollStates = []ArtifactState{ArtifactStatePending}
	svc := newArtifactServiceForTest(provider, -time.Second) // deadline already passed

	artifact, err := svc.Upload(context.Background(), []byte("pdf bytes"), "application/pdf")
	assert.ErrorIs(t, err, ErrArtifactTimeout)
	assert.NotErrorIs(t, err, ErrArtifactProcessing, "timeout is a distinct outcome")
	require.NotNil(t, artifact)
}

func TestArtifactUpload_SubmissionError(t *testing.T) {
	provider := newMockProvider()
	provider.uploadErr = errors.New("connection refused")
	svc := newArtifactServiceForTest(provider, time.Minute)

	artifact, err := svc.Upload(context.Background(), []byte("pdf bytes"), "application/pdf")
	assert.ErrorIs(t, err, ErrArtifactUpload)
	assert.Nil(t, artifact)
}

func TestArtifactDeleteAll_ContinuesPastFailures(t *testing.T) {
	provider := newMockProvider()
	provider.deleteErr = map[string]error{"files/b": errors.New("already deleted")}
	svc := newArtifactServiceForTest(provider, time.Minute)

	svc.DeleteAll(context.Background(), []*RemoteArtifact{
		{Name: "files/a"},
		{Name: "files/b"},
		{Name: "files/c"},
		nil,
	})

	assert.Equal(t, []string{"files/a", "files/c"}, provider.deletedNames())
}
