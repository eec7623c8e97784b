package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJanitorSweep_DeletesOnlyExpiredArtifacts(t *testing.T) {
	provider := newMockProvider()
	provider.listed = []*RemoteArtifact{
		{Name: "files/old", CreatedAt: time.Now().Add(-2 * time.Hour)},
		{Name: "files/fresh", CreatedAt: time.Now().Add(-time.Minute)},
		{Name: "files/unknown-age"}, // zero CreateTime is left alone
	}

	j := NewJanitor(provider, time.Minute, time.Hour).(*janitor)
	j.sweep(context.Background())

	assert.Equal(t, []string{"files/old"}, provider.deletedNames())
}

func TestJanitor_StartStop(t *testing.T) {
	provider := newMockProvider()
	j := NewJanitor(provider, time.Hour, time.Hour)

	j.Start(context.Background())
	j.Stop()
}
