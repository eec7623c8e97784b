package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Janitor periodically sweeps provider-side artifacts that outlived their
// request. It is the backstop for the per-request cleanup guarantee when a
// process dies mid-analysis.
type Janitor interface {
	Start(ctx context.Context)
	Stop()
}

type janitor struct {
	provider      InferenceProvider
	sweepInterval time.Duration
	artifactTTL   time.Duration
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

func NewJanitor(provider InferenceProvider, sweepInterval, artifactTTL time.Duration) Janitor {
	return &janitor{
		provider:      provider,
		sweepInterval: sweepInterval,
		artifactTTL:   artifactTTL,
		stopChan:      make(chan struct{}),
	}
}

// Start implements Janitor.
func (j *janitor) Start(ctx context.Context) {
	log.Printf("🧹 Starting artifact janitor (interval=%s, ttl=%s)\n", j.sweepInterval, j.artifactTTL)

	j.wg.Add(1)
	go j.run(ctx)
}

// Stop implements Janitor.
func (j *janitor) Stop() {
	log.Println("🛑 Stopping artifact janitor...")
	close(j.stopChan)
	j.wg.Wait()
	log.Println("✅ Artifact janitor stopped")
}

func (j *janitor) run(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *janitor) sweep(ctx context.Context) {
	artifacts, err := j.provider.ListArtifacts(ctx)
	if err != nil {
		log.Printf("⚠️  Janitor failed to list artifacts: %v\n", err)
		return
	}

	cutoff := time.Now().Add(-j.artifactTTL)
	removed := 0

	for _, artifact := range artifacts {
		if artifact.CreatedAt.IsZero() || artifact.CreatedAt.After(cutoff) {
			continue
		}

		if err := j.provider.DeleteArtifact(ctx, artifact.Name); err != nil {
			log.Printf("⚠️  Janitor failed to delete artifact %s: %v\n", artifact.Name, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("🧹 Janitor removed %d orphaned artifacts\n", removed)
	}
}
