package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tenderhub/tender-analyzer/internal/models"
	"tenderhub/tender-analyzer/internal/repositories"
)

// DailyLimit is the fair-usage cap on analyses per caller per day.
const DailyLimit = 50

type QuotaService interface {
	Authorize(ctx context.Context, userID string) (*models.Profile, error)
	Debit(ctx context.Context, profile *models.Profile) error
}

type quotaService struct {
	profileRepo repositories.ProfileRepository
	today       func() string
}

func NewQuotaService(profileRepo repositories.ProfileRepository) QuotaService {
	return &quotaService{
		profileRepo: profileRepo,
		today:       utcToday,
	}
}

// Authorize implements QuotaService. It fetches one snapshot and checks it;
// it never mutates, so the snapshot the orchestrator later debits is exactly
// the one that passed admission. Concurrent requests from the same caller can
// both pass before either debits; that over-spend window is accepted.
func (q *quotaService) Authorize(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := q.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrProfileNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, userID)
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	if profile.CreditsRemaining <= 0 {
		return nil, ErrInsufficientCredits
	}

	if q.effectiveDailyCount(profile) >= DailyLimit {
		return nil, ErrDailyLimitReached
	}

	return profile, nil
}

// Debit implements QuotaService: one credit down, one daily use up, stamped
// with today's date.
func (q *quotaService) Debit(ctx context.Context, profile *models.Profile) error {
	today := q.today()
	newCount := q.effectiveDailyCount(profile) + 1

	err := q.profileRepo.UpdateUsage(profile.ID, profile.CreditsRemaining-1, newCount, today)
	if err != nil {
		return fmt.Errorf("failed to debit quota for %s: %w", profile.ID, err)
	}

	log.Printf("💳 Quota debited for %s: credits=%d daily=%d\n", profile.ID, profile.CreditsRemaining-1, newCount)
	return nil
}

// effectiveDailyCount treats a counter last stamped on an earlier date as
// zero; the stored value only becomes current again when a debit re-stamps it.
func (q *quotaService) effectiveDailyCount(profile *models.Profile) int {
	if profile.LastUsageDate != q.today() {
		return 0
	}
	return profile.DailyUsageCount
}

func utcToday() string {
	return time.Now().UTC().Format("2006-01-02")
}
