package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderhub/tender-analyzer/internal/models"
	"tenderhub/tender-analyzer/internal/repositories"
)

type fakeProfileRepo struct {
	profiles  map[string]*models.Profile
	updateErr error

	lastUpdate struct {
		id        string
		credits   int
		daily     int
		usageDate string
	}
}

func (f *fakeProfileRepo) FindByID(id string) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, repositories.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) UpdateUsage(id string, credits, dailyCount int, usageDate string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.lastUpdate.id = id
	f.lastUpdate.credits = credits
	f.lastUpdate.daily = dailyCount
	f.lastUpdate.usageDate = usageDate
	return nil
}

func newQuotaForTest(repo repositories.ProfileRepository, today string) *quotaService {
	return &quotaService{
		profileRepo: repo,
		today:       func() string { return today },
	}
}

func TestQuota_AccountNotFound(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{}}
	quota := newQuotaForTest(repo, "2026-08-29")

	_, err := quota.Authorize(context.Background(), "missing-user")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestQuota_InsufficientCredits(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", CreditsRemaining: 0, DailyUsageCount: 0},
	}}
	quota := newQuotaForTest(repo, "2026-08-29")

	_, err := quota.Authorize(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrInsufficientCredits)
}

func TestQuota_DailyLimitReached(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", CreditsRemaining: 10, DailyUsageCount: DailyLimit, LastUsageDate: "2026-08-29"},
	}}
	quota := newQuotaForTest(repo, "2026-08-29")

	_, err := quota.Authorize(context.Background(), "u1")
	assert.ErrorIs(t, err, ErrDailyLimitReached)
}

func TestQuota_DailyCountResetsOnNewDay(t *testing.T) {
	// The counter hit the cap yesterday; today it is effectively zero.
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", CreditsRemaining: 10, DailyUsageCount: DailyLimit, LastUsageDate: "2026-08-28"},
	}}
	quota := newQuotaForTest(repo, "2026-08-29")

	profile, err := quota.Authorize(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, quota.Debit(context.Background(), profile))
	assert.Equal(t, 9, repo.lastUpdate.credits)
	assert.Equal(t, 1, repo.lastUpdate.daily, "stale daily count must restart at 1")
	assert.Equal(t, "2026-08-29", repo.lastUpdate.usageDate)
}

func TestQuota_DebitPairsDecrementAndIncrement(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", CreditsRemaining: 5, DailyUsageCount: 7, LastUsageDate: "2026-08-29"},
	}}
	quota := newQuotaForTest(repo, "2026-08-29")

	profile, err := quota.Authorize(context.Background(), "u1")
	require.NoError(t, err)

	require.NoError(t, quota.Debit(context.Background(), profile))
	assert.Equal(t, "u1", repo.lastUpdate.id)
	assert.Equal(t, 4, repo.lastUpdate.credits)
	assert.Equal(t, 8, repo.lastUpdate.daily)
}

func TestQuota_AuthorizeDoesNotMutate(t *testing.T) {
	repo := &fakeProfileRepo{profiles: map[string]*models.Profile{
		"u1": {ID: "u1", CreditsRemaining: 5, DailyUsageCount: 7, LastUsageDate: "2026-08-29"},
	}}
	quota := newQuotaForTest(repo, "2026-08-29")

	_, err := quota.Authorize(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, repo.lastUpdate.id, "authorize must not write to the store")
}
