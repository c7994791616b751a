package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/testutil"
	"github.com/gatherhall/plugin-trust/internal/testutil/mocks"
)

func setupSweeper(t *testing.T, repo *mocks.MockPluginRepository) *Sweeper {
	t.Helper()
	testutil.SkipIfNoRedis(t)
	client := testutil.NewTestRedisClient(t, testutil.DefaultTestConfig())
	cfg := &config.TrustConfig{
		DeletedRetention: 30 * 24 * time.Hour,
		SweepSchedule:    "0 4 * * *",
	}
	return NewSweeper(client, repo, cfg, testutil.NewTestLogger(t))
}

func TestSweeper_PurgesPastRetention(t *testing.T) {
	repo := mocks.NewMockPluginRepository()
	repo.PurgedCount = 3
	sweeper := setupSweeper(t, repo)

	before := time.Now()
	require.NoError(t, sweeper.Sweep(context.Background()))

	require.Len(t, repo.PurgeCutoffs, 1)
	expected := before.Add(-30 * 24 * time.Hour)
	assert.WithinDuration(t, expected, repo.PurgeCutoffs[0], 5*time.Second)
}

func TestSweeper_LockPreventsConcurrentSweep(t *testing.T) {
	repo := mocks.NewMockPluginRepository()
	first := setupSweeper(t, repo)
	require.NoError(t, first.Sweep(context.Background()))

	// A second instance must find the lock taken and do nothing.
	second := NewSweeper(first.redis, repo, first.cfg, testutil.NewNopLogger())
	require.NoError(t, second.Sweep(context.Background()))

	assert.Len(t, repo.PurgeCutoffs, 1)
}

func TestSweeper_PropagatesRepositoryError(t *testing.T) {
	repo := mocks.NewMockPluginRepository()
	repo.PurgeErr = assert.AnError
	sweeper := setupSweeper(t, repo)

	err := sweeper.Sweep(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestSweeper_StartRejectsBadSchedule(t *testing.T) {
	repo := mocks.NewMockPluginRepository()
	sweeper := setupSweeper(t, repo)
	sweeper.cfg.SweepSchedule = "not a schedule"

	assert.Error(t, sweeper.Start())
}

func TestSweeper_StartAndStop(t *testing.T) {
	repo := mocks.NewMockPluginRepository()
	sweeper := setupSweeper(t, repo)

	require.NoError(t, sweeper.Start())
	sweeper.Stop()
}
