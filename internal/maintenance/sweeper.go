// Package maintenance runs the recurring cleanup jobs: soft-deleted
// plugin rows are retained for a grace period and then purged.
package maintenance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
)

const (
	sweepLockKey = "pluginTrust:sweep:lock"

	// The lock is held for the job's worst-case runtime and left to
	// expire; the sweep runs daily so early release buys nothing.
	sweepLockTTL = 10 * time.Minute
)

// Sweeper purges soft-deleted plugin and installation rows past their
// retention window. Instances coordinate through a Redis lock so only
// one node sweeps per schedule tick.
type Sweeper struct {
	cron       *cron.Cron
	redis      redis.Cmdable
	pluginRepo repository.PluginRepository
	cfg        *config.TrustConfig
	instanceID string
	logger     *zap.Logger
	now        func() time.Time
}

// NewSweeper creates a new Sweeper instance
func NewSweeper(
	redisClient redis.Cmdable,
	pluginRepo repository.PluginRepository,
	cfg *config.TrustConfig,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		cron:       cron.New(),
		redis:      redisClient,
		pluginRepo: pluginRepo,
		cfg:        cfg,
		instanceID: uuid.NewString(),
		logger:     logger,
		now:        time.Now,
	}
}

// Start registers the sweep on the configured cron schedule and starts
// the scheduler.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepLockTTL)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error("plugin sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("plugin sweeper started",
		zap.String("schedule", s.cfg.SweepSchedule),
		zap.Duration("retention", s.cfg.DeletedRetention),
	)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep purges rows soft-deleted before the retention cutoff. When
// another instance holds the sweep lock the call is a no-op.
func (s *Sweeper) Sweep(ctx context.Context) error {
	acquired, err := s.redis.SetNX(ctx, sweepLockKey, s.instanceID, sweepLockTTL).Result()
	if err != nil {
		return err
	}
	if !acquired {
		s.logger.Debug("sweep lock held elsewhere, skipping")
		return nil
	}

	cutoff := s.now().Add(-s.cfg.DeletedRetention)
	purged, err := s.pluginRepo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	s.logger.Info("purged soft-deleted plugins",
		zap.Int64("rows", purged),
		zap.Time("cutoff", cutoff),
	)
	return nil
}
