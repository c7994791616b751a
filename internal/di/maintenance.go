package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/domain/repository"
	"github.com/gatherhall/plugin-trust/internal/maintenance"
)

// MaintenanceModule provides the recurring cleanup jobs
var MaintenanceModule = fx.Module("maintenance",
	fx.Provide(provideSweeper),
	fx.Invoke(startSweeper),
)

func provideSweeper(
	client *redis.Client,
	pluginRepo repository.PluginRepository,
	cfg *config.TrustConfig,
	logger *zap.Logger,
) *maintenance.Sweeper {
	return maintenance.NewSweeper(client, pluginRepo, cfg, logger)
}

func startSweeper(lc fx.Lifecycle, sweeper *maintenance.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
