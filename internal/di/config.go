package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
)

// ConfigModule provides configuration dependencies
var ConfigModule = fx.Module("config",
	fx.Provide(
		config.Load,
		provideAppConfig,
		provideServerConfig,
		provideDatabaseConfig,
		provideRedisConfig,
		provideJWTConfig,
		provideTrustConfig,
		provideFilesConfig,
		provideMetricsConfig,
		provideConfigWatcher,
	),
	fx.Invoke(applyRuntimeReloads),
)

func provideAppConfig(cfg *config.Config) *config.AppConfig {
	return &cfg.App
}

func provideServerConfig(cfg *config.Config) *config.ServerConfig {
	return &cfg.Server
}

func provideDatabaseConfig(cfg *config.Config) *config.DatabaseConfig {
	return &cfg.Database
}

func provideRedisConfig(cfg *config.Config) *config.RedisConfig {
	return &cfg.Redis
}

func provideJWTConfig(cfg *config.Config) *config.JWTConfig {
	return &cfg.JWT
}

func provideTrustConfig(cfg *config.Config) *config.TrustConfig {
	return &cfg.Trust
}

func provideFilesConfig(cfg *config.Config) *config.FilesConfig {
	return &cfg.Files
}

func provideMetricsConfig(cfg *config.Config) *config.MetricsConfig {
	return &cfg.Metrics
}

func provideConfigWatcher(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*config.Watcher, error) {
	watcher, err := config.NewWatcher(cfg, ".", logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return watcher.Close()
		},
	})
	return watcher, nil
}

// applyRuntimeReloads picks up trust threshold changes from the config
// watcher. Connection settings are read once at startup and never
// reloaded.
func applyRuntimeReloads(watcher *config.Watcher, trustCfg *config.TrustConfig, logger *zap.Logger) {
	watcher.OnChange(func(fresh *config.Config) {
		trustCfg.PluginLimit = fresh.Trust.PluginLimit
		trustCfg.MinReportsToFlag = fresh.Trust.MinReportsToFlag
		logger.Info("trust thresholds reloaded",
			zap.Int("pluginLimit", trustCfg.PluginLimit),
			zap.Int("minReportsToFlag", trustCfg.MinReportsToFlag),
		)
	})
}
