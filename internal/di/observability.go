package di

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/events"
	"github.com/gatherhall/plugin-trust/internal/observability"
)

// ObservabilityModule provides the metrics pipeline
var ObservabilityModule = fx.Module("observability",
	fx.Provide(provideMetricsProvider),
	fx.Invoke(registerConnectionGauge),
)

func provideMetricsProvider(lc fx.Lifecycle, cfg *config.MetricsConfig, appCfg *config.AppConfig, logger *zap.Logger) (*observability.MetricsProvider, error) {
	mp, err := observability.NewMetricsProvider(cfg, appCfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return mp.Shutdown(ctx)
		},
	})
	return mp, nil
}

func registerConnectionGauge(mp *observability.MetricsProvider, hub *events.Hub) error {
	return mp.RegisterConnectionGauge(func() int64 {
		return int64(hub.GetClientCount())
	})
}
