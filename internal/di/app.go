// Package di wires the application together with fx modules.
package di

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/gatherhall/plugin-trust/internal/config"
)

// AppModule aggregates all application modules
var AppModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	RedisModule,
	DAOModule,
	RepositoryModule,
	SecurityModule,
	TrustModule,
	EventsModule,
	ServiceModule,
	MiddlewareModule,
	ObservabilityModule,
	ControllerModule,
	MaintenanceModule,
	HTTPServerModule,
)

// PrintBanner prints the application startup banner
func PrintBanner(cfg *config.Config, logger *zap.Logger) {
	logger.Info("===========================================")
	logger.Info("        GatherHall Plugin Trust API        ")
	logger.Info("===========================================")
	logger.Info("Application Info",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)
	logger.Info("===========================================")
}
