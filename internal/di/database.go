package di

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gatherhall/plugin-trust/internal/config"
	"github.com/gatherhall/plugin-trust/internal/domain/entity"
)

// DatabaseModule provides database dependencies
var DatabaseModule = fx.Module("database",
	fx.Provide(provideDatabase),
	fx.Invoke(runMigrations),
)

func provideDatabase(lc fx.Lifecycle, cfg *config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case string(config.DriverMySQL):
		dialector = mysql.Open(cfg.DSN())
	case string(config.DriverPostgres):
		dialector = postgres.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	logger.Info("connecting to database",
		zap.String("driver", cfg.Driver),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing database connection")
			return sqlDB.Close()
		},
	})

	return db, nil
}

func runMigrations(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("running database migrations")
	return db.AutoMigrate(
		&entity.User{},
		&entity.UserAccount{},
		&entity.PremiumFeature{},
		&entity.Friendship{},
		&entity.Community{},
		&entity.Role{},
		&entity.UserRoleAssignment{},
		&entity.Plugin{},
		&entity.CommunityPlugin{},
		&entity.UserPluginState{},
		&entity.Report{},
	)
}
