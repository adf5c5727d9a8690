// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/receptar/receptar/internal/application/importer"
	recipeapp "github.com/receptar/receptar/internal/application/recipe"
	userapp "github.com/receptar/receptar/internal/application/user"
	"github.com/receptar/receptar/internal/infrastructure/config"
	"github.com/receptar/receptar/internal/infrastructure/http/server"
	gormstore "github.com/receptar/receptar/internal/infrastructure/persistence/gorm"
	"github.com/receptar/receptar/internal/infrastructure/persistence/postgres"
	"github.com/receptar/receptar/internal/infrastructure/persistence/redis"
	"github.com/receptar/receptar/internal/infrastructure/security"
	"github.com/receptar/receptar/pkg/healthcheck"
	"github.com/receptar/receptar/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// DatabaseModule provides the Postgres connection
var DatabaseModule = fx.Provide(
	postgres.NewConnectionManager,
	func(cm *postgres.ConnectionManager) *gorm.DB {
		return cm.GetDB()
	},
)

// CacheModule provides the Redis client and cache repository
var CacheModule = fx.Provide(
	redis.NewClient,
	redis.NewCacheRepository,
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	gormstore.NewRecipeRepository,
	gormstore.NewUserRepository,
	gormstore.NewLookupRepository,
	gormstore.NewTxManager,
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	importer.DefaultTranslator,
	recipeapp.NewService,
	userapp.NewService,
	importer.NewService,
	security.NewAuthService,
)

// HTTPModule provides the HTTP server and its health checks
var HTTPModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, cm *postgres.ConnectionManager, client *goredis.Client) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("database", healthcheck.NewDatabaseChecker(cm))
		hc.Register("redis", healthcheck.NewRedisChecker(client))
		return hc
	},
	server.NewServer,
)

// LifecycleModule registers application lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks wires startup and shutdown of the long-lived pieces
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	cm *postgres.ConnectionManager,
	client *goredis.Client,
	srv *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			if cfg.Database.AutoMigrate {
				if err := cm.Migrate(); err != nil {
					return err
				}
			}

			go func() {
				if err := srv.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down application")

			if err := srv.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			if err := client.Close(); err != nil {
				log.Error("Failed to close redis client", zap.Error(err))
			}

			if err := cm.Close(); err != nil {
				log.Error("Failed to close database connection", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
