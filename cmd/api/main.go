package main

import (
	"context"
	"time"

	playgroundValidator "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/parsedu/payment-service/internal/api"
	v1 "github.com/parsedu/payment-service/internal/api/v1"
	"github.com/parsedu/payment-service/internal/api/validator"
	"github.com/parsedu/payment-service/internal/config"
	"github.com/parsedu/payment-service/internal/database"
	apperrors "github.com/parsedu/payment-service/internal/errors"
	"github.com/parsedu/payment-service/internal/gateway"
	"github.com/parsedu/payment-service/internal/metrics"
	"github.com/parsedu/payment-service/internal/repository"
	"github.com/parsedu/payment-service/internal/service"
	"github.com/parsedu/payment-service/pkg/httpclient"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const collectInterval = 15 * time.Second

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			zap.NewProduction,
			metrics.NewMetrics,
			database.NewConnection,
			repository.NewTransactionManager,
			repository.NewTransactionRepository,
			repository.NewProfileRepository,
			newHTTPClient,
			newRegistry,
			service.NewPaymentService,
			playgroundValidator.New,
			validator.NewXValidator,
			v1.NewHandler,
			newFiber,
		),
		fx.Invoke(startCollectors, startServer),
	).Run()
}

func newFiber() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: apperrors.ErrorHandler(),
	})
}

func newHTTPClient(cfg *config.Config) httpclient.HTTPClient {
	timeout := cfg.Gateways.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return httpclient.NewHTTPClient(timeout)
}

func newRegistry(cfg *config.Config, client httpclient.HTTPClient) *gateway.Registry {
	return gateway.NewRegistry(
		gateway.NewPardakht(cfg.Gateways.Pardakht, client),
		gateway.NewSadad(cfg.Gateways.Sadad, client),
		gateway.NewPasargad(cfg.Gateways.Pasargad, client),
	)
}

func startCollectors(m *metrics.Metrics, logger *zap.Logger, db *gorm.DB, lc fx.Lifecycle) {
	system := metrics.NewSystemCollector(m, logger)
	dbCollector := metrics.NewDatabaseMetricsCollector(m, logger, db)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			system.Start(collectInterval)
			dbCollector.Start(collectInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			system.Stop()
			dbCollector.Stop()
			return nil
		},
	})
}

func startServer(app *fiber.App, handler *v1.Handler, cfg *config.Config,
	m *metrics.Metrics, logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, cfg, m, logger)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go app.Listen(cfg.API.Port)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}
