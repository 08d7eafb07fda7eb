package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/parsedu/payment-service/internal/api/v1"
	"github.com/parsedu/payment-service/internal/api/v1/middleware"
	"github.com/parsedu/payment-service/internal/config"
	"github.com/parsedu/payment-service/internal/metrics"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *v1.Handler, cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) {
	app.Use(middleware.HealthCheck("payment-service"))
	app.Use(middleware.HTTPMetrics(m, logger))

	app.Get("/ping", handler.Pong)
	app.Get("/payments/result", handler.ResultPage)

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	api := app.Group("/api/v1")
	api.Post("/payments", auth, handler.CreatePayment)

	// Callback and redirect routes must register before the order-id route
	// so "callback"/"redirect" never match as an order id.
	api.Get("/payments/callback/:provider", handler.Callback)
	api.Post("/payments/callback/:provider", handler.Callback)
	api.Get("/payments/redirect/:provider", handler.RedirectForm)

	api.Get("/payments/:order_id", auth, handler.GetTransaction)
}
