package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/hdbpricing/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, pricing *service.PricingService, logger *logrus.Logger) {
	handler := NewHandler(pricing, logger)

	// Health check
	app.Get("/health", handler.HealthCheck)
	app.Get("/contract", handler.GetContract)

	// Prediction endpoints
	app.Get("/predict", handler.Predict)
	app.Get("/fullpredict", handler.FullPredict)
}
