package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hdbpricing/backend/internal/config"
	"github.com/hdbpricing/backend/internal/delivery/http"
	"github.com/hdbpricing/backend/internal/domain"
	"github.com/hdbpricing/backend/internal/repository"
	"github.com/hdbpricing/backend/internal/service"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	// Configuration
	cfg, err := config.Load(log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	log.SetLevel(cfg.Level())

	// Startup loads: model and economic table, both required to serve
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StartupTimeout)
	defer cancel()

	econRepo, closeRepo, err := repository.OpenEconomicRepository(ctx, cfg.EconomicSource, cfg.EconomicSheet, cfg.StartupTimeout)
	if err != nil {
		log.WithError(err).Fatal("Failed to open economic data source")
	}
	defer closeRepo()

	var (
		model domain.Model
		econ  *domain.EconomicTable
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := loadModel(gctx, cfg)
		if err != nil {
			return err
		}
		model = m
		return service.ValidateModelSchema(gctx, m)
	})
	g.Go(func() error {
		t, err := service.LoadEconomicTable(gctx, econRepo)
		if err != nil {
			return err
		}
		econ = t
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Startup failed")
	}

	first, last, _ := econ.Span()
	log.WithFields(logrus.Fields{
		"source":           repository.Kind(cfg.EconomicSource),
		"years":            econ.Len(),
		"first_year":       first,
		"last_year":        last,
		"feature_contract": domain.FeatureContractVersion,
	}).Info("Loaded model and economic data")

	// Dependency Injection: Services
	pricingSvc := service.NewPricingService(model, econ, log)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "HDB Pricing API v1.0",
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: http.NewErrorHandler(log),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency}) ${locals:requestid}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, pricingSvc, log)

	// Graceful shutdown
	go func() {
		log.Infof("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("Server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.WriteTimeout); err != nil {
		log.WithError(err).Warn("Server forced to shutdown")
	}
	log.Info("Server exited gracefully")
}

// loadModel opens the remote inference bridge when configured, otherwise the
// local artifact
func loadModel(ctx context.Context, cfg *config.Config) (domain.Model, error) {
	if cfg.ModelServiceURL != "" {
		bridge := service.NewMLBridge(cfg.ModelServiceURL, cfg.ModelTimeout)
		if err := bridge.Health(ctx); err != nil {
			return nil, err
		}
		return bridge, nil
	}
	return service.LoadLinearModel(cfg.ModelPath)
}
