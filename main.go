package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"menucart/internal/config"
	"menucart/internal/menu"
	"menucart/internal/models"
	"menucart/internal/repositories"
	"menucart/internal/server"
	"menucart/internal/services"
	"menucart/pkg/rabbitmq"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(logger)

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.MenuItem{}, &models.Order{}, &models.Staff{}); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		os.Exit(1)
	}

	// --- Repositories ---
	menuRepo := repositories.NewGORMMenuRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	staffRepo := repositories.NewGORMStaffRepository(db)

	// --- Events (optional) ---
	var publisher services.Publisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Logger: logger})
		if err != nil {
			logger.Warn("order events disabled", "error", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
			notifier := &services.LogNotifier{RestaurantName: cfg.RestaurantName, Logger: logger}
			if err := mqClient.Consume(services.EventHandler(notifier, logger)); err != nil {
				logger.Error("failed to start order event consumer", "error", err)
			}
		}
	}

	// --- Services ---
	menuService := services.NewMenuService(menuRepo, cfg.RestaurantName, logger)
	orderService := services.NewOrderService(orderRepo, menuRepo, publisher, logger)
	authService := services.NewAuthService(staffRepo, cfg.JWTSecret, logger)

	if cfg.MenuSeedFile != "" {
		seedMenu(menuService, cfg.MenuSeedFile, logger)
	}

	app := server.New(server.Services{
		Menu:   menuService,
		Orders: orderService,
		Auth:   authService,
	}, server.Options{
		Logger:        logger,
		EventsEnabled: publisher != nil,
	})

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("starting server", "port", cfg.Port, "database", cfg.DatabaseDriver)
		if err := app.Listen(cfg.Port); err != nil {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logger.Error("error during Fiber shutdown", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("server gracefully stopped")
}

func openDatabase(cfg *config.Server) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseDSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
}

// seedMenu loads the YAML menu into an empty database.
func seedMenu(service *services.MenuService, path string, logger *slog.Logger) {
	static, err := menu.LoadFile(path)
	if err != nil {
		logger.Warn("menu seed skipped", "file", path, "error", err)
		return
	}
	seeded, err := service.Seed(static.Data())
	if err != nil {
		logger.Error("failed to seed menu", "file", path, "error", err)
		return
	}
	if seeded {
		logger.Info("menu seeded", "file", path, "categories", len(static.Data().Categories))
	}
}
