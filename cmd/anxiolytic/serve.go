package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/anxiolytic/internal/api"
	"github.com/terraincognita07/anxiolytic/internal/config"
	"github.com/terraincognita07/anxiolytic/internal/db"
	"github.com/terraincognita07/anxiolytic/internal/i18n"
	"github.com/terraincognita07/anxiolytic/internal/logging"
	"github.com/terraincognita07/anxiolytic/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func loadConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	secretKey, err := config.ResolveSecretKey(cfg.SecretKey)
	if err != nil {
		return err
	}
	port, err := config.ResolvePort(cfg.Port)
	if err != nil {
		return err
	}
	location, ok := config.ResolveLocation(cfg.Timezone)
	if !ok {
		log.Warn("invalid timezone, falling back to UTC", zap.String("tz", cfg.Timezone))
	}
	time.Local = location

	database, err := db.OpenSQLiteWithLogger(cfg.DBPath, log)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, secretKey, i18nManager, api.Options{
		Location:     location,
		CookieSecure: cfg.CookieSecure,
		Logger:       log,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler, cfg)

	signalCtx, stopSignals := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	group, groupCtx := errgroup.WithContext(signalCtx)

	group.Go(func() error {
		log.Info("listening", zap.String("port", port), zap.String("db", cfg.DBPath), zap.String("tz", location.String()))
		if err := app.Listen(":" + port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
		return nil
	})

	if reminders := newReminderService(cfg, handler, i18nManager, location, log); reminders != nil {
		group.Go(func() error {
			return reminders.Run(groupCtx)
		})
	} else {
		log.Info("reminders disabled: telegram credentials are not configured")
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func newApp(handler *api.Handler, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Anxiolytic",
		DisableStartupMessage: true,
		ErrorHandler:          handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	app.Use(handler.LanguageMiddleware)

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// corsConfig allows credentials only for an explicit origin list.
func corsConfig(origins string) cors.Config {
	trimmed := strings.TrimSpace(origins)
	if trimmed == "" || trimmed == "*" {
		return cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}
	}
	return cors.Config{
		AllowOrigins:     trimmed,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}
}

func newReminderService(cfg config.Config, handler *api.Handler, translator services.Translator, location *time.Location, log *zap.Logger) *services.ReminderService {
	if !cfg.RemindersConfigured() {
		return nil
	}

	repositories := handler.Repositories()
	sender := services.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
	return services.NewReminderService(
		repositories.Users,
		repositories.Attacks,
		repositories.Journal,
		translator,
		sender,
		log,
		services.ReminderOptions{
			Hour:     cfg.ReminderHour,
			Interval: cfg.ReminderInterval,
			Location: location,
		},
	)
}
