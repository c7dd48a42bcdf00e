package main

import (
	"context"
	"log"
	"time"

	"dispatch-service/internal/alerts"
	"dispatch-service/internal/api"
	"dispatch-service/internal/config"
	"dispatch-service/internal/db"
	"dispatch-service/internal/events"
	"dispatch-service/internal/logging"
	"dispatch-service/internal/telegram"
	"dispatch-service/internal/utils"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	if err := utils.Retry(logger, 5, 2*time.Second, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return dbConn.Ping(ctx)
	}); err != nil {
		log.Fatalf("Database not reachable: %v", err)
	}

	// Telegram messenger
	messenger, err := telegram.NewMessenger(cfg.Telegram.BotToken, cfg.Telegram.RateLimit, logger)
	if err != nil {
		logger.Errorf("Failed to init Telegram bot: %v", err)
		log.Fatalf("Telegram init failed: %v", err)
	}

	// Kafka lifecycle publisher
	publisher, err := events.NewPublisher(cfg.Kafka.Broker, cfg.Kafka.Topic)
	if err != nil {
		logger.Errorf("Failed to init Kafka publisher: %v", err)
		log.Fatalf("Kafka init failed: %v", err)
	}
	defer publisher.Close()

	// Live inbox stream for the dashboard
	inbox := api.NewInboxManager(logger)

	// Coordination service
	svc := alerts.New(dbConn, dbConn, messenger, publisher, logger, cfg,
		alerts.WithInboxPusher(inbox))

	// Start API server
	handler := api.NewHandler(svc, logger, inbox)
	router := api.NewRouter(handler, logger, cfg)
	logger.Infof("Starting API server on %s", cfg.API.Port)
	if err := router.Run(cfg.API.Port); err != nil {
		logger.Errorf("API server failed: %v", err)
	}
}
