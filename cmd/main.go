package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"auracheck/internal/alerts"
	"auracheck/internal/api"
	"auracheck/internal/config"
	"auracheck/internal/db"
	"auracheck/internal/kafka"
	"auracheck/internal/logging"
	"auracheck/internal/readings"
	"auracheck/internal/ws"
	"auracheck/pkg/sms"
	"auracheck/pkg/telegram"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Config load failed: ", err)
	}

	// Initialize logger
	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatal("Logger init failed: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to DB and ensure schema
	dbConn, err := db.New(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Errorf("DB connect failed: %v", err)
		log.Fatal("DB connect failed: ", err)
	}
	defer dbConn.Close()
	if err := dbConn.Migrate(ctx); err != nil {
		logger.Errorf("Migration failed: %v", err)
		log.Fatal("Migration failed: ", err)
	}

	// Notification channel: absence degrades dispatch to a logged skip,
	// never a hard failure of ingestion.
	var channel alerts.Channel
	if cfg.SMSConfigured() {
		channel = sms.New(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.MessagingServiceSID)
	} else {
		logger.Warnf("Twilio credentials not set, SMS alerts disabled")
	}

	var mirror alerts.Mirror
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != 0 {
		m, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			logger.Warnf("Telegram mirror init failed, disabled: %v", err)
		} else {
			mirror = m
		}
	}

	hub := ws.NewHub(logger)

	// Dispatcher worker pool
	dispatcher := alerts.New(channel, mirror, logger, cfg.Dispatch.QueueSize)
	var wg sync.WaitGroup
	dispatcher.Start(&wg, cfg.Dispatch.MaxWorkers)

	classifier := readings.NewClassifier(cfg.Thresholds.Moderate, cfg.Thresholds.Critical)
	svc := readings.NewService(dbConn, dispatcher, hub, classifier, cfg.Snooze.Duration, logger)

	// Optional broker ingestion
	var consumer *kafka.Consumer
	if cfg.Kafka.Broker != "" {
		consumer = kafka.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.GroupID, svc, logger)
		consumer.Start(ctx, &wg)
	}

	// Start API server
	router := api.NewRouter(dbConn, svc, hub, logger, cfg)
	go func() {
		logger.Infof("API started on %s (thresholds moderate=%d critical=%d)",
			cfg.API.Port, cfg.Thresholds.Moderate, cfg.Thresholds.Critical)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	cancel()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Errorf("Kafka consumer close failed: %v", err)
		}
	}
	dispatcher.Close()
	wg.Wait()
	logger.Infof("Service stopped")
}
