package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/kentci/backoffice/internal/config"
	"github.com/kentci/backoffice/internal/events"
	"github.com/kentci/backoffice/internal/reactor"
	"github.com/kentci/backoffice/internal/store/postgres"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load(logger)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := postgres.New(cfg.DSN(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	logger.Info("Database connection established")

	handler := reactor.New(db, logger)
	consumer, err := events.NewKafkaConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, handler, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.WithError(err).Fatal("Consumer stopped with error")
		}
	}()

	logger.WithField("topics", events.Topics).Info("Reactor started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down reactor...")
	cancel()
}
