package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/config"
	"github.com/robinblocks/site/internal/infra/logging"
	"github.com/robinblocks/site/internal/infra/mail"
	"github.com/robinblocks/site/internal/infra/queue"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.IsDevelopment(), cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := cfg.ValidateNotifier(); err != nil {
		logger.Error("refusing to start", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQP.URL)
	if err != nil {
		return err
	}
	defer rabbitMQ.Close()

	sender := mail.NewEmailSender(
		cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
		cfg.Mail.From, cfg.Mail.NotifyTo,
	)

	worker := queue.NewWorker(rabbitMQ.Ch, sender, logger)
	logger.Info("notifier started", zap.String("queue", queue.QueueName))

	if err := worker.Start(ctx, queue.QueueName); err != nil {
		return err
	}
	logger.Info("notifier stopped")
	return nil
}
