package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/config"
	"github.com/robinblocks/site/internal/infra/http/handlers"
	"github.com/robinblocks/site/internal/infra/integration/loops"
	"github.com/robinblocks/site/internal/infra/logging"
	"github.com/robinblocks/site/internal/infra/queue"
	"github.com/robinblocks/site/internal/usecase"
	"github.com/robinblocks/site/internal/web"
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

	if err := cfg.Validate(); err != nil {
		logger.Error("refusing to start", zap.Error(err))
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Upstream contacts API
	contacts := loops.NewClient(cfg.Loops.APIKey, cfg.Loops.BaseURL, cfg.Loops.Timeout, logger)

	// 2. Optional subscriber events
	var (
		publisher usecase.EventPublisher
		rabbit    handlers.ConnectionChecker
	)
	if cfg.AMQP.Enabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.AMQP.URL)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		rabbit = rabbitMQ.Conn
		logger.Info("subscriber events enabled", zap.String("exchange", queue.ExchangeName))
	}

	// 3. Use cases and handlers
	subscribeUC := usecase.NewSubscribeUseCase(contacts, publisher, logger)

	pages, err := web.NewPages()
	if err != nil {
		return err
	}

	router := newRouter(routes{
		Subscribe: handlers.NewSubscribeHandler(subscribeUC, logger),
		Pages:     handlers.NewPageHandler(pages, subscribeUC, logger),
		Health:    handlers.NewHealthHandler(contacts.Configured(), rabbit),
	}, cfg.AllowedOrigins, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
