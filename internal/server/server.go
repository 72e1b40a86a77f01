// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/adeqintegrated/adeqsite/app/jobs"
	"github.com/adeqintegrated/adeqsite/app/repositories"
	"github.com/adeqintegrated/adeqsite/app/routes"
	"github.com/adeqintegrated/adeqsite/config"
	"github.com/adeqintegrated/adeqsite/pkg/cache"
	"github.com/adeqintegrated/adeqsite/pkg/database"
	"github.com/adeqintegrated/adeqsite/pkg/logger"
	"github.com/adeqintegrated/adeqsite/pkg/metrics"
	"github.com/adeqintegrated/adeqsite/pkg/middleware"
	"github.com/adeqintegrated/adeqsite/pkg/notification"
	"github.com/adeqintegrated/adeqsite/pkg/queue"
	"github.com/adeqintegrated/adeqsite/pkg/reqid"
	"github.com/adeqintegrated/adeqsite/pkg/router"
	"github.com/adeqintegrated/adeqsite/pkg/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	queueWorkers    = 4
)

// Start boots every layer and serves until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := config.RequireSecrets(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := database.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongo disconnect", "error", err)
		}
	}()

	if config.Get("LOG_MONGO", "") == "1" {
		mongoHandler, err := logger.NewMongoHandler(database.Client(), config.MongoDB(), "logs")
		if err != nil {
			logger.Warn("mongo log sink unavailable", "error", err)
		} else {
			logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mongoHandler))
			defer mongoHandler.Close()
		}
	}

	if err := repositories.NewUserRepository().EnsureIndexes(ctx); err != nil {
		return err
	}

	// Cache is optional: content reads fall through to the disk without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, content cache disabled", "error", err)
	} else {
		defer cache.Close()
	}

	storage.Connect()

	jobs.Register()
	queue.UseMongo(database.Collection("failed_jobs"))
	if config.Get("QUEUE_DRIVER", "memory") == "redis" && cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, queueWorkers)

	notification.SetWebhook(config.Get("ALERT_WEBHOOK", ""))

	r := NewRouter()
	routes.RegisterAPI(r)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// NewRouter builds the router with the global middleware stack.
func NewRouter() *router.Router {
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)
	return r
}
