package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/aisynapse/synapse-backend/api/routes"
	"github.com/aisynapse/synapse-backend/internal/analytics"
	"github.com/aisynapse/synapse-backend/internal/profiles"
	"github.com/aisynapse/synapse-backend/internal/subscriptions"
	"github.com/aisynapse/synapse-backend/internal/usage"
	"github.com/aisynapse/synapse-backend/internal/workflows"
	"github.com/aisynapse/synapse-backend/pkg/config"
	"github.com/aisynapse/synapse-backend/pkg/db"
	"github.com/aisynapse/synapse-backend/pkg/env"
	"github.com/aisynapse/synapse-backend/pkg/instance"
	"github.com/aisynapse/synapse-backend/pkg/logger"
	"github.com/aisynapse/synapse-backend/pkg/metrics"
	"github.com/aisynapse/synapse-backend/pkg/migrate"
	"github.com/aisynapse/synapse-backend/pkg/pubsub"
	"github.com/aisynapse/synapse-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
		Env:         cfg.App.Env,
		Instance:    instance.ID(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
	}()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers = append(closers, dbClient.Close)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
	} else {
		logg.Warn(ctx, "redis not configured, rate limiting disabled")
	}

	var publisher workflows.Publisher = workflows.NewLogPublisher(logg)
	if cfg.PubSub.Enabled() {
		psClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			return err
		}
		closers = append(closers, psClient.Close)
		publisher = workflows.NewTopicPublisher(psClient, cfg.PubSub.NotificationTopic)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	synapseMetrics := metrics.NewSynapseMetrics(registry)

	loc, err := cfg.Usage.Location()
	if err != nil {
		return err
	}

	gdb := dbClient.DB()

	subscriptionService, err := subscriptions.NewService(subscriptions.ServiceParams{
		Repo:              subscriptions.NewRepository(gdb),
		TransactionRunner: dbClient,
	})
	if err != nil {
		return err
	}

	usageService, err := usage.NewService(usage.ServiceParams{
		Repo:          usage.NewRepository(gdb),
		Subscriptions: subscriptionService,
		Location:      loc,
		Observer:      synapseMetrics.ObserveLimitCheck,
	})
	if err != nil {
		return err
	}

	analyticsRepo := analytics.NewRepository(gdb)
	handlers, err := workflows.NewHandlers(workflows.HandlerParams{
		Analytics: analyticsRepo,
		Publisher: publisher,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	workflowService, err := workflows.NewService(workflows.ServiceParams{
		Repo:       workflows.NewRepository(gdb),
		Dispatcher: workflows.NewDispatcher(handlers),
		Usage:      usageService,
		Metrics:    synapseMetrics,
		Logger:     logg,
	})
	if err != nil {
		return err
	}

	analyticsService, err := analytics.NewService(analytics.ServiceParams{Repo: analyticsRepo})
	if err != nil {
		return err
	}

	profileService, err := profiles.NewService(profiles.ServiceParams{
		Repo:              profiles.NewRepository(gdb),
		TransactionRunner: dbClient,
	})
	if err != nil {
		return err
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	serverCtx := logg.WithField(ctx, "addr", addr)

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, registry, routes.Services{
			Subscriptions: subscriptionService,
			Usage:         usageService,
			Workflows:     workflowService,
			Analytics:     analyticsService,
			Profiles:      profileService,
		}),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(serverCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(serverCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
