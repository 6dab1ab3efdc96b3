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

	"github.com/ksquared-16/alloy/internal/adapters"
	"github.com/ksquared-16/alloy/internal/events"
	"github.com/ksquared-16/alloy/internal/ghl"
	apphttp "github.com/ksquared-16/alloy/internal/http"
	"github.com/ksquared-16/alloy/internal/http/router"
	"github.com/ksquared-16/alloy/internal/jobs"
	"github.com/ksquared-16/alloy/internal/jobs/store"
	"github.com/ksquared-16/alloy/internal/leads"
	"github.com/ksquared-16/alloy/internal/quotes"
	"github.com/ksquared-16/alloy/internal/scheduler"
	"github.com/ksquared-16/alloy/internal/telemetry"
	"github.com/ksquared-16/alloy/platform/config"
	"github.com/ksquared-16/alloy/platform/db"
	"github.com/ksquared-16/alloy/platform/logger"
	"github.com/ksquared-16/alloy/platform/validator"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "jobStore", cfg.JobStoreBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	jobStore, closeStore := openJobStore(ctx, cfg, log)
	defer closeStore()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	telemetry.SubscribeDomainEvents(eventBus)

	closeScheduler := initWriteBackRetries(cfg, eventBus, log)
	if closeScheduler != nil {
		defer closeScheduler()
	}

	crm := ghl.NewClient(cfg, log)
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Anti-Corruption Layer: each module sees the CRM only through its own ports
	jobsModule := jobs.NewModule(jobs.Dependencies{
		Store:     jobStore,
		Directory: adapters.NewContractorDirectory(crm),
		Messenger: adapters.NewCRMMessenger(crm),
		Writer:    adapters.NewJobRecordWriter(crm),
		EventBus:  eventBus,
	}, cfg, log)

	quotesModule := quotes.NewModule(
		adapters.NewQuotesContactSearcher(crm),
		adapters.NewQuotesOpportunityReader(crm),
		log,
	)

	leadsModule, err := leads.NewModule(adapters.NewLeadContactCreator(crm), eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   jobStore,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			jobsModule,
			quotesModule,
			leadsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		eventBus.Wait()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		panic("server error: " + err.Error())
	}
}

// openJobStore builds the configured job store backend. The returned close
// function is always safe to call.
func openJobStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, func()) {
	switch cfg.GetJobStoreBackend() {
	case config.StoreBackendRedis:
		opt, err := redis.ParseURL(cfg.GetRedisURL())
		if err != nil {
			panic("invalid REDIS_URL: " + err.Error())
		}
		client := redis.NewClient(opt)
		if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
			return client.Ping(ctx).Err()
		}); err != nil {
			log.Error("failed to connect to redis", "error", err)
			panic("failed to connect to redis: " + err.Error())
		}
		log.Info("redis job store ready", "prefix", cfg.GetJobKeyPrefix())
		return store.NewRedis(client, cfg.GetJobKeyPrefix()), func() { _ = client.Close() }

	case config.StoreBackendPostgres:
		if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, "migrations")
		}); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")

		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			panic("failed to connect to database: " + err.Error())
		}
		log.Info("postgres job store ready")
		return store.NewPostgres(pool), pool.Close

	default:
		log.Warn("using in-memory job store; jobs are lost on restart and not shared between instances")
		return store.NewMemory(), func() {}
	}
}

// initWriteBackRetries routes failed CRM write-backs to asynq when Redis is configured.
func initWriteBackRetries(cfg config.SchedulerConfig, bus events.Bus, log *logger.Logger) func() {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; failed CRM write-backs will not be retried")
		return nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize write-back scheduler client", "error", err)
		return nil
	}
	scheduler.SubscribeWriteBackRetries(bus, client, log)

	return func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
