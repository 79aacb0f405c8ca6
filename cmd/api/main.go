package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lawoffice_crm_backend/internal/auth"
	"lawoffice_crm_backend/internal/caseload"
	"lawoffice_crm_backend/internal/email"
	"lawoffice_crm_backend/internal/events"
	apphttp "lawoffice_crm_backend/internal/http"
	"lawoffice_crm_backend/internal/http/router"
	"lawoffice_crm_backend/internal/leads"
	"lawoffice_crm_backend/internal/mailbox"
	"lawoffice_crm_backend/internal/notification"
	"lawoffice_crm_backend/internal/payments"
	"lawoffice_crm_backend/internal/refs"
	"lawoffice_crm_backend/platform/cache"
	"lawoffice_crm_backend/platform/config"
	"lawoffice_crm_backend/platform/db"
	"lawoffice_crm_backend/platform/logger"
	"lawoffice_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Reference-data cache: Redis when configured, no-op otherwise
	refCache := initRefCache(cfg, log)

	sender := initEmailSender(cfg, log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	refSvc := refs.NewService(refs.NewRepository(pool), refCache, cfg.RefsCacheTTL, log)

	authModule := auth.NewModule(pool, cfg, eventBus, val, log)
	leadsModule := leads.NewModule(pool, refSvc, val, log)
	paymentsSvc := payments.NewService(payments.NewRepository(pool), refSvc, log)
	caseloadModule := caseload.NewModule(pool, leadsModule.Service(), paymentsSvc, refSvc, eventBus, val, log)
	mailboxModule := mailbox.NewModule(pool, cfg, val, log)

	// Notification subscriber (no HTTP routes)
	notification.NewModule(eventBus, sender, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			leadsModule,
			caseloadModule,
			mailboxModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRefCache(cfg config.CacheConfig, log *logger.Logger) cache.Cache {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; reference caching disabled")
		return cache.Disabled{}
	}
	c, err := cache.NewRedis(cfg.GetRedisURL())
	if err != nil {
		log.Error("failed to initialize redis cache", "error", err)
		return cache.Disabled{}
	}
	return c
}

func initEmailSender(cfg config.EmailConfig, log *logger.Logger) email.Sender {
	if !cfg.GetEmailEnabled() {
		log.Warn("EMAIL_ENABLED is off; notification email disabled")
		return email.NopSender{}
	}
	return email.NewSMTPSender(cfg)
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
	return fmt.Errorf("%s: %w", name, lastErr)
}
