package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	convrepo "rental_leads_backend/internal/conversation/repository"
	"rental_leads_backend/internal/events"
	"rental_leads_backend/internal/extractor"
	apphttp "rental_leads_backend/internal/http"
	"rental_leads_backend/internal/http/router"
	"rental_leads_backend/internal/leads"
	"rental_leads_backend/internal/notification"
	"rental_leads_backend/internal/pdf"
	"rental_leads_backend/internal/pricing"
	"rental_leads_backend/internal/qualification"
	qualrepo "rental_leads_backend/internal/qualification/repository"
	"rental_leads_backend/internal/quotes"
	quotesvc "rental_leads_backend/internal/quotes/service"
	"rental_leads_backend/internal/scheduler"
	"rental_leads_backend/internal/storage"
	"rental_leads_backend/internal/webhook"
	"rental_leads_backend/internal/whatsapp"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/db"
	"rental_leads_backend/platform/logger"
	"rental_leads_backend/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

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

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()

	redisClient := initRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	followups, closeFollowups := initFollowupScheduler(cfg, log)
	if closeFollowups != nil {
		defer closeFollowups()
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	var archiver quotesvc.Archiver
	if storageSvc != nil {
		if err := withRetry(ctx, log, "ensure quote pdf bucket", 5, 2*time.Second, func() error {
			return storageSvc.EnsureBucketExists(ctx, storageSvc.Bucket())
		}); err != nil {
			log.Error("failed to ensure storage bucket exists", "error", err)
			panic("failed to ensure storage bucket exists: " + err.Error())
		}
		archiver = storageSvc
		log.Info("storage service initialized", "quotePDFsBucket", storageSvc.Bucket())
	}

	var renderer quotesvc.PDFRenderer
	if cfg.GetGotenbergURL() != "" {
		gotenberg := pdf.NewGotenbergClient(cfg.GetGotenbergURL(), cfg.GetGotenbergUsername(), cfg.GetGotenbergPassword())
		renderer = pdf.NewQuoteRenderer(gotenberg)
		log.Info("gotenberg PDF renderer initialized", "url", cfg.GetGotenbergURL())
	}

	rateTable, err := pricing.LoadRateTable(cfg.GetRateTablePath())
	if err != nil {
		log.Error("failed to load rate table", "error", err)
		panic("failed to load rate table: " + err.Error())
	}
	engine := pricing.NewEngine(rateTable)

	whatsappClient := whatsapp.NewClient(cfg, log)
	extractorClient := extractor.NewClient(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadsModule := leads.NewModule(pool, eventBus, val, cfg)
	quotesModule := quotes.NewModule(pool, engine, renderer, archiver, eventBus, val, cfg, log)

	notification.Subscribe(eventBus, notification.NewSMTPSender(cfg), log)

	webhookModule := webhook.NewModule(cfg, webhook.Config{
		Leads:         leadsModule.Service(),
		Conversations: convrepo.New(pool),
		Accumulator:   qualification.NewAccumulator(qualrepo.New(pool)),
		Extractor:     extractorClient,
		Drafter:       quotesModule.Service(),
		Messenger:     whatsappClient,
		Followups:     followups,
		EventBus:      eventBus,
	}, redisClient, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			leadsModule,
			quotesModule,
			webhookModule,
		},
	}

	engineHTTP := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engineHTTP.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; webhook deduplication disabled")
		return nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		log.Error("invalid REDIS_URL", "error", err)
		return nil
	}
	return redis.NewClient(opt)
}

func initFollowupScheduler(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.FollowupScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; conversation followups disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize followup scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
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
