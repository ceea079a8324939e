package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental_leads_backend/internal/scheduler"
	"rental_leads_backend/internal/whatsapp"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/db"
	"rental_leads_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	pool, err := db.NewPool(dbCtx, cfg)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	whatsappClient := whatsapp.NewClient(cfg, log)

	worker, err := scheduler.NewWorker(cfg, pool, whatsappClient, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler worker stopped")
}
