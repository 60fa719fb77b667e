package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fertilabel/internal/config"
	"fertilabel/internal/infra"
	"fertilabel/internal/repository"
	"fertilabel/internal/router"
	"fertilabel/internal/service"
	"fertilabel/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	settings, err := service.SettingsFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid business settings")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A fresh installation starts with the default catalog.
	productRepo := repository.NewProductRepository(db)
	if _, err := service.NewProductService(productRepo).SeedDefaults(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default products")
	}

	// Worker pool: term e-mails. Handlers are wired here (composition root).
	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig("smtp"))
	pool := worker.NewPool(rdb)
	if cfg.SMTPHost != "" && cfg.TermMailTo != "" {
		termMail := worker.NewTermEmailWorker(
			repository.NewHistoryRepository(db),
			infra.NewDocumentRenderer(settings.DefaultClient),
			infra.NewMailer(cfg),
			mailCB,
		)
		pool.Register(worker.QueueTermEmail, worker.JobTermEmail, termMail)
		pool.Start(ctx, cfg.WorkerPoolSize)
	} else {
		log.Info().Msg("SMTP_HOST or TERM_MAIL_TO not set; term e-mails disabled")
	}

	r := router.New(cfg, settings, db, rdb, mailCB)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 30 * time.Second,
		// no WriteTimeout: SSE streams stay open
		IdleTimeout: 60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("fertilabel backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
