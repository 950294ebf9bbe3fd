package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/finance-dashboard/internal/advisor"
	"github.com/dvloznov/finance-dashboard/internal/api"
	"github.com/dvloznov/finance-dashboard/internal/api/handlers"
	"github.com/dvloznov/finance-dashboard/internal/config"
	"github.com/dvloznov/finance-dashboard/internal/gcs"
	"github.com/dvloznov/finance-dashboard/internal/gemini"
	"github.com/dvloznov/finance-dashboard/internal/jobs/inmemory"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()

	log := logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	model, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.ModelName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	reconciler := pipeline.NewReconciler(pipeline.NewGeminiColumnMapper(model))
	sessions := session.NewStore()

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.ImportQueueSize, cfg.ImportWorkers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	if err := jobQueue.Start(workerCtx, handlers.NewImportJobHandler(reconciler, sessions)); err != nil {
		log.Fatal().Err(err).Msg("Failed to start import workers")
	}
	log.Info().Int("workers", cfg.ImportWorkers).Msg("Import workers started")

	handler := api.NewRouter(api.Deps{
		Sessions:    sessions,
		Jobs:        jobStore,
		Publisher:   jobQueue,
		Fetcher:     gcs.NewStorage(cfg.GCSCredentialsFile),
		Asker:       advisor.New(model),
		DefaultHint: cfg.DomainHint,
		Log:         log,
	})

	// Reconciliation and advisory calls can take a while, so the write
	// timeout is longer than the read timeout.
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("port", *port).
			Str("model", model.Model()).
			Str("domain", string(cfg.DomainHint)).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight imports. The server may have
	// used up shutdownCtx already.
	stopCtx, cancelStop := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStop()

	if err := jobQueue.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
