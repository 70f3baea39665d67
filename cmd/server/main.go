package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/blogsum/internal/api"
	"github.com/dgallion1/blogsum/internal/config"
	"github.com/dgallion1/blogsum/internal/logging"
	"github.com/dgallion1/blogsum/internal/pipeline"
	"github.com/dgallion1/blogsum/internal/scrape"
	"github.com/dgallion1/blogsum/internal/store"
	"github.com/dgallion1/blogsum/internal/translate"
)

func main() {
	cfg := config.Load()
	log, closeLog := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closeLog()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage.
	stores, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Error("storage unavailable", "error", err)
		os.Exit(1)
	}

	// Initialize clients.
	fetcher := scrape.NewFetcher(scrape.Options{
		UserAgent:    cfg.UserAgent,
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.MaxFetchBytes,
		MinTextChars: cfg.MinArticleText,
	})
	translator := translate.New(translate.Options{
		AnthropicAPIKey: cfg.AnthropicAPIKey,
		AnthropicModel:  cfg.AnthropicModel,
	})
	log.Info("translator ready", "translator", translator.Name(), "language", cfg.TargetLanguage)

	// Initialize pipeline.
	worker := pipeline.NewWorker(fetcher, translator, stores.summaries, stores.archive, cfg.TargetLanguage, log)
	orch := pipeline.NewOrchestrator(pipeline.Options{
		WorkerCount:  cfg.WorkerCount,
		MaxQueueSize: cfg.MaxQueueSize,
		JobTTL:       cfg.JobTTL,
	}, worker, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, stores.summaries, stores.archive, translator, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		fetcher.Close()
		stores.close(shutdownCtx)
	}()

	log.Info("starting blogsum", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

type storeSet struct {
	summaries store.Summaries
	archive   store.Archive
	closers   []func(context.Context)
}

// openStores picks Postgres for summaries and MongoDB for full texts when
// they are configured, and the in-process store for whatever is not.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (*storeSet, error) {
	mem := store.NewMemory()
	set := &storeSet{summaries: mem, archive: mem}

	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		set.summaries = pg
		set.closers = append(set.closers, func(context.Context) { pg.Close() })
		log.Info("summaries stored in postgres")
	} else {
		log.Warn("DATABASE_URL not set, summaries are kept in memory")
	}

	if cfg.MongoURI != "" {
		mg, err := store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			set.close(ctx)
			return nil, err
		}
		set.archive = mg
		set.closers = append(set.closers, func(ctx context.Context) {
			if err := mg.Close(ctx); err != nil {
				log.Warn("close mongo", "error", err)
			}
		})
		log.Info("full texts archived in mongodb", "database", cfg.MongoDatabase)
	} else {
		log.Warn("MONGODB_URI not set, full texts are kept in memory")
	}

	return set, nil
}

func (s *storeSet) close(ctx context.Context) {
	for _, c := range s.closers {
		c(ctx)
	}
}
