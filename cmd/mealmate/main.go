package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/MealMate/internal/api"
	"github.com/Kerhoff/MealMate/internal/auth"
	"github.com/Kerhoff/MealMate/internal/config"
	"github.com/Kerhoff/MealMate/internal/generator"
	"github.com/Kerhoff/MealMate/internal/repository"
	"github.com/Kerhoff/MealMate/internal/repository/firestoredb"
	"github.com/Kerhoff/MealMate/internal/repository/memory"
	"github.com/Kerhoff/MealMate/internal/repository/postgres"
	"github.com/Kerhoff/MealMate/internal/service"
	"github.com/Kerhoff/MealMate/internal/telegram"
	"github.com/Kerhoff/MealMate/pkg/logger"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting MealMate...")

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Storage
	repos, closer, err := openStore(ctx, cfg, l)
	if err != nil {
		l.Fatalf("Failed to open %s store: %v", cfg.StorageBackend, err)
	}
	defer closer.Close()

	tokens, err := auth.NewJWTMaker(cfg.JWTSecret)
	if err != nil {
		l.Fatalf("Failed to create token maker: %v", err)
	}

	// Recipe generation
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		l.Fatalf("Failed to create %s client: %v", cfg.LLMProvider, err)
	}
	var images generator.ImageSearcher
	if cfg.UnsplashAccessKey != "" {
		images = generator.NewUnsplashClient(cfg.UnsplashAccessKey, "")
	} else {
		l.Warn("UNSPLASH_ACCESS_KEY is not set, generated recipes will have no image")
	}
	gen := generator.New(completer, images, l)

	// Telegram bot
	var notifier service.Notifier
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}
		notifier = bot
	}

	// Service layer
	svc := service.New(l, repos, tokens, cfg.TokenTTL, gen, notifier)

	// Start HTTP server
	apiServer := api.NewServer(svc, l, cfg.CORSOrigins)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go serve(l, "HTTP", httpServer, cancel)
	go serve(l, "metrics", metricsServer, cancel)

	l.Info("MealMate started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	l.Info("Shutting down HTTP servers...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("Metrics server shutdown error: %v", err)
	}

	l.Info("MealMate stopped")
}

func serve(l *logrus.Logger, name string, srv *http.Server, stop context.CancelFunc) {
	l.Infof("%s server listening on %s", name, srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		l.Errorf("%s server error: %v", name, err)
		stop()
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openStore connects the configured backend. Postgres is migrated before use.
func openStore(ctx context.Context, cfg *config.Config, l *logrus.Logger) (repository.Repositories, io.Closer, error) {
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		db, err := config.NewDatabase(ctx, cfg.DatabaseURL, l)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		if err := db.Migrate(cfg.MigrationsPath); err != nil {
			db.Close()
			return repository.Repositories{}, nil, err
		}
		return postgres.NewRepositories(db.DB), db, nil

	case config.StorageFirestore:
		client, err := config.NewFirestore(ctx, cfg.FirestoreProject, l)
		if err != nil {
			return repository.Repositories{}, nil, err
		}
		return firestoredb.NewRepositories(client), client, nil

	default:
		l.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewStore().Repositories(), nopCloser{}, nil
	}
}

func newCompleter(ctx context.Context, cfg *config.Config) (generator.Completer, error) {
	if cfg.LLMProvider == config.ProviderOpenAI {
		return generator.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
	}
	return generator.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "")
}
