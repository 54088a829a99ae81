package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/maltedev/dealer-ad-studio/internal/adscript"
	"github.com/maltedev/dealer-ad-studio/internal/api"
	"github.com/maltedev/dealer-ad-studio/internal/browser"
	"github.com/maltedev/dealer-ad-studio/internal/config"
	"github.com/maltedev/dealer-ad-studio/internal/database"
	"github.com/maltedev/dealer-ad-studio/internal/events"
	"github.com/maltedev/dealer-ad-studio/internal/fetcher"
	"github.com/maltedev/dealer-ad-studio/internal/inventory"
	"github.com/maltedev/dealer-ad-studio/internal/parser"
	"github.com/maltedev/dealer-ad-studio/internal/venice"
	"github.com/maltedev/dealer-ad-studio/internal/video"
	"github.com/maltedev/dealer-ad-studio/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pageFetcher, closeFetcher, err := newFetcher(cfg, log)
	if err != nil {
		return err
	}
	defer closeFetcher()

	veniceClient := venice.NewClient(venice.Options{
		APIKey:    cfg.Venice.APIKey,
		BaseURL:   cfg.Venice.BaseURL,
		ChatModel: cfg.Venice.ChatModel,
		Timeout:   cfg.Venice.Timeout,
	}, log)
	if cfg.Venice.APIKey == "" {
		log.Warn("VENICE_API_KEY is not set; generation and video endpoints will fail")
	}

	services := api.Services{
		Inventory: inventory.NewService(pageFetcher, parser.NewDealerParser(log), log),
		Video:     video.NewService(veniceClient, log),
	}

	var store adscript.Store
	if cfg.DatabaseEnabled() {
		db, err := database.New(ctx, database.Config{
			DSN:      cfg.Database.DSN(),
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return err
		}

		store = events.NewPublisher(db, log)
		services.History = database.NewScriptRepository(db)

		if cfg.RelayEnabled() {
			relay, closeRedis, err := startRelay(ctx, cfg, db, log)
			if err != nil {
				return err
			}
			defer closeRedis()
			services.Outbox = relay
		}
	} else {
		log.Info("DB_HOST not set; generated scripts will not be stored")
	}

	services.Generator = adscript.NewGenerator(veniceClient, store, log)

	router := api.NewRouter(api.NewHandlers(services, log), api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", server.Addr, "fetch_mode", cfg.Fetch.Mode)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("server stopped")
	return nil
}

func newFetcher(cfg *config.Config, log *slog.Logger) (fetcher.Fetcher, func(), error) {
	if cfg.Fetch.Mode != config.FetchModeBrowser {
		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:   cfg.Fetch.Timeout,
			UserAgent: cfg.Fetch.UserAgent,
		}, log)
		return f, func() {}, nil
	}

	opts := browser.DefaultOptions()
	opts.Headless = cfg.Browser.Headless
	opts.Timeout = cfg.Browser.Timeout
	opts.UserAgent = cfg.Fetch.UserAgent
	opts.ViewportWidth = cfg.Browser.ViewportWidth
	opts.ViewportHeight = cfg.Browser.ViewportHeight
	opts.Locale = cfg.Browser.Locale
	opts.TimezoneID = cfg.Browser.TimezoneID

	f, err := fetcher.NewBrowserFetcher(opts, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize browser: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Error("failed to close browser", "error", err)
		}
	}, nil
}

func startRelay(ctx context.Context, cfg *config.Config, db *database.DB, log *slog.Logger) (*database.Relay, func(), error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	relay := database.NewRelay(database.NewOutboxRepository(db), redisClient, log, database.RelayConfig{
		PollInterval: cfg.Relay.PollInterval,
		BatchSize:    cfg.Relay.BatchSize,
	})

	go func() {
		if err := relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("relay stopped with error", "error", err)
		}
	}()

	return relay, func() { _ = redisClient.Close() }, nil
}
