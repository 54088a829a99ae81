package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/maltedev/dealer-ad-studio/internal/browser"
	"github.com/maltedev/dealer-ad-studio/internal/config"
	"github.com/maltedev/dealer-ad-studio/internal/fetcher"
	"github.com/maltedev/dealer-ad-studio/internal/inventory"
	"github.com/maltedev/dealer-ad-studio/internal/models"
	"github.com/maltedev/dealer-ad-studio/internal/parser"
	"github.com/maltedev/dealer-ad-studio/internal/storage"
	"github.com/maltedev/dealer-ad-studio/pkg/logger"
)

func main() {
	var (
		pageURL    = flag.String("url", "", "Dealer inventory page to fetch and parse")
		inputFile  = flag.String("file", "", "Parse a saved HTML file instead of fetching")
		baseURL    = flag.String("base", "", "Base URL for relative links when using -file (defaults to the origin of -url)")
		useBrowser = flag.Bool("browser", false, "Render the page in a headless browser before parsing")
		output     = flag.String("output", "", "Write the snapshot to this file instead of stdout")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logs go to stderr so stdout stays valid JSON.
	log := logger.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshot, err := scrape(ctx, cfg, log, *pageURL, *inputFile, *baseURL, *useBrowser)
	if err != nil {
		log.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	if *output != "" {
		if err := storage.WriteJSON(*output, snapshot); err != nil {
			log.Error("failed to write output", "error", err)
			os.Exit(1)
		}
		log.Info("snapshot written", "file", *output, "vehicles", len(snapshot.Vehicles))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		log.Error("failed to write output", "error", err)
		os.Exit(1)
	}
}

func scrape(ctx context.Context, cfg *config.Config, log *slog.Logger, pageURL, inputFile, baseURL string, useBrowser bool) (*models.InventorySnapshot, error) {
	p := parser.NewDealerParser(log)

	if inputFile != "" {
		html, err := os.ReadFile(inputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", inputFile, err)
		}
		return inventory.NewService(nil, p, log).ParseHTML(string(html), pageURL, baseURL)
	}

	if pageURL == "" {
		return nil, errors.New("either -url or -file is required")
	}

	var f fetcher.Fetcher
	if useBrowser || cfg.Fetch.Mode == config.FetchModeBrowser {
		opts := browser.DefaultOptions()
		opts.Headless = cfg.Browser.Headless
		opts.Timeout = cfg.Browser.Timeout
		opts.UserAgent = cfg.Fetch.UserAgent

		bf, err := fetcher.NewBrowserFetcher(opts, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize browser: %w", err)
		}
		defer bf.Close()
		f = bf
	} else {
		f = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			Timeout:   cfg.Fetch.Timeout,
			UserAgent: cfg.Fetch.UserAgent,
		}, log)
	}

	return inventory.NewService(f, p, log).Scrape(ctx, pageURL)
}
