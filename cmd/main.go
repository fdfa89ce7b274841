package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"digikala-scraper/internal/config"
	"digikala-scraper/internal/fetcher"
	"digikala-scraper/internal/kafka"
	"digikala-scraper/internal/logger"
	"digikala-scraper/internal/observability"
	"digikala-scraper/internal/pacing"
	"digikala-scraper/internal/scrapers"
	"digikala-scraper/internal/table"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Println("Error loading config:", err)
		return 1
	}

	// Initialize custom logger
	clog, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Println("failed to initialize logger:", err)
		return 1
	}
	defer func() {
		if err := clog.Close(); err != nil {
			log.Println("failed to close logger:", err)
		}
	}()

	runID := uuid.NewString()
	clog.Infof("Starting run %s", runID)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)
	if cfg.MetricsPort != "" {
		srv := observability.Serve(cfg.MetricsPort, registry, func(err error) {
			clog.Errorf("Metrics server stopped: %v", err)
		})
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		clog.Infof("Serving metrics on :%s/metrics", cfg.MetricsPort)
	}

	// Set up the optional Kafka producer
	var producer kafka.Producer = kafka.NopProducer{}
	if cfg.KafkaEnabled {
		p, err := kafka.NewProducer([]string{cfg.KafkaHost}, cfg.KafkaTopic, runID, clog)
		if err != nil {
			clog.Errorf("Kafka publishing disabled: %v", err)
		} else {
			producer = p
		}
	}
	defer func() {
		if err := producer.Close(); err != nil {
			clog.Errorf("Failed to close Kafka producer: %v", err)
		}
	}()

	// Interrupt cancels in-flight requests and pauses; unwritten rows are dropped.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scfg := scrapers.DefaultDigikalaConfig().
		WithAPIBaseURL(cfg.APIBaseURL).
		WithSearch(cfg.Category, cfg.Brand, cfg.SearchCacheKey).
		WithMaxPages(cfg.ProductPages, cfg.CommentPages).
		WithOutputs(cfg.ProductsCSV, cfg.CommentsCSV)

	sleeper := pacing.ContextSleeper{}
	f := fetcher.New(
		fetcher.NewHTTPClient(time.Duration(cfg.FetchTimeoutSeconds)*time.Second),
		fetcher.RetryConfig{
			Attempts: cfg.FetchRetries,
			Delay:    time.Duration(cfg.FetchDelaySeconds) * time.Second,
		},
		sleeper, clog, metrics,
	)
	pauser := pacing.NewPauser(sleeper)
	sink := scrapers.Sink{Writer: table.NewCSVWriter(), Producer: producer, Metrics: metrics}

	var scraper scrapers.Scraper = scrapers.NewDigikalaScraper(scfg,
		scrapers.NewProductCollector(scfg, f, pauser, sink, clog),
		scrapers.NewCommentCollector(scfg, f, pauser, sink, newProgressBar, clog),
		clog,
	)

	count, err := scraper.Scrape(ctx)
	if err != nil {
		clog.Errorf("Error scraping: %v", err)
		return 1
	}

	clog.Infof("Scraped %d rows in run %s", count, runID)
	return 0
}

func newProgressBar(total int, description string) scrapers.Progress {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { _, _ = os.Stderr.WriteString("\n") }),
	)
}
