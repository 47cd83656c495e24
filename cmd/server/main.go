package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"priceping/internal/config"
	"priceping/internal/db"
	"priceping/internal/extractor"
	"priceping/internal/notifier"
	"priceping/internal/observability"
	"priceping/internal/repository"
	"priceping/internal/server"
	"priceping/internal/track"
)

func main() {
	cfg := config.Load()

	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})

	products := repository.NewProductRepository(pool)
	history := repository.NewHistoryRepository(pool)
	users := repository.NewUserRepository(pool)

	ext := newExtractor(cfg)

	reconciler := &track.Reconciler{
		Products:       products,
		History:        history,
		Users:          users,
		Extractor:      ext,
		Notifier:       notifier.NewResend(cfg.ResendAPIKey, cfg.AlertFromEmail),
		Workers:        cfg.WorkerCount,
		ExtractTimeout: cfg.ExtractTimeout,
	}

	onboarder := &track.Onboarder{
		Products: products,
		History:  history,
		// Onboarding tolerates a short-lived cache; reconciliation always
		// extracts fresh.
		Extractor:        extractor.NewCached(ext, redisClient, cfg.ExtractCacheTTL),
		FallbackCurrency: cfg.FallbackCurrency,
	}

	s := &server.Server{
		Reconciler: reconciler,
		Onboarder:  onboarder,
		Products:   products,
		History:    history,
		Users:      users,
		CronSecret: cfg.CronSecret,
		Guard:      &track.RunGuard{Client: redisClient, TTL: 30 * time.Minute},
	}

	observability.Start(cfg.MetricsPort)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("priceping listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}

// newExtractor picks the configured scraping backend: Firecrawl when a key
// is present, otherwise the LLM extractor.
func newExtractor(cfg *config.Config) extractor.Extractor {
	if cfg.FirecrawlAPIKey != "" {
		return extractor.NewFirecrawl(cfg.FirecrawlAPIURL, cfg.FirecrawlAPIKey)
	}
	if cfg.OpenAIKey != "" {
		log.Println("FIRECRAWL_API_KEY not set, extracting with the LLM backend")
		return extractor.NewLLM(openai.NewClient(cfg.OpenAIKey))
	}
	log.Fatal("no extraction backend configured: set FIRECRAWL_API_KEY or OPENAI_API_KEY")
	return nil
}
