package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopspring/decimal"

	"priceping/internal/config"
	"priceping/internal/db"
	"priceping/internal/extractor"
	"priceping/internal/model"
	"priceping/internal/notifier"
	"priceping/internal/repository"
	"priceping/internal/track"
)

// go run cmd/checker/main.go -workers=3
// go run cmd/checker/main.go -no-alerts
func main() {
	workers := flag.Int("workers", 0, "concurrent product checks (0 = use WORKER_COUNT)")
	noAlerts := flag.Bool("no-alerts", false, "log price drops instead of emailing them")
	flag.Parse()

	cfg := config.Load()

	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	var ext extractor.Extractor
	switch {
	case cfg.FirecrawlAPIKey != "":
		ext = extractor.NewFirecrawl(cfg.FirecrawlAPIURL, cfg.FirecrawlAPIKey)
	case cfg.OpenAIKey != "":
		ext = extractor.NewLLM(openai.NewClient(cfg.OpenAIKey))
	default:
		log.Fatal("no extraction backend configured: set FIRECRAWL_API_KEY or OPENAI_API_KEY")
	}

	var alerts notifier.Notifier = notifier.NewResend(cfg.ResendAPIKey, cfg.AlertFromEmail)
	if *noAlerts {
		alerts = logNotifier{}
	}

	if *workers == 0 {
		*workers = cfg.WorkerCount
	}

	reconciler := &track.Reconciler{
		Products:       repository.NewProductRepository(pool),
		History:        repository.NewHistoryRepository(pool),
		Users:          repository.NewUserRepository(pool),
		Extractor:      ext,
		Notifier:       alerts,
		Workers:        *workers,
		ExtractTimeout: cfg.ExtractTimeout,
	}

	start := time.Now()
	report, err := reconciler.Run(context.Background())
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	log.Printf("finished in %s", time.Since(start).Round(time.Millisecond))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(report)
}

// logNotifier replaces email delivery when -no-alerts is set.
type logNotifier struct{}

func (logNotifier) SendPriceDropAlert(ctx context.Context, to string, product *model.Product, oldPrice, newPrice decimal.Decimal) error {
	log.Printf("[checker] would alert %s: %s %s -> %s %s", to, product.Name, oldPrice, newPrice, product.Currency)
	return nil
}
