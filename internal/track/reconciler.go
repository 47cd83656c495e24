package track

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"priceping/internal/extractor"
	"priceping/internal/model"
	"priceping/internal/notifier"
	"priceping/internal/observability"
	"priceping/internal/price"
)

// Reconciler drives one batch pass: for every tracked product it runs
// extract → normalize → classify → persist → alert. Products fail
// individually; the loop never aborts and never rolls back earlier
// updates.
type Reconciler struct {
	Products  ProductStore
	History   HistoryStore
	Users     UserStore
	Extractor extractor.Extractor
	Notifier  notifier.Notifier

	// Workers bounds concurrent product checks. 1 means sequential, which
	// is the default: the scraping and notification backends are
	// rate-limited.
	Workers int
	// ExtractTimeout bounds one product's extraction so a slow URL cannot
	// stall the whole run.
	ExtractTimeout time.Duration
}

// outcome is what one product contributes to the run report.
type outcome struct {
	done    bool
	change  price.Change
	alerted bool
}

// Run processes every tracked product and returns the aggregate report.
// Only the initial product listing can fail the run as a whole.
func (r *Reconciler) Run(ctx context.Context) (*model.RunReport, error) {
	products, err := r.Products.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list products: %v", ErrPersistence, err)
	}
	log.Printf("[reconciler] checking %d products", len(products))
	observability.ReconcileRuns.Inc()

	report := &model.RunReport{Total: len(products)}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	jobs := make(chan model.Product)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				out := r.checkProduct(ctx, &p)

				mu.Lock()
				if out.done {
					report.Updated++
					if out.change == price.Increased || out.change == price.Decreased {
						report.PriceChange++
					}
					if out.alerted {
						report.AlertSent++
					}
				} else {
					report.Failed++
				}
				mu.Unlock()
			}
		}()
	}

	for _, p := range products {
		jobs <- p
	}
	close(jobs)
	wg.Wait()

	observability.ProductsChecked.Add(float64(report.Total))
	observability.ProductsFailed.Add(float64(report.Failed))
	observability.PriceChanges.Add(float64(report.PriceChange))
	observability.AlertsSent.Add(float64(report.AlertSent))

	log.Printf("[reconciler] done: total=%d updated=%d failed=%d priceChange=%d alertSent=%d",
		report.Total, report.Updated, report.Failed, report.PriceChange, report.AlertSent)
	return report, nil
}

// checkProduct runs the per-product state machine. Any failure before the
// persistence step leaves the product untouched for this run.
func (r *Reconciler) checkProduct(ctx context.Context, p *model.Product) outcome {
	extractCtx := ctx
	if r.ExtractTimeout > 0 {
		var cancel context.CancelFunc
		extractCtx, cancel = context.WithTimeout(ctx, r.ExtractTimeout)
		defer cancel()
	}

	rec, err := r.Extractor.Extract(extractCtx, p.URL)
	if err != nil {
		log.Printf("[reconciler] product %s: %v", p.ID, err)
		return outcome{}
	}

	newPrice, err := price.Normalize(rec.CurrentPrice)
	if err != nil {
		log.Printf("[reconciler] product %s: %v", p.ID, err)
		return outcome{}
	}
	// An empty extracted currency keeps the product's stored one.
	currency := price.ResolveCurrency(rec.CurrencyCode, "", p.Currency)

	oldPrice := p.CurrentPrice
	change := price.Classify(&oldPrice, newPrice)

	// Persist even on Unchanged so updated_at reflects this run.
	if err := r.Products.UpdatePrice(ctx, p.ID, newPrice, currency, rec.ProductImageURL); err != nil {
		log.Printf("[reconciler] product %s: update: %v", p.ID, err)
		return outcome{}
	}

	if change != price.Unchanged {
		if err := r.History.Insert(ctx, p.ID, newPrice, currency); err != nil {
			log.Printf("[reconciler] product %s: history: %v", p.ID, err)
			return outcome{}
		}
	}

	alerted := false
	if change == price.Decreased {
		alerted = r.dispatchDropAlert(ctx, p, currency, oldPrice, newPrice)
	}

	return outcome{done: true, change: change, alerted: alerted}
}

// dispatchDropAlert is best-effort: a missing address or a failed send is
// logged and reported as not-sent, never as a product failure.
func (r *Reconciler) dispatchDropAlert(ctx context.Context, p *model.Product, currency string, oldPrice, newPrice decimal.Decimal) bool {
	email, err := r.Users.GetEmail(ctx, p.UserID)
	if err != nil {
		log.Printf("[reconciler] product %s: resolve recipient: %v", p.ID, err)
		return false
	}
	if email == "" {
		log.Printf("[reconciler] product %s: owner %s has no contact address", p.ID, p.UserID)
		return false
	}

	alerted := *p
	alerted.CurrentPrice = newPrice
	alerted.Currency = currency
	if err := r.Notifier.SendPriceDropAlert(ctx, email, &alerted, oldPrice, newPrice); err != nil {
		log.Printf("[reconciler] product %s: send alert: %v", p.ID, err)
		return false
	}
	return true
}
