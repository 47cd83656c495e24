package observability

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReconcileRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "priceping_reconcile_runs_total",
		Help: "Reconciliation runs started",
	})
	ProductsChecked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "priceping_products_checked_total",
		Help: "Products considered across all runs",
	})
	ProductsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "priceping_products_failed_total",
		Help: "Products whose reconciliation failed",
	})
	PriceChanges = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "priceping_price_changes_total",
		Help: "Detected price changes (excluding newly created products)",
	})
	AlertsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "priceping_alerts_sent_total",
		Help: "Price-drop alerts delivered",
	})
)

// Start serves /metrics on its own port.
func Start(port string) {
	prometheus.MustRegister(ReconcileRuns, ProductsChecked, ProductsFailed, PriceChanges, AlertsSent)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, nil); err != nil {
			log.Printf("[metrics] listener stopped: %v", err)
		}
	}()
}
