package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconciliation outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeAmbiguous = "ambiguous"
	OutcomeUnmatched = "unmatched"
)

var (
	ReconcileRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georecon_reconcile_requests_total",
		Help: "Total number of reconciled access points by strategy",
	}, []string{"strategy"})
	ReconcileDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "georecon_reconcile_duration_ms",
		Help:    "Reconciliation duration in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	}, []string{"strategy"})
	ReconcileOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georecon_reconcile_outcomes_total",
		Help: "Reconciliation results by outcome",
	}, []string{"outcome"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georecon_cache_hits_total",
		Help: "Total result cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georecon_cache_misses_total",
		Help: "Total result cache misses",
	})
	LookupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "georecon_lookups_total",
		Help: "Total name lookups",
	})
	IndexNodes = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georecon_index_nodes",
		Help: "Number of places in the loaded index",
	})
	IndexNames = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "georecon_index_names",
		Help: "Number of distinct normalized names in the loaded index",
	})
	IndexReloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "georecon_index_reloads_total",
		Help: "Index reloads by status",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(ReconcileRequestsTotal)
	prometheus.MustRegister(ReconcileDurationMs)
	prometheus.MustRegister(ReconcileOutcomesTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(LookupsTotal)
	prometheus.MustRegister(IndexNodes)
	prometheus.MustRegister(IndexNames)
	prometheus.MustRegister(IndexReloadsTotal)
}

// Outcome classifies a result by its number of places.
func Outcome(places int) string {
	switch {
	case places == 0:
		return OutcomeUnmatched
	case places == 1:
		return OutcomeMatched
	default:
		return OutcomeAmbiguous
	}
}

// ObserveCache counts one cache lookup.
func ObserveCache(hit bool) {
	if hit {
		CacheHitsTotal.Inc()
		return
	}
	CacheMissesTotal.Inc()
}

// Handler exposes the default registry for scraping.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
