// Package metrics expõe os contadores Prometheus do serviço.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeAllowed = "allowed"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

var (
	// Label is the limiter route (matched prefix, policy name or path).
	RateLimitDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "penthouse_ratelimit_decisions_total",
		Help: "Total number of rate limit decisions grouped by route and outcome",
	}, []string{"route", "outcome"})
	RateLimitSweptEntries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "penthouse_ratelimit_swept_entries_total",
		Help: "Total number of expired rate limit entries removed by cleanup sweeps",
	})
	MenuTreeBuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "penthouse_menu_tree_builds_total",
		Help: "Total number of menu trees built from flat lists",
	})
	MenuTreeNodes = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "penthouse_menu_tree_nodes",
		Help:    "Number of nodes in flat lists submitted for tree building",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000},
	})
	MenuTreeOrphans = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "penthouse_menu_tree_orphans_total",
		Help: "Total number of menu nodes dropped because their parent id was not found",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		RateLimitDecisions,
		RateLimitSweptEntries,
		MenuTreeBuilds,
		MenuTreeNodes,
		MenuTreeOrphans,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Handler serve a exposição Prometheus do registry do serviço.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
