// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Previews counts tip preview computations by outcome.
	Previews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kahawapay",
		Name:      "previews_total",
		Help:      "Tip preview computations by outcome.",
	}, []string{"outcome"})

	// Transitions counts requested transaction status transitions.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kahawapay",
		Name:      "transaction_transitions_total",
		Help:      "Requested transaction status transitions by kind and status.",
	}, []string{"kind", "status"})

	// RateRefreshes counts background refresh cycles by source and status.
	RateRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kahawapay",
		Name:      "refreshes_total",
		Help:      "Background refresh attempts by source and status.",
	}, []string{"source", "status"})
)
