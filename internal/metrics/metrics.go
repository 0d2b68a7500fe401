// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transform outcomes.
const (
	OutcomeOK              = "ok"
	OutcomeInvalidDocument = "invalid_document"
	OutcomeProfileNotFound = "profile_not_found"
	OutcomeError           = "error"
)

var (
	TransformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xloffer_transforms_total",
			Help: "Offer documents processed, by outcome",
		},
		[]string{"outcome"},
	)

	TransformDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xloffer_transform_duration_seconds",
			Help:    "Time spent transforming one offer document",
			Buckets: prometheus.DefBuckets,
		},
	)

	PricesReplaced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xloffer_prices_replaced_total",
			Help: "License price cells rewritten from price profiles",
		},
	)
)
