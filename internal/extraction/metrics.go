package extraction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DocumentsTotal counts processed documents.
	// Labels: template, outcome (complete, review, failed)
	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimscan",
			Subsystem: "extraction",
			Name:      "documents_total",
			Help:      "Total number of documents processed by template and outcome",
		},
		[]string{"template", "outcome"},
	)

	// FieldsTotal counts field extraction attempts.
	// Labels: template, result (matched, unmatched, error)
	FieldsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimscan",
			Subsystem: "extraction",
			Name:      "fields_total",
			Help:      "Total number of field extraction attempts by result",
		},
		[]string{"template", "result"},
	)

	// PatternErrorsTotal counts patterns that could not be evaluated.
	PatternErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "claimscan",
			Subsystem: "extraction",
			Name:      "pattern_errors_total",
			Help:      "Total number of unusable patterns encountered during extraction",
		},
		[]string{"template"},
	)

	OverallConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "claimscan",
			Subsystem: "extraction",
			Name:      "overall_confidence",
			Help:      "Distribution of document overall confidence",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		},
		[]string{"template"},
	)

	// Duration tracks wall time spent extracting one document.
	Duration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "claimscan",
			Subsystem: "extraction",
			Name:      "duration_seconds",
			Help:      "Duration of document extraction in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"template"},
	)
)
