package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for QueriesTotal.
const (
	OutcomeAnswered = "answered"
	OutcomeApology  = "apology"
	OutcomePanic    = "panic"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carcarebot_queries_total",
			Help: "Total number of chat queries by outcome",
		},
		[]string{"outcome"},
	)

	QueryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carcarebot_query_failures_total",
			Help: "Total number of failed reply compositions by error kind",
		},
		[]string{"error_kind"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carcarebot_query_duration_seconds",
			Help:    "Duration of reply composition in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ClassifierTrainings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "carcarebot_classifier_trainings_total",
			Help: "Number of times the diagnostic classifier was trained",
		},
	)

	InteractionsLogged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carcarebot_interactions_logged_total",
			Help: "Interaction log writes by sink and status",
		},
		[]string{"sink", "status"},
	)
)
