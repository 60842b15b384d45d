package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropcare_analyses_total",
		Help: "Completed diagnoses by crop and outcome.",
	}, []string{"crop", "outcome"})

	AnalysisRunsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cropcare_analysis_runs_started_total",
		Help: "Total number of simulated analysis runs started.",
	})

	AnalysisRunsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cropcare_analysis_runs_cancelled_total",
		Help: "Total number of analysis runs cancelled before producing a result.",
	})

	AnalysisRunSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cropcare_analysis_run_seconds",
		Help:    "Wall time from run start to result.",
		Buckets: []float64{0.5, 1, 2, 3, 5, 8, 13},
	})

	ScreenTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropcare_screen_transitions_total",
		Help: "Navigation transitions between screens.",
	}, []string{"from", "to"})

	HistoryEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cropcare_history_entries",
		Help: "Current number of results held in session history.",
	})

	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropcare_api_requests_total",
		Help: "HTTP API requests by route and status code.",
	}, []string{"route", "code"})

	APIRateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cropcare_api_rate_limited_total",
		Help: "Requests rejected by the per-client rate limiter.",
	})

	ConfigReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cropcare_config_reloads_total",
		Help: "Config hot reload attempts by result.",
	}, []string{"result"})
)
