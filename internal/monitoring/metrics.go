// Package monitoring exposes Prometheus metrics for AI calls, enrichment
// merges, and the saved-lead pipeline.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sells-group/prospector-cli/internal/model"
)

// AI operations, used as the "operation" label.
const (
	OpSearchLeads         = "search_leads"
	OpAnalyzeLead         = "analyze_lead"
	OpResearchCompetitors = "research_competitors"
	OpDraftEmails         = "draft_emails"
	OpChat                = "chat"
)

var (
	AICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_ai_calls_total",
			Help: "AI backend calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "prospector_ai_call_duration_seconds",
			Help:    "Latency of AI backend calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"operation"},
	)

	StaleResultsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_stale_results_dropped_total",
			Help: "Enrichment results discarded because the selection changed",
		},
		[]string{"step"},
	)

	SavedLeads = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "prospector_saved_leads",
			Help: "Saved leads by CRM status",
		},
		[]string{"crm_status"},
	)

	LeadStoreWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_leadstore_writes_total",
			Help: "Durable writes of the lead store by outcome",
		},
		[]string{"outcome"},
	)

	AIBreakerOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "prospector_ai_breaker_open",
			Help: "1 while AI calls are paused after repeated failures",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prospector_http_requests_total",
			Help: "API requests by method, route pattern and status code",
		},
		[]string{"method", "route", "code"},
	)
)

// ObserveAI records one AI call that started at start.
func ObserveAI(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	AICalls.WithLabelValues(operation, outcome).Inc()
	AIDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveLeads sets the saved-lead gauge from a store snapshot. Statuses
// with no leads are reported as zero.
func ObserveLeads(leads []model.BusinessLead) {
	counts := make(map[model.CRMStatus]int, len(model.CRMStatuses))
	for _, l := range leads {
		counts[l.CRMStatus]++
	}
	for _, st := range model.CRMStatuses {
		SavedLeads.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}
