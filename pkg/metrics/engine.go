package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records quote engine activity: wizard transitions,
// search queries, batch assessments and quote submissions.
type EngineMetrics struct {
	wizardSteps       *prometheus.CounterVec
	searchQueries     *prometheus.CounterVec
	searchStale       prometheus.Counter
	assessmentItems   *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	submitDuration    prometheus.Histogram
	assessmentLatency prometheus.Histogram
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	wizardSteps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wizard_step_transitions",
		Help: "Wizard step transitions by variant and step.",
	}, []string{"variant", "step"})
	searchQueries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "search_queries",
		Help: "Catalog search queries by outcome.",
	}, []string{"outcome"})
	searchStale := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "search_stale_responses",
		Help: "Search responses dropped as stale.",
	})
	assessmentItems := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_items",
		Help: "Compliance assessment items by status.",
	}, []string{"status"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_submissions",
		Help: "Quote submissions by outcome.",
	}, []string{"outcome"})
	submitDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quote_submit_duration_seconds",
		Help:    "Duration of quote submission in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	assessmentLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assessment_duration_seconds",
		Help:    "Duration of a full batch assessment in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(wizardSteps, searchQueries, searchStale, assessmentItems, submissions, submitDuration, assessmentLatency)
	return &EngineMetrics{
		wizardSteps:       wizardSteps,
		searchQueries:     searchQueries,
		searchStale:       searchStale,
		assessmentItems:   assessmentItems,
		submissions:       submissions,
		submitDuration:    submitDuration,
		assessmentLatency: assessmentLatency,
	}
}

// IncWizardStep records a transition into the named step.
func (m *EngineMetrics) IncWizardStep(variant, step string) {
	if m == nil || m.wizardSteps == nil {
		return
	}
	m.wizardSteps.WithLabelValues(normalizeLabel(variant), normalizeLabel(step)).Inc()
}

// IncSearchQuery records a search query outcome ("ok", "error", "short").
func (m *EngineMetrics) IncSearchQuery(outcome string) {
	if m == nil || m.searchQueries == nil {
		return
	}
	m.searchQueries.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSearchStale records a search response discarded as stale.
func (m *EngineMetrics) IncSearchStale() {
	if m == nil || m.searchStale == nil {
		return
	}
	m.searchStale.Inc()
}

// IncAssessmentItem records a single assessment item result by status.
func (m *EngineMetrics) IncAssessmentItem(status string) {
	if m == nil || m.assessmentItems == nil {
		return
	}
	m.assessmentItems.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncSubmission records a quote submission outcome ("success", "failed").
func (m *EngineMetrics) IncSubmission(outcome string) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSubmitDuration records the duration of a quote submission.
func (m *EngineMetrics) ObserveSubmitDuration(d time.Duration) {
	if m == nil || m.submitDuration == nil {
		return
	}
	m.submitDuration.Observe(d.Seconds())
}

// ObserveAssessmentDuration records the duration of a batch assessment.
func (m *EngineMetrics) ObserveAssessmentDuration(d time.Duration) {
	if m == nil || m.assessmentLatency == nil {
		return
	}
	m.assessmentLatency.Observe(d.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
