package metrics

import (
	"time"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeSuccess  = "success"
	outcomeFailure  = "failure"
)

// EditorMetrics records design editor activity.
type EditorMetrics struct {
	uploads        *prometheus.CounterVec
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	violations     *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	sessions       prometheus.Gauge
}

// NewEditorMetrics registers the editor metrics on the provided registerer.
func NewEditorMetrics(reg prometheus.Registerer) *EditorMetrics {
	if reg == nil {
		return &EditorMetrics{}
	}
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_uploads_total",
		Help: "Image uploads by outcome and the rule or type that decided it.",
	}, []string{"outcome", "reason"})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_view_exports_total",
		Help: "Per-view composite exports by outcome.",
	}, []string{"view", "outcome"})
	exportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "editor_export_duration_seconds",
		Help:    "Duration of a full design export in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"purpose"})
	violations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_constraint_violations_total",
		Help: "Elements left outside the printable area after a completed gesture.",
	}, []string{"view"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "editor_submissions_total",
		Help: "Design submissions by outcome.",
	}, []string{"outcome"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "editor_active_sessions",
		Help: "Design sessions currently held in memory.",
	})
	reg.MustRegister(uploads, exports, exportDuration, violations, submissions, sessions)
	return &EditorMetrics{
		uploads:        uploads,
		exports:        exports,
		exportDuration: exportDuration,
		violations:     violations,
		submissions:    submissions,
		sessions:       sessions,
	}
}

// UploadAccepted counts an accepted upload by detected MIME type.
func (m *EditorMetrics) UploadAccepted(mimeType string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(outcomeAccepted, normalizeLabel(mimeType)).Inc()
}

// UploadRejected counts an upload rejected by rule.
func (m *EditorMetrics) UploadRejected(rule string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(outcomeRejected, normalizeLabel(rule)).Inc()
}

// ViewExported counts the outcome of a single view export.
func (m *EditorMetrics) ViewExported(view enums.View, err error) {
	if m == nil || m.exports == nil {
		return
	}
	m.exports.WithLabelValues(normalizeLabel(string(view)), outcomeOf(err)).Inc()
}

// ObserveExport records how long an export took.
func (m *EditorMetrics) ObserveExport(purpose string, duration time.Duration) {
	if m == nil || m.exportDuration == nil {
		return
	}
	m.exportDuration.WithLabelValues(normalizeLabel(purpose)).Observe(duration.Seconds())
}

// ViolationFlagged counts an element left violating at gesture end.
func (m *EditorMetrics) ViolationFlagged(view enums.View) {
	if m == nil || m.violations == nil {
		return
	}
	m.violations.WithLabelValues(normalizeLabel(string(view))).Inc()
}

// Submitted counts a submission attempt.
func (m *EditorMetrics) Submitted(err error) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(outcomeOf(err)).Inc()
}

// SessionsActive sets the number of live sessions.
func (m *EditorMetrics) SessionsActive(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
