package handler

import (
	"fmt"
	"net/http"

	"github.com/mindtrace/mindtrace/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "mindtrace_entries_created_total %d\n", snap.EntriesCreated)

	writeMetric(w, "mindtrace_wizards_opened_total %d\n", snap.WizardsOpened)
	writeMetric(w, "mindtrace_wizards_completed_total{mode=\"plain\"} %d\n", snap.WizardsCompletedPlain)
	writeMetric(w, "mindtrace_wizards_completed_total{mode=\"ai\"} %d\n", snap.WizardsCompletedAI)

	writeMetric(w, "mindtrace_analyses_served_total{source=\"gemini\"} %d\n", snap.AnalysesServedGemini)
	writeMetric(w, "mindtrace_analyses_served_total{source=\"fallback\"} %d\n", snap.AnalysesServedFallback)

	writeMetric(w, "mindtrace_session_refreshes_total{status=\"success\"} %d\n", snap.SessionRefreshSuccess)
	writeMetric(w, "mindtrace_session_refreshes_total{status=\"failed\"} %d\n", snap.SessionRefreshFailed)

	writeMetric(w, "mindtrace_snapshot_refreshes_total{status=\"success\"} %d\n", snap.SnapshotRefreshSuccess)
	writeMetric(w, "mindtrace_snapshot_refreshes_total{status=\"stale\"} %d\n", snap.SnapshotRefreshStale)
	writeMetric(w, "mindtrace_snapshot_refreshes_total{status=\"failed\"} %d\n", snap.SnapshotRefreshFailed)

	writeMetric(w, "mindtrace_reconcile_duration_seconds_count %d\n", snap.ReconcileDurationCount)
	writeMetric(w, "mindtrace_reconcile_duration_seconds_sum %.6f\n", float64(snap.ReconcileDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
