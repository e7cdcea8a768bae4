package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntriesCreated           uint64
	WizardsOpened            uint64
	WizardsCompletedPlain    uint64
	WizardsCompletedAI       uint64
	AnalysesServedGemini     uint64
	AnalysesServedFallback   uint64
	SessionRefreshSuccess    uint64
	SessionRefreshFailed     uint64
	SnapshotRefreshSuccess   uint64
	SnapshotRefreshStale     uint64
	SnapshotRefreshFailed    uint64
	ReconcileDurationCount   uint64
	ReconcileDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory.
type InMemoryRecorder struct {
	entriesCreated           uint64
	wizardsOpened            uint64
	wizardsCompletedPlain    uint64
	wizardsCompletedAI       uint64
	analysesServedGemini     uint64
	analysesServedFallback   uint64
	sessionRefreshSuccess    uint64
	sessionRefreshFailed     uint64
	snapshotRefreshSuccess   uint64
	snapshotRefreshStale     uint64
	snapshotRefreshFailed    uint64
	reconcileDurationCount   uint64
	reconcileDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		EntriesCreated:           atomic.LoadUint64(&m.entriesCreated),
		WizardsOpened:            atomic.LoadUint64(&m.wizardsOpened),
		WizardsCompletedPlain:    atomic.LoadUint64(&m.wizardsCompletedPlain),
		WizardsCompletedAI:       atomic.LoadUint64(&m.wizardsCompletedAI),
		AnalysesServedGemini:     atomic.LoadUint64(&m.analysesServedGemini),
		AnalysesServedFallback:   atomic.LoadUint64(&m.analysesServedFallback),
		SessionRefreshSuccess:    atomic.LoadUint64(&m.sessionRefreshSuccess),
		SessionRefreshFailed:     atomic.LoadUint64(&m.sessionRefreshFailed),
		SnapshotRefreshSuccess:   atomic.LoadUint64(&m.snapshotRefreshSuccess),
		SnapshotRefreshStale:     atomic.LoadUint64(&m.snapshotRefreshStale),
		SnapshotRefreshFailed:    atomic.LoadUint64(&m.snapshotRefreshFailed),
		ReconcileDurationCount:   atomic.LoadUint64(&m.reconcileDurationCount),
		ReconcileDurationTotalNs: atomic.LoadInt64(&m.reconcileDurationTotalNs),
	}
}

// IncEntryCreated increments the entry counter.
func (m *InMemoryRecorder) IncEntryCreated() {
	atomic.AddUint64(&m.entriesCreated, 1)
}

// IncWizardOpened increments the wizard open counter.
func (m *InMemoryRecorder) IncWizardOpened() {
	atomic.AddUint64(&m.wizardsOpened, 1)
}

// IncWizardCompleted increments the wizard completion counter by mode.
func (m *InMemoryRecorder) IncWizardCompleted(mode string) {
	if mode == "ai" {
		atomic.AddUint64(&m.wizardsCompletedAI, 1)
		return
	}
	atomic.AddUint64(&m.wizardsCompletedPlain, 1)
}

// IncAnalysisServed increments the analysis counter by source.
func (m *InMemoryRecorder) IncAnalysisServed(source string) {
	if source == "gemini" {
		atomic.AddUint64(&m.analysesServedGemini, 1)
		return
	}
	atomic.AddUint64(&m.analysesServedFallback, 1)
}

// IncSessionRefresh increments the session refresh counter by status.
func (m *InMemoryRecorder) IncSessionRefresh(status string) {
	if status == "success" {
		atomic.AddUint64(&m.sessionRefreshSuccess, 1)
		return
	}
	atomic.AddUint64(&m.sessionRefreshFailed, 1)
}

// IncSnapshotRefresh increments the snapshot refresh counter by status.
func (m *InMemoryRecorder) IncSnapshotRefresh(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.snapshotRefreshSuccess, 1)
	case "stale":
		atomic.AddUint64(&m.snapshotRefreshStale, 1)
	default:
		atomic.AddUint64(&m.snapshotRefreshFailed, 1)
	}
}

// ObserveReconcileDuration records one reconcile duration.
func (m *InMemoryRecorder) ObserveReconcileDuration(duration time.Duration) {
	atomic.AddUint64(&m.reconcileDurationCount, 1)
	atomic.AddInt64(&m.reconcileDurationTotalNs, duration.Nanoseconds())
}
