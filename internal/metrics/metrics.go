// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Journal metrics
	IncEntryCreated()
	IncWizardOpened()
	IncWizardCompleted(mode string) // mode: "plain" or "ai"

	// AI analysis metrics
	IncAnalysisServed(source string) // source: "gemini" or "fallback"

	// Session gate metrics
	IncSessionRefresh(status string) // status: "success" or "failed"

	// Dashboard metrics
	IncSnapshotRefresh(status string) // status: "success", "stale", "failed"
	ObserveReconcileDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
