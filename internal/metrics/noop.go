package metrics

import "time"

// NoopRecorder discards all metrics.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards everything.
func NewNoop() *NoopRecorder {
	return &NoopRecorder{}
}

func (NoopRecorder) IncEntryCreated()                            {}
func (NoopRecorder) IncWizardOpened()                            {}
func (NoopRecorder) IncWizardCompleted(mode string)              {}
func (NoopRecorder) IncAnalysisServed(source string)             {}
func (NoopRecorder) IncSessionRefresh(status string)             {}
func (NoopRecorder) IncSnapshotRefresh(status string)            {}
func (NoopRecorder) ObserveReconcileDuration(time.Duration)      {}
