package insight

import (
	"context"
	"log/slog"

	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
)

// Service wraps an Analyzer with the fallback degradation. Analyze
// never fails: when the analyzer is absent or errors, the caller gets
// the static payload and the source tells them which one they got.
type Service struct {
	analyzer Analyzer
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewService creates an insight service. analyzer may be nil, which
// pins every response to the fallback.
func NewService(analyzer Analyzer, rec metrics.Recorder, logger *slog.Logger) *Service {
	if rec == nil {
		rec = metrics.NewNoop()
	}
	return &Service{
		analyzer: analyzer,
		metrics:  rec,
		logger:   logger,
	}
}

// Analyze returns an analysis for the entry plus its source, either
// SourceGemini or SourceFallback.
func (s *Service) Analyze(ctx context.Context, entry *model.Entry) (*model.Analysis, string) {
	if s.analyzer == nil {
		s.metrics.IncAnalysisServed(SourceFallback)
		return Fallback(), SourceFallback
	}

	analysis, err := s.analyzer.Analyze(ctx, entry)
	if err != nil {
		s.logger.Warn("analysis degraded to fallback",
			slog.String("entry_id", entry.ID),
			slog.String("error", err.Error()),
		)
		s.metrics.IncAnalysisServed(SourceFallback)
		return Fallback(), SourceFallback
	}

	s.metrics.IncAnalysisServed(SourceGemini)
	return analysis, SourceGemini
}
