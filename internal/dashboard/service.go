package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/mindtrace/mindtrace/internal/metrics"
	"github.com/mindtrace/mindtrace/internal/model"
)

// EntryLister provides the raw entry list the reconciler works from.
type EntryLister interface {
	ListEntries(ctx context.Context) ([]*model.Entry, error)
}

// SnapshotCache stores the serialized global report between refreshes.
type SnapshotCache interface {
	SetDashboardSnapshot(ctx context.Context, seq uint64, payload []byte, ttl time.Duration) (bool, error)
	GetDashboardSnapshot(ctx context.Context) ([]byte, error)
}

// Service builds dashboard reports on demand and keeps the cached
// global snapshot fresh.
type Service struct {
	entries   EntryLister
	snapshots SnapshotCache
	metrics   metrics.Recorder
	logger    *slog.Logger

	snapshotTTL time.Duration
	seq         atomic.Uint64
	now         func() time.Time
}

// NewService creates a dashboard service. snapshots may be nil, in
// which case Snapshot always rebuilds live.
func NewService(entries EntryLister, snapshots SnapshotCache, rec metrics.Recorder, logger *slog.Logger, snapshotTTL time.Duration) *Service {
	if rec == nil {
		rec = metrics.NewNoop()
	}
	return &Service{
		entries:     entries,
		snapshots:   snapshots,
		metrics:     rec,
		logger:      logger,
		snapshotTTL: snapshotTTL,
		now:         time.Now,
	}
}

// Report builds a dashboard scoped to the given identity. A nil
// identity yields the unscoped report.
func (s *Service) Report(ctx context.Context, identity *model.Identity) (*Report, error) {
	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	start := s.now()
	report := Build(entries, identity, start)
	s.metrics.ObserveReconcileDuration(s.now().Sub(start))
	return report, nil
}

// RefreshSnapshot rebuilds the unscoped report and stores it in the
// snapshot cache. Writes carry a monotonic sequence number; a refresh
// that finishes after a newer one is discarded as stale rather than
// overwriting it.
func (s *Service) RefreshSnapshot(ctx context.Context) error {
	seq := s.seq.Add(1)

	report, err := s.Report(ctx, nil)
	if err != nil {
		s.metrics.IncSnapshotRefresh("failed")
		return err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		s.metrics.IncSnapshotRefresh("failed")
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	written, err := s.snapshots.SetDashboardSnapshot(ctx, seq, payload, s.snapshotTTL)
	if err != nil {
		s.metrics.IncSnapshotRefresh("failed")
		return fmt.Errorf("store snapshot: %w", err)
	}
	if !written {
		s.metrics.IncSnapshotRefresh("stale")
		s.logger.Debug("dashboard snapshot discarded as stale", slog.Uint64("seq", seq))
		return nil
	}

	s.metrics.IncSnapshotRefresh("success")
	s.logger.Debug("dashboard snapshot refreshed",
		slog.Uint64("seq", seq),
		slog.Int("cards", len(report.Cards)),
	)
	return nil
}

// Snapshot returns the cached unscoped report, rebuilding live on a
// miss or when the cached payload does not decode.
func (s *Service) Snapshot(ctx context.Context) (*Report, error) {
	if s.snapshots != nil {
		data, err := s.snapshots.GetDashboardSnapshot(ctx)
		if err == nil && data != nil {
			var report Report
			if jsonErr := json.Unmarshal(data, &report); jsonErr == nil {
				return &report, nil
			}
			s.logger.Warn("cached dashboard snapshot is corrupt, rebuilding")
		}
	}
	return s.Report(ctx, nil)
}
