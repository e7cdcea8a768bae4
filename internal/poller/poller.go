// Package poller drives the periodic dashboard snapshot refresh on a
// cron schedule.
package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one refresh run.
type Job func(ctx context.Context) error

// Poller runs a Job at a fixed interval. Start replaces any previous
// schedule, so restarting never stacks timers, and Stop is idempotent.
type Poller struct {
	interval time.Duration
	job      Job
	logger   *slog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// New creates a poller. Intervals under a second are rounded up, since
// the schedule has second granularity.
func New(interval time.Duration, job Job, logger *slog.Logger) *Poller {
	if interval < time.Second {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		job:      job,
		logger:   logger,
	}
}

// Start begins the schedule and fires one run immediately so callers
// never wait a full interval for the first refresh. A running schedule
// is stopped and replaced, never doubled.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron != nil {
		<-p.cron.Stop().Done()
		p.cron = nil
	}

	c := cron.New(cron.WithSeconds())
	spec := fmt.Sprintf("@every %ds", int(p.interval.Seconds()))
	if _, err := c.AddFunc(spec, p.run); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	c.Start()
	p.cron = c

	go p.run()

	p.logger.Info("poller started", slog.Duration("interval", p.interval))
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
// Stopping an already-stopped poller is a no-op.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.cron = nil
	p.logger.Info("poller stopped")
}

// Running reports whether a schedule is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cron != nil
}

func (p *Poller) run() {
	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	if err := p.job(ctx); err != nil {
		p.logger.Error("poll run failed", slog.String("error", err.Error()))
	}
}
