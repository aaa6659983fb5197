// Package maintenance runs periodic housekeeping on the delivery log.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/dilutionwise/internal/metrics"
)

// DeliveryPruner is the storage operation the pruner needs.
type DeliveryPruner interface {
	DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Pruner deletes delivery records older than a retention window on a cron schedule.
type Pruner struct {
	store     DeliveryPruner
	retention time.Duration
	metrics   *metrics.Metrics
	cron      *cron.Cron
	now       func() time.Time
	timeout   time.Duration
}

// NewPruner schedules pruning with a standard five-field cron spec or a
// descriptor such as @daily. Schedules are evaluated in UTC.
func NewPruner(store DeliveryPruner, retention time.Duration, schedule string, m *metrics.Metrics) (*Pruner, error) {
	if retention <= 0 {
		return nil, fmt.Errorf("retention must be positive, got %s", retention)
	}

	p := &Pruner{
		store:     store,
		retention: retention,
		metrics:   m,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		now:       time.Now,
		timeout:   time.Minute,
	}

	if _, err := p.cron.AddFunc(schedule, p.runScheduled); err != nil {
		return nil, fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}
	return p, nil
}

// PruneOnce deletes every delivery older than the retention window.
func (p *Pruner) PruneOnce(ctx context.Context) (int64, error) {
	cutoff := p.now().Add(-p.retention)
	n, err := p.store.DeleteDeliveriesBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune deliveries: %w", err)
	}

	p.metrics.DeliveriesPruned.Add(float64(n))
	slog.Info("Pruned delivery log", "deleted", n, "cutoff", cutoff.UTC().Format(time.RFC3339))
	return n, nil
}

func (p *Pruner) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if _, err := p.PruneOnce(ctx); err != nil {
		slog.Error("Scheduled prune failed", "error", err)
	}
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running prune to finish.
func (p *Pruner) Run(ctx context.Context) error {
	p.cron.Start()
	slog.Info("Delivery pruner started", "retention", p.retention, "next", p.Next())

	<-ctx.Done()
	<-p.cron.Stop().Done()
	slog.Info("Delivery pruner stopped")
	return nil
}

// Next returns the next scheduled run, or the zero time before Run.
func (p *Pruner) Next() time.Time {
	entries := p.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
