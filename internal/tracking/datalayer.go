package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/pkg/metrics"
)

// DataLayer is the FIFO command queue shared by the sink and the vendor
// collector. Commands pushed before Attach wait in the queue; Attach drains
// them in order and every later Push is delivered right away.
type DataLayer struct {
	queue   repository.CommandQueue
	logger  *zap.Logger
	metrics *metrics.Metrics

	// mu serialises draining so delivery order matches queue order.
	mu        sync.Mutex
	collector repository.Collector
}

// NewDataLayer wraps queue. logger and m may be nil.
func NewDataLayer(queue repository.CommandQueue, logger *zap.Logger, m *metrics.Metrics) *DataLayer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataLayer{queue: queue, logger: logger, metrics: m}
}

// Push enqueues cmd and, once a collector is attached, drains the queue.
func (d *DataLayer) Push(ctx context.Context, cmd entity.Command) error {
	if err := d.queue.Push(ctx, cmd); err != nil {
		return fmt.Errorf("push %s command: %w", cmd.Name, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.collector == nil {
		d.recordDepth(ctx)
		return nil
	}
	return d.drainLocked(ctx)
}

// Attach installs the collector and replays every queued command in FIFO order.
func (d *DataLayer) Attach(ctx context.Context, collector repository.Collector) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.collector = collector
	return d.drainLocked(ctx)
}

// Attached reports whether a collector is draining the queue.
func (d *DataLayer) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.collector != nil
}

// Pending returns the number of undelivered commands.
func (d *DataLayer) Pending(ctx context.Context) int64 {
	n, err := d.queue.Size(ctx)
	if err != nil {
		d.logger.Warn("failed to read dataLayer size", zap.Error(err))
		return 0
	}
	return n
}

func (d *DataLayer) drainLocked(ctx context.Context) error {
	var errs []error
	for {
		cmd, err := d.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, repository.ErrQueueEmpty) {
				break
			}
			errs = append(errs, fmt.Errorf("pop queued command: %w", err))
			break
		}
		// A failed delivery is not retried; the next command still goes out.
		if err := d.collector.Collect(ctx, cmd); err != nil {
			d.logger.Warn("collector rejected command",
				zap.String("name", cmd.Name),
				zap.String("target", cmd.Target),
				zap.Error(err),
			)
			d.metrics.IncEvent(cmd.Name, "failed")
			errs = append(errs, err)
		}
	}
	d.recordDepth(ctx)
	return errors.Join(errs...)
}

func (d *DataLayer) recordDepth(ctx context.Context) {
	if d.metrics == nil {
		return
	}
	if n, err := d.queue.Size(ctx); err == nil {
		d.metrics.SetQueueDepth(n)
	}
}
