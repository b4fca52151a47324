package tracking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/pkg/metrics"
)

// Reporter receives commands from the sink. *DataLayer is the production
// implementation; tests substitute a recorder.
type Reporter interface {
	Push(ctx context.Context, cmd entity.Command) error
}

// SinkOptions configures a Sink.
type SinkOptions struct {
	MeasurementID string
	// Debug writes one human-readable log line per call.
	Debug   bool
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time
}

// Sink is the low-level tracking function. Until a Reporter is attached every
// call is dropped silently.
type Sink struct {
	measurementID string
	debug         bool
	logger        *zap.Logger
	metrics       *metrics.Metrics
	now           func() time.Time

	mu       sync.RWMutex
	reporter Reporter
}

// NewSink creates a sink with no reporter attached.
func NewSink(opts SinkOptions) *Sink {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Sink{
		measurementID: opts.MeasurementID,
		debug:         opts.Debug,
		logger:        logger,
		metrics:       opts.Metrics,
		now:           now,
	}
}

// Attach installs the reporter that subsequent calls write to.
func (s *Sink) Attach(r Reporter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reporter = r
}

// Attached reports whether calls currently reach a reporter.
func (s *Sink) Attached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reporter != nil
}

// TrackEvent records ev against the vendor backend.
func (s *Sink) TrackEvent(ctx context.Context, ev entity.Event) {
	params := map[string]any{"event_category": string(ev.Category)}
	if ev.Label != "" {
		params["event_label"] = ev.Label
	}
	if ev.Value != nil {
		params["value"] = *ev.Value
	}

	if s.debug {
		fields := []zap.Field{
			zap.String("action", string(ev.Action)),
			zap.String("category", string(ev.Category)),
		}
		if ev.Label != "" {
			fields = append(fields, zap.String("label", ev.Label))
		}
		if ev.Value != nil {
			fields = append(fields, zap.Int64("value", *ev.Value))
		}
		s.logger.Info("analytics event", fields...)
	}

	s.dispatch(ctx, "event", entity.Command{
		Name:     entity.CommandEvent,
		Target:   string(ev.Action),
		Params:   params,
		IssuedAt: s.now(),
	})
}

// PageView points the vendor backend's current page context at path.
func (s *Sink) PageView(ctx context.Context, path string) {
	if s.debug {
		s.logger.Info("analytics page view", zap.String("path", path))
	}
	s.dispatch(ctx, "page_view", entity.Command{
		Name:     entity.CommandConfig,
		Target:   s.measurementID,
		Params:   map[string]any{"page_path": path},
		IssuedAt: s.now(),
	})
}

func (s *Sink) dispatch(ctx context.Context, kind string, cmd entity.Command) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tracking call panicked", zap.String("kind", kind), zap.String("panic", fmt.Sprint(r)))
			s.metrics.IncEvent(kind, "failed")
		}
	}()

	s.mu.RLock()
	r := s.reporter
	s.mu.RUnlock()

	if r == nil {
		s.metrics.IncEvent(kind, "dropped")
		return
	}
	if err := r.Push(ctx, cmd); err != nil {
		s.logger.Debug("tracking call not delivered", zap.String("kind", kind), zap.Error(err))
		s.metrics.IncEvent(kind, "failed")
		return
	}
	s.metrics.IncEvent(kind, "queued")
}
