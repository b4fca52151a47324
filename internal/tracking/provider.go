package tracking

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/user/sitekit/internal/adapter/memory"
	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
	"github.com/user/sitekit/pkg/metrics"
	"github.com/user/sitekit/pkg/utils"
)

// State is the per-page-load lifecycle of a Provider.
type State int32

const (
	StateUninitialized State = iota
	StateBootstrapping
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBootstrapping:
		return "bootstrapping"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// ProviderOptions configures a Provider. Enabled is fixed for the Provider's lifetime.
type ProviderOptions struct {
	Enabled       bool
	MeasurementID string
	// Queue backs the dataLayer; an in-memory queue is used when nil.
	Queue repository.CommandQueue
	// Collector is attached during Mount. When nil the Provider stays
	// bootstrapping until AttachCollector is called.
	Collector repository.Collector
	// Sink overrides the sink built from the other options.
	Sink    *Sink
	Debug   bool
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Provider owns the enabled/loaded lifecycle and exposes the bound tracking
// functions to whatever is handed a reference to it.
type Provider struct {
	enabled       bool
	measurementID string
	queue         repository.CommandQueue
	collector     repository.Collector
	sink          *Sink
	logger        *zap.Logger
	metrics       *metrics.Metrics

	mountOnce sync.Once
	mountErr  error
	state     atomic.Int32

	mu        sync.Mutex
	dataLayer *DataLayer
}

// NewProvider creates a Provider in the uninitialized state.
func NewProvider(opts ProviderOptions) *Provider {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	queue := opts.Queue
	if queue == nil {
		queue = memory.NewQueueRepo()
	}
	sink := opts.Sink
	if sink == nil {
		sink = NewSink(SinkOptions{
			MeasurementID: opts.MeasurementID,
			Debug:         opts.Debug,
			Logger:        logger,
			Metrics:       opts.Metrics,
		})
	}
	return &Provider{
		enabled:       opts.Enabled,
		measurementID: opts.MeasurementID,
		queue:         queue,
		collector:     opts.Collector,
		sink:          sink,
		logger:        logger,
		metrics:       opts.Metrics,
	}
}

// Mount bootstraps tracking once. A disabled Provider stays uninitialized and
// Mount is a no-op.
func (p *Provider) Mount(ctx context.Context) error {
	if !p.enabled {
		return nil
	}
	p.mountOnce.Do(func() {
		p.state.Store(int32(StateBootstrapping))

		dl, err := Bootstrap(ctx, p.queue, BootstrapOptions{
			MeasurementID: p.measurementID,
			Logger:        p.logger,
			Metrics:       p.metrics,
		})
		if err != nil {
			p.mountErr = err
			p.logger.Error("analytics bootstrap failed", zap.Error(err))
			return
		}
		p.mu.Lock()
		p.dataLayer = dl
		p.mu.Unlock()
		p.sink.Attach(dl)
		p.logger.Debug("analytics bootstrapped", zap.String("script", ScriptURL(p.measurementID)))

		if p.collector != nil {
			p.mountErr = p.AttachCollector(ctx, p.collector)
		}
	})
	return p.mountErr
}

// AttachCollector marks the vendor script as loaded: the queued commands are
// drained to c in order and the Provider becomes loaded. Delivery failures are
// returned but do not prevent the transition.
func (p *Provider) AttachCollector(ctx context.Context, c repository.Collector) error {
	p.mu.Lock()
	dl := p.dataLayer
	p.mu.Unlock()
	if dl == nil {
		return fmt.Errorf("attach collector: provider not bootstrapped (state %s)", p.State())
	}

	err := dl.Attach(ctx, c)
	p.state.Store(int32(StateLoaded))
	p.logger.Debug("analytics collector attached")
	if err != nil {
		return fmt.Errorf("drain dataLayer: %w", err)
	}
	return nil
}

// State returns the current lifecycle state.
func (p *Provider) State() State {
	return State(p.state.Load())
}

// IsEnabled reports the construction-time switch. Callers gate on it.
func (p *Provider) IsEnabled() bool {
	return p.enabled
}

// IsLoaded reports whether the vendor collector has been attached.
func (p *Provider) IsLoaded() bool {
	return p.State() == StateLoaded
}

// RouteChanged emits a page view for path and query, iff the Provider is
// both enabled and loaded.
func (p *Provider) RouteChanged(ctx context.Context, path, rawQuery string) {
	if !p.enabled || !p.IsLoaded() {
		return
	}
	p.sink.PageView(ctx, utils.PathWithQuery(path, rawQuery))
}

// TrackEvent is the generic tracking call the specialized trackers build on.
func (p *Provider) TrackEvent(ctx context.Context, ev entity.Event) {
	if !p.enabled {
		return
	}
	p.sink.TrackEvent(ctx, ev)
}

// TrackNavigation records a click towards destination.
func (p *Provider) TrackNavigation(ctx context.Context, destination string) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionClick,
		Category: entity.CategoryNavigation,
		Label:    destination,
	})
}

// TrackContentView records a view of a piece of content.
func (p *Provider) TrackContentView(ctx context.Context, contentType, title string) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionView,
		Category: entity.CategoryContent,
		Label:    contentType + ": " + title,
	})
}

// TrackLessonStart records the start of a lesson.
func (p *Provider) TrackLessonStart(ctx context.Context, lessonID, title string) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionStart,
		Category: entity.CategoryLesson,
		Label:    lessonID + ": " + title,
	})
}

// TrackLessonComplete records the completion of a lesson.
func (p *Provider) TrackLessonComplete(ctx context.Context, lessonID, title string) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionComplete,
		Category: entity.CategoryLesson,
		Label:    lessonID + ": " + title,
	})
}

// TrackResourceDownload records a download of a named resource.
func (p *Provider) TrackResourceDownload(ctx context.Context, name, resourceType string) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionDownload,
		Category: entity.CategoryResource,
		Label:    resourceType + ": " + name,
	})
}

// TrackConversion records a conversion such as a newsletter signup. value may be nil.
func (p *Provider) TrackConversion(ctx context.Context, kind string, value *int64) {
	p.TrackEvent(ctx, entity.Event{
		Action:   entity.ActionSubscribe,
		Category: entity.CategoryConversion,
		Label:    kind,
		Value:    value,
	})
}
