package tracking

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sitekit/internal/entity"
)

func TestDisabledProviderNeverReachesSink(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	sink := NewSink(SinkOptions{MeasurementID: "G-TEST"})
	sink.Attach(rec)

	collector := &recorder{}
	p := NewProvider(ProviderOptions{Enabled: false, Sink: sink, Collector: collector})
	require.NoError(t, p.Mount(ctx))

	p.RouteChanged(ctx, "/lessons", "tier=1")
	p.TrackNavigation(ctx, "/pricing")
	p.TrackContentView(ctx, "blog", "Choosing a commissary")
	p.TrackLessonStart(ctx, "l1", "Permits")
	p.TrackLessonComplete(ctx, "l1", "Permits")
	p.TrackResourceDownload(ctx, "Menu template", "pdf")
	p.TrackConversion(ctx, "newsletter", nil)

	page := NewPage()
	NewLessonTracker(p, page).Mount(ctx, "l2", "Menus")
	NewResourceTracker(p).TrackDownload(ctx, "pdf", "Menu template")
	NewCommunityTracker(p).TrackDiscordClick(ctx, "footer")
	page.Unload(ctx)

	assert.Empty(t, rec.all())
	assert.Empty(t, collector.all())
	assert.Equal(t, StateUninitialized, p.State())
	assert.False(t, p.IsLoaded())
	assert.False(t, p.IsEnabled())
}

func TestProviderMountWithCollectorLoads(t *testing.T) {
	ctx := context.Background()
	collector := &recorder{}
	p := NewProvider(ProviderOptions{Enabled: true, MeasurementID: "G-TEST", Collector: collector})

	require.NoError(t, p.Mount(ctx))
	assert.Equal(t, StateLoaded, p.State())

	p.RouteChanged(ctx, "/lessons/permits", "")
	p.RouteChanged(ctx, "/lessons", "tier=2")

	assert.Equal(t, []string{"/lessons/permits", "/lessons?tier=2"}, collector.pageViews())
	assert.Equal(t, []string{entity.CommandJS, entity.CommandConsent, entity.CommandConfig}, names(collector.all()[:3]))
}

func TestProviderMountsOnce(t *testing.T) {
	ctx := context.Background()
	collector := &recorder{}
	p := NewProvider(ProviderOptions{Enabled: true, MeasurementID: "G-TEST", Collector: collector})

	require.NoError(t, p.Mount(ctx))
	require.NoError(t, p.Mount(ctx))

	js := 0
	for _, cmd := range collector.all() {
		if cmd.Name == entity.CommandJS {
			js++
		}
	}
	assert.Equal(t, 1, js)
}

func TestProviderQueuesUntilCollectorAttaches(t *testing.T) {
	ctx := context.Background()
	p := NewProvider(ProviderOptions{Enabled: true, MeasurementID: "G-TEST"})
	require.NoError(t, p.Mount(ctx))
	assert.Equal(t, StateBootstrapping, p.State())

	// Not loaded yet: page views are suppressed, events wait in the queue.
	p.RouteChanged(ctx, "/too-early", "")
	var want []string
	for i := 0; i < 10; i++ {
		label := fmt.Sprintf("dest-%d", i)
		want = append(want, "click|navigation|"+label)
		p.TrackNavigation(ctx, label)
	}

	collector := &recorder{}
	require.NoError(t, p.AttachCollector(ctx, collector))
	assert.True(t, p.IsLoaded())

	assert.Equal(t, want, collector.events())
	assert.Empty(t, collector.pageViews())

	p.RouteChanged(ctx, "/now", "")
	assert.Equal(t, []string{"/now"}, collector.pageViews())
}

func TestProviderAttachBeforeMountFails(t *testing.T) {
	p := NewProvider(ProviderOptions{Enabled: true})
	err := p.AttachCollector(context.Background(), &recorder{})
	assert.Error(t, err)
	assert.Equal(t, StateUninitialized, p.State())
}

func TestProviderTrackerLabels(t *testing.T) {
	ctx := context.Background()
	collector := &recorder{}
	p := NewProvider(ProviderOptions{Enabled: true, MeasurementID: "G-TEST", Collector: collector})
	require.NoError(t, p.Mount(ctx))

	p.TrackNavigation(ctx, "/pricing")
	p.TrackContentView(ctx, "blog", "Choosing a commissary")
	p.TrackLessonStart(ctx, "l1", "Permits")
	p.TrackLessonComplete(ctx, "l1", "Permits")
	p.TrackResourceDownload(ctx, "Menu template", "pdf")
	p.TrackConversion(ctx, "newsletter", entity.IntValue(5))

	assert.Equal(t, []string{
		"click|navigation|/pricing",
		"view|content|blog: Choosing a commissary",
		"start|lesson|l1: Permits",
		"complete|lesson|l1: Permits",
		"download|resource|pdf: Menu template",
		"subscribe|conversion|newsletter",
	}, collector.events())

	last := collector.all()[len(collector.all())-1]
	assert.Equal(t, int64(5), last.Params["value"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "bootstrapping", StateBootstrapping.String())
	assert.Equal(t, "loaded", StateLoaded.String())
	assert.Equal(t, "State(9)", State(9).String())
}
