package tracking

import (
	"context"

	"github.com/user/sitekit/internal/entity"
)

// ResourceTracker reports interactions with downloadable resources
// (checklists, templates, guides). Labels read "<type>: <name>".
type ResourceTracker struct {
	provider *Provider
}

// NewResourceTracker binds a tracker to p.
func NewResourceTracker(p *Provider) *ResourceTracker {
	return &ResourceTracker{provider: p}
}

// TrackView records that a resource was viewed.
func (t *ResourceTracker) TrackView(ctx context.Context, resourceType, name string) {
	t.track(ctx, entity.ActionView, resourceLabel(resourceType, name))
}

// TrackDownload records that a resource was downloaded.
func (t *ResourceTracker) TrackDownload(ctx context.Context, resourceType, name string) {
	t.track(ctx, entity.ActionDownload, resourceLabel(resourceType, name))
}

// TrackShare records that a resource was shared on platform.
func (t *ResourceTracker) TrackShare(ctx context.Context, resourceType, name, platform string) {
	t.track(ctx, entity.ActionShare, resourceLabel(resourceType, name)+" ("+platform+")")
}

// TrackInteraction records any other interaction, e.g. "expand" or "copy".
func (t *ResourceTracker) TrackInteraction(ctx context.Context, resourceType, name, interaction string) {
	t.track(ctx, entity.ActionClick, resourceLabel(resourceType, name)+" - "+interaction)
}

func (t *ResourceTracker) track(ctx context.Context, action entity.Action, label string) {
	if !t.provider.IsEnabled() {
		return
	}
	t.provider.TrackEvent(ctx, entity.Event{
		Action:   action,
		Category: entity.CategoryResource,
		Label:    label,
	})
}

func resourceLabel(resourceType, name string) string {
	return resourceType + ": " + name
}
