package tracking

import (
	"context"

	"github.com/user/sitekit/internal/entity"
)

// CommunityTracker reports engagement with the community surfaces.
type CommunityTracker struct {
	provider *Provider
}

// NewCommunityTracker binds a tracker to p.
func NewCommunityTracker(p *Provider) *CommunityTracker {
	return &CommunityTracker{provider: p}
}

// TrackEngagement records a generic engagement, e.g. ("testimonial", "expand").
func (t *CommunityTracker) TrackEngagement(ctx context.Context, kind, detail string) {
	label := kind
	if detail != "" {
		label += ": " + detail
	}
	t.track(ctx, entity.ActionClick, entity.CategoryEngagement, label)
}

// TrackDiscordClick records a click on a Discord invite placed at source.
func (t *CommunityTracker) TrackDiscordClick(ctx context.Context, source string) {
	t.track(ctx, entity.ActionClick, entity.CategoryCommunity, "discord: "+source)
}

// TrackForumInteraction records an interaction with a forum topic.
func (t *CommunityTracker) TrackForumInteraction(ctx context.Context, topic, interaction string) {
	t.track(ctx, entity.ActionView, entity.CategoryCommunity, "forum: "+topic+" - "+interaction)
}

// TrackSubscription records a subscription to a mailing list or channel.
func (t *CommunityTracker) TrackSubscription(ctx context.Context, list string) {
	t.track(ctx, entity.ActionSubscribe, entity.CategoryCommunity, "subscription: "+list)
}

func (t *CommunityTracker) track(ctx context.Context, action entity.Action, category entity.Category, label string) {
	if !t.provider.IsEnabled() {
		return
	}
	t.provider.TrackEvent(ctx, entity.Event{Action: action, Category: category, Label: label})
}
