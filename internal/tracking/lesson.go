package tracking

import (
	"context"
	"sync"
)

// LessonTracker reports lesson views for one lesson page.
//
// Completion is reported when the page unloads while the lesson is mounted.
// That also counts an abandoned lesson as complete; the event is a proxy for
// "engaged, then left", not an actual completion signal.
type LessonTracker struct {
	provider *Provider
	page     *Page

	mu           sync.Mutex
	current      string
	mountGen     uint64
	removeUnload func()
}

// NewLessonTracker binds a tracker to a provider and the page it lives on.
func NewLessonTracker(p *Provider, page *Page) *LessonTracker {
	return &LessonTracker{provider: p, page: page}
}

// Mount fires content view and lesson start the first time lessonID is
// mounted and arms the unload listener. Mounting the lesson that is already
// mounted does nothing. The returned function unmounts that mount only; it
// is a no-op once another lesson has been mounted.
func (t *LessonTracker) Mount(ctx context.Context, lessonID, title string) (unmount func()) {
	if !t.provider.IsEnabled() {
		return func() {}
	}

	t.mu.Lock()
	if t.current == lessonID {
		gen := t.mountGen
		t.mu.Unlock()
		return t.unmounter(gen)
	}
	if t.removeUnload != nil {
		t.removeUnload()
	}
	t.current = lessonID
	t.mountGen++
	gen := t.mountGen
	t.removeUnload = t.page.OnUnload(func(ctx context.Context) {
		if t.provider.IsEnabled() {
			t.provider.TrackLessonComplete(ctx, lessonID, title)
		}
	})
	t.mu.Unlock()

	t.provider.TrackContentView(ctx, "lesson", title)
	t.provider.TrackLessonStart(ctx, lessonID, title)
	return t.unmounter(gen)
}

// Current returns the mounted lesson ID, or "" when none is mounted.
func (t *LessonTracker) Current() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// unmounter tears down the mount numbered gen, if it is still the active one.
func (t *LessonTracker) unmounter(gen uint64) func() {
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.current == "" || t.mountGen != gen {
			return
		}
		t.clearLocked()
	}
}

func (t *LessonTracker) clearLocked() {
	if t.removeUnload != nil {
		t.removeUnload()
		t.removeUnload = nil
	}
	t.current = ""
}
