package tracking

import (
	"context"
	"sync"
)

// Page is the lifecycle of one page session. Listeners registered with
// OnUnload run once, in registration order, when Unload is called.
type Page struct {
	mu        sync.Mutex
	nextID    int
	order     []int
	listeners map[int]func(context.Context)
	unloaded  bool
}

// NewPage creates a page with no listeners.
func NewPage() *Page {
	return &Page{listeners: make(map[int]func(context.Context))}
}

// OnUnload registers fn and returns a function that removes it.
func (p *Page) OnUnload(fn func(context.Context)) (remove func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.order = append(p.order, id)
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// Unload fires every registered listener. Later calls do nothing.
func (p *Page) Unload(ctx context.Context) {
	p.mu.Lock()
	if p.unloaded {
		p.mu.Unlock()
		return
	}
	p.unloaded = true
	var fns []func(context.Context)
	for _, id := range p.order {
		if fn, ok := p.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	p.listeners = make(map[int]func(context.Context))
	p.order = nil
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}
