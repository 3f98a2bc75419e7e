package web

import (
	"sync"
	"time"

	"github.com/FathurrahmanNasution/portfolio/internal/scrollspy"
)

type viewEntry struct {
	view     *scrollspy.View
	attached bool
}

// viewRegistry holds the page views currently mounted in some browser tab.
type viewRegistry struct {
	mu    sync.Mutex
	views map[string]*viewEntry
	ttl   time.Duration
}

func newViewRegistry(ttl time.Duration) *viewRegistry {
	return &viewRegistry{views: make(map[string]*viewEntry), ttl: ttl}
}

func (r *viewRegistry) add(v *scrollspy.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID] = &viewEntry{view: v}
}

func (r *viewRegistry) get(id string) (*scrollspy.View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, false
	}
	return e.view, true
}

// attach marks a view as having a live observation socket. It fails if the
// view is unknown or already attached.
func (r *viewRegistry) attach(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok || e.attached {
		return false
	}
	e.attached = true
	return true
}

func (r *viewRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, id)
}

func (r *viewRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// sweep drops detached views idle for longer than the TTL.
func (r *viewRegistry) sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, e := range r.views {
		if e.attached {
			continue
		}
		if now.Sub(e.view.LastSeen()) > r.ttl {
			delete(r.views, id)
			removed++
		}
	}
	return removed
}
