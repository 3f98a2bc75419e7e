package scrollspy

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// Options configures a View.
type Options struct {
	Threshold float64
	// FollowScroll lets visibility changes move the highlighted nav item.
	FollowScroll bool
	Logger       *zap.Logger
	// OnNavigate and OnReveal are called outside the view lock.
	OnNavigate func(viewID string, id section.ID)
	OnReveal   func(viewID string, id section.ID)
}

// View is the hosting owner of one page view's UI state. HTTP handlers and
// the observation loop reach the state only through a View, which applies
// one mutation at a time.
type View struct {
	ID string

	mu         sync.Mutex
	state      *State
	controller *Controller
	tracker    *Tracker
	follow     bool
	revealed   map[section.ID]bool
	lastSeen   time.Time

	// clicked holds the last navigation target while it owns the highlight.
	// arrived is set once it has been reported visible.
	clicked section.ID
	arrived bool

	onNavigate func(string, section.ID)
	onReveal   func(string, section.ID)
}

// NewView mounts a view for a page rendering the given regions.
func NewView(id string, regions []section.ID, opts Options) *View {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracker := NewTracker(regions, opts.Threshold, logger.With(zap.String("view", id)))
	return &View{
		ID:         id,
		state:      NewState(),
		controller: NewController(tracker.Regions()),
		tracker:    tracker,
		follow:     opts.FollowScroll,
		revealed:   make(map[section.ID]bool),
		lastSeen:   time.Now(),
		onNavigate: opts.OnNavigate,
		onReveal:   opts.OnReveal,
	}
}

// Regions returns the sections this view renders and observes.
func (v *View) Regions() []section.ID { return v.tracker.Regions() }

// Snapshot returns a copy of the current state.
func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Snapshot()
}

// Touch records activity on the view.
func (v *View) Touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

// LastSeen returns the time of the last recorded activity.
func (v *View) LastSeen() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastSeen
}

// Navigate runs NavigateToSection against the view's state.
func (v *View) Navigate(id section.ID) (ScrollIntent, State, error) {
	v.mu.Lock()
	intent, err := v.controller.NavigateToSection(v.state, id)
	if err == nil && v.follow {
		v.clicked = id
		v.arrived = v.state.Visibility[id]
	}
	snap := v.state.Snapshot()
	v.mu.Unlock()

	if err != nil {
		return ScrollIntent{}, snap, err
	}
	if v.onNavigate != nil {
		v.onNavigate(v.ID, id)
	}
	return intent, snap, nil
}

// ToggleMobileMenu flips the menu flag and returns the new state.
func (v *View) ToggleMobileMenu() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.controller.ToggleMobileMenu(v.state)
	return v.state.Snapshot()
}

// Apply merges visibility updates into the state. With scroll-follow on, the
// highlighted section becomes the topmost visible one. A clicked section keeps
// the highlight while the scroll is heading to it and for as long as it stays
// visible afterwards.
func (v *View) Apply(updates []Update) State {
	v.mu.Lock()
	v.state.Visibility = Reduce(v.state.Visibility, updates)

	var fresh []section.ID
	for _, u := range updates {
		if u.Visible && !v.revealed[u.ID] {
			v.revealed[u.ID] = true
			fresh = append(fresh, u.ID)
		}
	}

	if v.clicked != "" {
		switch {
		case v.state.Visibility[v.clicked]:
			v.arrived = true
		case v.arrived:
			v.clicked, v.arrived = "", false
		}
	}
	if v.follow && v.clicked == "" {
		if id, ok := topmostVisible(v.state.Visibility); ok {
			v.state.ActiveSection = id
		}
	}
	snap := v.state.Snapshot()
	v.mu.Unlock()

	if v.onReveal != nil {
		for _, id := range fresh {
			v.onReveal(v.ID, id)
		}
	}
	return snap
}

// Observe runs the tracker against obs, applying each batch and passing the
// resulting state to publish. It returns when ctx ends or obs stops.
func (v *View) Observe(ctx context.Context, obs Observer, publish func(State)) error {
	return v.tracker.Run(ctx, obs, func(updates []Update) {
		snap := v.Apply(updates)
		if publish != nil {
			publish(snap)
		}
	})
}

func topmostVisible(vis Visibility) (section.ID, bool) {
	for _, id := range section.All() {
		if vis[id] {
			return id, true
		}
	}
	return "", false
}
