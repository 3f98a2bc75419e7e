package scrollspy

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// DefaultThreshold is the fraction of a section's area that must be inside
// the viewport for it to count as visible.
const DefaultThreshold = 0.3

// ErrObservationUnsupported is returned by an Observer whose host cannot
// report intersections at all.
var ErrObservationUnsupported = errors.New("intersection observation unsupported")

// Entry is one intersection report: the fraction of a region in view.
type Entry struct {
	ID    section.ID `json:"id"`
	Ratio float64    `json:"ratio"`
}

// Batch is a group of entries delivered together by the host.
type Batch []Entry

// Update sets the visibility of a single section.
type Update struct {
	ID      section.ID
	Visible bool
}

// Observer is the host facility that reports intersections for registered
// regions. Observe starts delivery; Disconnect releases every observation
// handle and must be safe to call once delivery has ended.
type Observer interface {
	Observe(ctx context.Context, ids []section.ID) (<-chan Batch, error)
	Disconnect() error
}

// Tracker turns raw intersection reports into visibility updates.
type Tracker struct {
	threshold float64
	regions   []section.ID
	known     map[section.ID]bool
	logger    *zap.Logger
}

// NewTracker registers every recognized id in regions. Unknown ids are
// skipped, as are duplicates. A threshold outside (0, 1] falls back to
// DefaultThreshold.
func NewTracker(regions []section.ID, threshold float64, logger *zap.Logger) *Tracker {
	if !(threshold > 0 && threshold <= 1) {
		threshold = DefaultThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	t := &Tracker{
		threshold: threshold,
		known:     make(map[section.ID]bool, len(regions)),
		logger:    logger,
	}
	for _, id := range regions {
		if !id.Valid() || t.known[id] {
			continue
		}
		t.known[id] = true
		t.regions = append(t.regions, id)
	}
	return t
}

// Threshold returns the visible fraction the tracker requires.
func (t *Tracker) Threshold() float64 { return t.threshold }

// Regions returns the registered section ids in registration order.
func (t *Tracker) Regions() []section.ID {
	out := make([]section.ID, len(t.regions))
	copy(out, t.regions)
	return out
}

// Classify converts a batch into updates, dropping entries for regions that
// were never registered.
func (t *Tracker) Classify(b Batch) []Update {
	updates := make([]Update, 0, len(b))
	for _, e := range b {
		if !t.known[e.ID] {
			t.logger.Debug("ignoring unregistered region", zap.String("section", string(e.ID)))
			continue
		}
		updates = append(updates, Update{ID: e.ID, Visible: e.Ratio >= t.threshold})
	}
	return updates
}

// AllVisible marks every registered region visible. It is the fallback when
// the host cannot observe intersections.
func (t *Tracker) AllVisible() []Update {
	updates := make([]Update, 0, len(t.regions))
	for _, id := range t.regions {
		updates = append(updates, Update{ID: id, Visible: true})
	}
	return updates
}

// Reduce merges updates into current and returns the result. current is
// never modified; entries not named in updates carry over unchanged.
func Reduce(current Visibility, updates []Update) Visibility {
	next := current.Clone()
	for _, u := range updates {
		if !u.ID.Valid() {
			continue
		}
		next[u.ID] = u.Visible
	}
	return next
}

// Run observes the registered regions and hands each classified batch to
// apply until ctx is done or the observer stops delivering. The observer is
// disconnected before Run returns, except when it reports
// ErrObservationUnsupported, in which case it never registered anything.
// If observation cannot start, every region is reported visible once and Run
// returns nil.
func (t *Tracker) Run(ctx context.Context, obs Observer, apply func([]Update)) error {
	batches, err := obs.Observe(ctx, t.Regions())
	if err != nil {
		if errors.Is(err, ErrObservationUnsupported) {
			t.logger.Info("intersection observation unavailable, revealing all sections")
			apply(t.AllVisible())
			return nil
		}
		t.logger.Warn("intersection observation failed to start, revealing all sections", zap.Error(err))
		apply(t.AllVisible())
		t.disconnect(obs)
		return nil
	}
	defer t.disconnect(obs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-batches:
			if !ok {
				return nil
			}
			if updates := t.Classify(b); len(updates) > 0 {
				apply(updates)
			}
		}
	}
}

func (t *Tracker) disconnect(obs Observer) {
	if err := obs.Disconnect(); err != nil {
		t.logger.Debug("observer disconnect", zap.Error(err))
	}
}
