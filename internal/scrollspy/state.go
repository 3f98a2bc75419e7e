// Package scrollspy tracks which page sections are in view and which one the
// navigation bar highlights.
//
// All state lives in an explicitly owned State value. The operations in this
// package take that value by reference; nothing here is package-global.
package scrollspy

import (
	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// Visibility maps a section to whether it currently meets the visibility
// threshold. A missing key reads as not visible.
type Visibility map[section.ID]bool

// Clone returns an independent copy of v.
func (v Visibility) Clone() Visibility {
	out := make(Visibility, len(v))
	for id, visible := range v {
		out[id] = visible
	}
	return out
}

// State is the UI state of one page view.
type State struct {
	ActiveSection  section.ID `json:"active"`
	MobileMenuOpen bool       `json:"menu_open"`
	Visibility     Visibility `json:"visibility"`
}

// NewState returns the initial state: home active, menu closed, nothing seen.
func NewState() *State {
	return &State{
		ActiveSection: section.Home,
		Visibility:    Visibility{},
	}
}

// Snapshot returns a copy of s that shares no memory with it.
func (s *State) Snapshot() State {
	return State{
		ActiveSection:  s.ActiveSection,
		MobileMenuOpen: s.MobileMenuOpen,
		Visibility:     s.Visibility.Clone(),
	}
}
