package scrollspy

import (
	"errors"
	"fmt"

	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

// ErrSectionNotFound is returned when navigation targets a region that is not
// on the page.
var ErrSectionNotFound = errors.New("section not found")

// ScrollIntent asks the client to bring a region's top edge to the top of the
// viewport.
type ScrollIntent struct {
	Target   section.ID `json:"target"`
	Behavior string     `json:"behavior"`
	Block    string     `json:"block"`
}

// Controller owns the navigation operations for a page with a given set of
// rendered regions.
type Controller struct {
	regions map[section.ID]bool
}

// NewController returns a controller for the given rendered regions.
func NewController(regions []section.ID) *Controller {
	c := &Controller{regions: make(map[section.ID]bool, len(regions))}
	for _, id := range regions {
		if id.Valid() {
			c.regions[id] = true
		}
	}
	return c
}

// Has reports whether id is rendered on the page.
func (c *Controller) Has(id section.ID) bool {
	return c.regions[id]
}

// NavigateToSection makes id the active section, closes the mobile menu and
// returns the smooth scroll the client should perform. If id is not on the
// page, s is left untouched and ErrSectionNotFound is returned.
func (c *Controller) NavigateToSection(s *State, id section.ID) (ScrollIntent, error) {
	if !c.regions[id] {
		return ScrollIntent{}, fmt.Errorf("%w: %q", ErrSectionNotFound, id)
	}
	s.ActiveSection = id
	s.MobileMenuOpen = false
	return ScrollIntent{Target: id, Behavior: "smooth", Block: "start"}, nil
}

// ToggleMobileMenu flips the mobile menu flag.
func (c *Controller) ToggleMobileMenu(s *State) {
	s.MobileMenuOpen = !s.MobileMenuOpen
}
