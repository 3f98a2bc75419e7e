// Package section defines the fixed set of page regions that make up the
// portfolio and the navigation items that point at them.
package section

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ID identifies one vertically stacked region of the page.
type ID string

const (
	Home           ID = "home"
	About          ID = "about"
	Projects       ID = "projects"
	Skills         ID = "skills"
	Certifications ID = "certifications"
	Contact        ID = "contact"
)

// ErrUnknownSection is returned when an identifier is outside the fixed set.
var ErrUnknownSection = errors.New("unknown section")

// ordered is page order; the index is the ordinal.
var ordered = []ID{Home, About, Projects, Skills, Certifications, Contact}

var ordinals = func() map[ID]int {
	m := make(map[ID]int, len(ordered))
	for i, id := range ordered {
		m[id] = i
	}
	return m
}()

// All returns every section id in page order. The slice is a copy.
func All() []ID {
	out := make([]ID, len(ordered))
	copy(out, ordered)
	return out
}

// Parse validates s against the fixed set.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return id, nil
}

// Valid reports whether id belongs to the fixed set.
func (id ID) Valid() bool {
	_, ok := ordinals[id]
	return ok
}

// Ordinal returns the page position of id, or -1 if id is unknown.
func (id ID) Ordinal() int {
	if i, ok := ordinals[id]; ok {
		return i
	}
	return -1
}

func (id ID) String() string { return string(id) }

// Label is the display text used in the navigation bar.
func (id ID) Label() string {
	return cases.Title(language.English).String(string(id))
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	ID    ID
	Label string
}

// NavItems returns the navigation bar entries, one per section in page order.
func NavItems() []NavItem {
	items := make([]NavItem, 0, len(ordered))
	for _, id := range ordered {
		items = append(items, NavItem{ID: id, Label: id.Label()})
	}
	return items
}
