package scrollspy

import (
	"fmt"

	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

const (
	entranceOffsetPx   = 40
	entranceTransition = "all 1s"

	navColor       = "#94a3b8"
	navColorActive = "#60a5fa"
)

// StyleDescriptor is the entrance-transition style of a section's content.
type StyleDescriptor struct {
	Opacity    float64 `json:"opacity"`
	Transform  string  `json:"transform"`
	Transition string  `json:"transition"`
}

// StyleFor derives the style of id from the visibility map. Visible sections
// are fully opaque in place; everything else is transparent and pushed down.
func StyleFor(id section.ID, v Visibility) StyleDescriptor {
	if v[id] {
		return StyleDescriptor{Opacity: 1, Transform: "translateY(0)", Transition: entranceTransition}
	}
	return StyleDescriptor{
		Opacity:    0,
		Transform:  fmt.Sprintf("translateY(%dpx)", entranceOffsetPx),
		Transition: entranceTransition,
	}
}

// Revealed reports whether d is the fully shown state.
func (d StyleDescriptor) Revealed() bool { return d.Opacity == 1 }

// CSS renders d as an inline style declaration.
func (d StyleDescriptor) CSS() string {
	return fmt.Sprintf("opacity: %g; transform: %s; transition: %s", d.Opacity, d.Transform, d.Transition)
}

// Styles computes StyleFor for each id.
func Styles(ids []section.ID, v Visibility) map[section.ID]StyleDescriptor {
	out := make(map[section.ID]StyleDescriptor, len(ids))
	for _, id := range ids {
		out[id] = StyleFor(id, v)
	}
	return out
}

// NavColor is the text color of a navigation button.
func NavColor(id, active section.ID) string {
	if id == active {
		return navColorActive
	}
	return navColor
}
