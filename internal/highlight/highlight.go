// Package highlight keeps a colour for every offset of a buffer as a run-length
// list of breakpoints.
package highlight

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Color is a highlight colour. None means "not highlighted".
type Color uint8

const (
	None Color = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var colorNames = []string{"none", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}

	return fmt.Sprintf("color(%d)", c)
}

// ParseColor maps a colour name back to its Color.
func ParseColor(name string) (Color, error) {
	lower := strings.ToLower(strings.TrimSpace(name))

	for i, colorName := range colorNames {
		if colorName == lower {
			return Color(i), nil
		}
	}

	return None, fmt.Errorf("unknown color %q", name)
}

// Breakpoint starts a run of Color at Offset that lasts until the next
// breakpoint.
type Breakpoint struct {
	Offset int
	Color  Color
}

/*
  The list is a sorted slice of breakpoints. The colour at offset x is the
  colour of the last breakpoint <= x.

  Invariants:
  - points[0].Offset == 0
  - offsets strictly increase
  - neighbours never share a colour

  Example: red over [4,7] on an empty list

    before: (0,none)
    after:  (0,none) (4,red) (8,none)
*/

type List struct {
	points []Breakpoint
}

func New() *List {
	return &List{points: []Breakpoint{{Offset: 0, Color: None}}}
}

// Clear resets the list to a single uncoloured run.
func (l *List) Clear() {
	l.points = []Breakpoint{{Offset: 0, Color: None}}
}

// Breakpoints returns a copy of the breakpoints.
func (l *List) Breakpoints() []Breakpoint {
	out := make([]Breakpoint, len(l.points))
	copy(out, l.points)

	return out
}

func (l *List) Len() int {
	return len(l.points)
}

// containing returns the index of the breakpoint whose run covers offset.
func (l *List) containing(offset int) int {
	i := sort.Search(len(l.points), func(i int) bool {
		return l.points[i].Offset > offset
	})

	return i - 1
}

// Color returns the colour at offset.
func (l *List) Color(offset int) Color {
	if offset < 0 {
		return None
	}

	return l.points[l.containing(offset)].Color
}

// Range returns the inclusive bounds of the coloured run covering offset. The
// last run is open ended and reports math.MaxInt as its end.
func (l *List) Range(offset int) (start int, end int, ok bool) {
	if offset < 0 {
		return 0, 0, false
	}

	i := l.containing(offset)
	if l.points[i].Color == None {
		return 0, 0, false
	}

	end = math.MaxInt
	if i+1 < len(l.points) {
		end = l.points[i+1].Offset - 1
	}

	return l.points[i].Offset, end, true
}

// Add paints [start, end] with color, overwriting whatever was there. Passing
// None erases. An end of math.MaxInt paints to infinity.
func (l *List) Add(start, end int, color Color) {
	if start > end {
		start, end = end, start
	}

	if start < 0 {
		start = 0
	}

	if end < 0 {
		return
	}

	open := end == math.MaxInt

	var resume Color

	if !open {
		resume = l.Color(end + 1)
	}

	// Runs starting before start survive untouched.
	head := sort.Search(len(l.points), func(i int) bool {
		return l.points[i].Offset >= start
	})

	// Runs starting after end+1 survive untouched, everything between is covered.
	tail := len(l.points)

	if !open {
		tail = sort.Search(len(l.points), func(i int) bool {
			return l.points[i].Offset > end+1
		})
	}

	points := make([]Breakpoint, 0, head+3+len(l.points)-tail)
	points = append(points, l.points[:head]...)

	if len(points) == 0 || points[len(points)-1].Color != color {
		points = append(points, Breakpoint{Offset: start, Color: color})
	}

	if !open && resume != points[len(points)-1].Color {
		points = append(points, Breakpoint{Offset: end + 1, Color: resume})
	}

	for _, point := range l.points[tail:] {
		if point.Color == points[len(points)-1].Color {
			continue
		}

		points = append(points, point)
	}

	l.points = points
}
