// Package location holds named byte ranges and the cursor-style list used to
// navigate them (search hits, parsed structure fields, bookmarks).
package location

import "strings"

// Location is a named byte range. A Size of 0 marks a single offset (a label)
// rather than a range. Unresolved marks a cross-reference whose target could
// not be mapped to a file offset; its Offset is 0.
type Location struct {
	Name       string
	Offset     int
	Size       int
	Unresolved bool
}

// Last returns the offset of the last byte covered by the location. For a
// zero-sized location that is the offset itself.
func (l Location) Last() int {
	if l.Size <= 1 {
		return l.Offset
	}

	return l.Offset + l.Size - 1
}

// Contains reports whether offset falls inside [Offset, Last()].
func (l Location) Contains(offset int) bool {
	return offset >= l.Offset && offset <= l.Last()
}

// List is an insertion-ordered sequence of locations with a current index.
// The index saturates at both ends, it never wraps.
type List struct {
	locations []Location
	current   int
}

func NewList(locations ...Location) *List {
	return &List{locations: locations}
}

func (l *List) Add(location Location) {
	l.locations = append(l.locations, location)
}

func (l *List) Len() int {
	return len(l.locations)
}

func (l *List) IsEmpty() bool {
	return len(l.locations) == 0
}

// At returns the location at idx.
func (l *List) At(idx int) (Location, bool) {
	if idx < 0 || idx >= len(l.locations) {
		return Location{}, false
	}

	return l.locations[idx], true
}

// Locations returns a copy of the entries.
func (l *List) Locations() []Location {
	out := make([]Location, len(l.locations))
	copy(out, l.locations)

	return out
}

func (l *List) CurrentIndex() int {
	return l.current
}

// SetCurrentIndex moves the cursor, clamping it into range.
func (l *List) SetCurrentIndex(idx int) {
	l.current = idx
	l.clamp()
}

// Current returns the location under the cursor, false when the list is empty.
func (l *List) Current() (Location, bool) {
	return l.At(l.current)
}

// Next advances the cursor and returns the new current location. At the last
// entry the cursor stays put.
func (l *List) Next() (Location, bool) {
	if l.current+1 < len(l.locations) {
		l.current++
	}

	return l.Current()
}

// Previous moves the cursor back. At the first entry the cursor stays put.
func (l *List) Previous() (Location, bool) {
	if l.current > 0 {
		l.current--
	}

	return l.Current()
}

// FindIdx returns the index of the first location whose range contains offset.
func (l *List) FindIdx(offset int) (int, bool) {
	for i, location := range l.locations {
		if location.Contains(offset) {
			return i, true
		}
	}

	return -1, false
}

// IndexOf returns the index of the first entry equal to location.
func (l *List) IndexOf(location Location) (int, bool) {
	for i, candidate := range l.locations {
		if candidate == location {
			return i, true
		}
	}

	return -1, false
}

func (l *List) Rename(idx int, name string) bool {
	if idx < 0 || idx >= len(l.locations) {
		return false
	}

	l.locations[idx].Name = name

	return true
}

func (l *List) RenameCurrent(name string) bool {
	return l.Rename(l.current, name)
}

// Remove splices out the entry at idx and re-clamps the cursor.
func (l *List) Remove(idx int) bool {
	if idx < 0 || idx >= len(l.locations) {
		return false
	}

	l.locations = append(l.locations[:idx], l.locations[idx+1:]...)

	if idx < l.current {
		l.current--
	}

	l.clamp()

	return true
}

func (l *List) RemoveCurrent() bool {
	return l.Remove(l.current)
}

func (l *List) Clear() {
	l.locations = nil
	l.current = 0
}

// Filter returns a new list holding the entries whose name contains substring,
// compared case-insensitively.
func (l *List) Filter(substring string) *List {
	needle := strings.ToLower(substring)
	filtered := NewList()

	for _, location := range l.locations {
		if strings.Contains(strings.ToLower(location.Name), needle) {
			filtered.Add(location)
		}
	}

	return filtered
}

// Shift returns a copy of the list with every offset moved by delta. Used to
// rebase parser output, which is relative to the parsed header.
func (l *List) Shift(delta int) *List {
	shifted := NewList()

	for _, location := range l.locations {
		if !location.Unresolved {
			location.Offset += delta
		}

		shifted.Add(location)
	}

	return shifted
}

func (l *List) clamp() {
	if l.current >= len(l.locations) {
		l.current = len(l.locations) - 1
	}

	if l.current < 0 {
		l.current = 0
	}
}
