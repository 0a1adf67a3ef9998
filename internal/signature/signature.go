// Package signature recognises binary container and executable formats from
// the first bytes of a region. Every check validates the magic plus at least
// one structural field, because the header scan tries every offset of a file
// and magic alone produces too many false positives.
package signature

import (
	"slices"

	"github.com/timmattison/hexed/internal/location"
)

// Match is a recognised format. Size is the length of the whole structure when
// the header states it cheaply, otherwise 0.
type Match struct {
	Name string
	Size int
}

type check struct {
	name  string
	match func(data []byte) bool
	size  func(data []byte) int
}

// dispatch holds, per first byte, the checks that can match data starting
// with that byte.
var dispatch [256][]check

func register(name string, match func([]byte) bool, size func([]byte) int, firstBytes ...byte) {
	for _, first := range firstBytes {
		dispatch[first] = append(dispatch[first], check{name: name, match: match, size: size})
	}
}

// Detect returns the format of the structure starting at data[0].
func Detect(data []byte) (Match, bool) {
	if len(data) == 0 {
		return Match{}, false
	}

	for _, candidate := range dispatch[data[0]] {
		if !candidate.match(data) {
			continue
		}

		m := Match{Name: candidate.name}

		if candidate.size != nil {
			m.Size = candidate.size(data)
		}

		return m, true
	}

	return Match{}, false
}

// Scan tries every offset of data and lists each recognised header.
func Scan(data []byte) *location.List {
	headers := location.NewList()

	for offset := range data {
		if len(dispatch[data[offset]]) == 0 {
			continue
		}

		if m, ok := Detect(data[offset:]); ok {
			headers.Add(location.Location{Name: m.Name, Offset: offset, Size: m.Size})
		}
	}

	return headers
}

// Names lists every format the engine knows, sorted.
func Names() []string {
	var names []string

	for _, checks := range dispatch {
		for _, c := range checks {
			if !slices.Contains(names, c.name) {
				names = append(names, c.name)
			}
		}
	}

	slices.Sort(names)

	return names
}
