package search

import (
	"bytes"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
)

// Find returns the first occurrence of pattern at or after start.
func Find(haystack []byte, start int, pattern []byte) (int, error) {
	if len(pattern) == 0 {
		return 0, fmt.Errorf("%w: empty pattern", ErrSyntax)
	}

	start = max(start, 0)

	if start < len(haystack) {
		if idx := bytes.Index(haystack[start:], pattern); idx >= 0 {
			return start + idx, nil
		}
	}

	return 0, fmt.Errorf("pattern '%s' %w", FormatPattern(pattern), ErrNotFound)
}

// FindAll returns every occurrence of pattern, overlapping ones included.
func FindAll(haystack []byte, pattern []byte) (*location.List, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrSyntax)
	}

	name := FormatPattern(pattern)
	matches := location.NewList()

	for offset := 0; offset < len(haystack); {
		idx := bytes.Index(haystack[offset:], pattern)
		if idx < 0 {
			break
		}

		matches.Add(location.Location{Name: name, Offset: offset + idx, Size: len(pattern)})
		offset += idx + 1
	}

	if matches.IsEmpty() {
		return nil, fmt.Errorf("pattern '%s' %w", name, ErrNotFound)
	}

	return matches, nil
}
