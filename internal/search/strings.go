package search

import (
	"bytes"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
)

// stringRuns calls yield for every maximal run of printable ASCII that begins
// at or after start, stopping early when yield returns false. A run that
// straddles start is skipped so "find next" never lands in the middle of the
// string the cursor is already on.
func stringRuns(data []byte, start int, yield func(offset int, run []byte) bool) {
	i := max(start, 0)

	if i > 0 {
		for i < len(data) && IsPrintable(data[i-1]) && IsPrintable(data[i]) {
			i++
		}
	}

	for i < len(data) {
		if !IsPrintable(data[i]) {
			i++
			continue
		}

		j := i
		for j < len(data) && IsPrintable(data[j]) {
			j++
		}

		if !yield(i, data[i:j]) {
			return
		}

		i = j
	}
}

func qualifies(run []byte, minSize int, substring []byte) bool {
	return len(run) >= minSize && bytes.Contains(run, substring)
}

// FindString returns the offset of the first printable ASCII run at or after
// start that is at least minSize long and contains substring.
func FindString(haystack []byte, start int, minSize int, substring []byte) (int, error) {
	found := -1

	stringRuns(haystack, start, func(offset int, run []byte) bool {
		if qualifies(run, minSize, substring) {
			found = offset
			return false
		}

		return true
	})

	if found < 0 {
		return 0, fmt.Errorf("string containing '%s' %w", FormatPattern(substring), ErrNotFound)
	}

	return found, nil
}

// FindAllStrings lists every qualifying run, named after its text.
func FindAllStrings(haystack []byte, minSize int, substring []byte) (*location.List, error) {
	matches := location.NewList()

	stringRuns(haystack, 0, func(offset int, run []byte) bool {
		if qualifies(run, minSize, substring) {
			matches.Add(location.Location{Name: string(run), Offset: offset, Size: len(run)})
		}

		return true
	})

	if matches.IsEmpty() {
		return nil, fmt.Errorf("string containing '%s' %w", FormatPattern(substring), ErrNotFound)
	}

	return matches, nil
}
