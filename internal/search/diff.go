package search

import (
	"fmt"

	"github.com/timmattison/hexed/internal/location"
)

// differs reports whether any of others has a different byte at offset, or
// no byte there at all.
func differs(active []byte, others [][]byte, offset int) bool {
	for _, other := range others {
		if offset >= len(other) || other[offset] != active[offset] {
			return true
		}
	}

	return false
}

// FindDiff returns the first offset at or after start where active differs
// from at least one of the other buffers.
func FindDiff(active []byte, others [][]byte, start int) (int, error) {
	if len(others) == 0 {
		return 0, fmt.Errorf("%w: no other buffer to compare with", ErrSyntax)
	}

	for offset := max(start, 0); offset < len(active); offset++ {
		if differs(active, others, offset) {
			return offset, nil
		}
	}

	return 0, fmt.Errorf("difference %w", ErrNotFound)
}

// FindAllDiffs lists every stretch of consecutive differing offsets in active.
func FindAllDiffs(active []byte, others [][]byte) (*location.List, error) {
	if len(others) == 0 {
		return nil, fmt.Errorf("%w: no other buffer to compare with", ErrSyntax)
	}

	diffs := location.NewList()

	for offset := 0; offset < len(active); {
		if !differs(active, others, offset) {
			offset++
			continue
		}

		end := offset + 1
		for end < len(active) && differs(active, others, end) {
			end++
		}

		diffs.Add(location.Location{Name: fmt.Sprintf("diff %d bytes", end-offset), Offset: offset, Size: end - offset})
		offset = end
	}

	if diffs.IsEmpty() {
		return nil, fmt.Errorf("difference %w", ErrNotFound)
	}

	return diffs, nil
}
