package search

import (
	"fmt"
	"math"

	"github.com/timmattison/hexed/internal/location"
)

// MinEntropyMargin is the smallest margin CalculateEntropy accepts; smaller
// values are raised to it.
const MinEntropyMargin = 0.1

// Histogram counts every byte value in data.
func Histogram(data []byte) [256]int {
	var counts [256]int

	for _, c := range data {
		counts[c]++
	}

	return counts
}

// Entropy is the Shannon entropy of data in bits per byte, from 0 to 8.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	counts := Histogram(data)
	total := float64(len(data))
	entropy := 0.0

	for _, count := range counts {
		if count == 0 {
			continue
		}

		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	return entropy
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

/*
  Entropy regions

  The buffer is cut into blockSize blocks (a trailing partial block is
  ignored). A block opens a new region only when its entropy, rounded to two
  decimals, differs from the entropy of the region currently open by more
  than margin. Otherwise the open region grows by one block.

    block:    0     1     2     3     4
    entropy:  7.95  7.97  2.10  2.05  7.99     margin 0.5
    regions:  [0 .. 1]    [2 .. 3]    [4]
*/

// CalculateEntropy returns one location per entropy region.
func CalculateEntropy(data []byte, blockSize int, margin float64) (*location.List, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: block size must be positive, got %d", ErrSyntax, blockSize)
	}

	margin = max(margin, MinEntropyMargin)
	blocks := len(data) / blockSize

	if blocks == 0 {
		return nil, fmt.Errorf("buffer shorter than one %d byte block, entropy %w", blockSize, ErrNotFound)
	}

	var regions []location.Location

	last := 0.0

	for i := range blocks {
		offset := i * blockSize
		entropy := round2(Entropy(data[offset : offset+blockSize]))

		if len(regions) > 0 && math.Abs(entropy-last) <= margin {
			regions[len(regions)-1].Size += blockSize
			continue
		}

		regions = append(regions, location.Location{
			Name:   fmt.Sprintf("entropy %.2f", entropy),
			Offset: offset,
			Size:   blockSize,
		})
		last = entropy
	}

	return location.NewList(regions...), nil
}
