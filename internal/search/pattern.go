// Package search holds the byte-oriented algorithms run over a buffer: pattern
// and string search, diffing against other buffers, entropy and histograms.
package search

import (
	"fmt"
	"strings"
)

// ParsePattern converts typed text into raw bytes. Supported escapes:
//
//	\\      a literal backslash
//	\xHH    one byte from one or two hex digits (\X works too)
//
// With a single hex digit before a non-hex character the digit is the whole
// value and parsing continues at that character, so `\x9z` is 0x09 'z'.
func ParsePattern(text string) ([]byte, error) {
	pattern := make([]byte, 0, len(text))

	for i := 0; i < len(text); {
		c := text[i]

		if c != '\\' {
			pattern = append(pattern, c)
			i++

			continue
		}

		if i+1 >= len(text) {
			return nil, fmt.Errorf("%w: dangling \\ at end of pattern", ErrSyntax)
		}

		switch text[i+1] {
		case '\\':
			pattern = append(pattern, '\\')
			i += 2
		case 'x', 'X':
			j := i + 2

			if j >= len(text) {
				return nil, fmt.Errorf("%w: dangling \\x at end of pattern", ErrSyntax)
			}

			high, ok := hexValue(text[j])
			if !ok {
				return nil, fmt.Errorf("%w: \\x not followed by a hex digit at %d", ErrSyntax, j)
			}

			value := high
			j++

			if j < len(text) {
				if low, ok := hexValue(text[j]); ok {
					value = high<<4 | low
					j++
				}
			}

			pattern = append(pattern, value)
			i = j
		default:
			return nil, fmt.Errorf("%w: unknown escape \\%c", ErrSyntax, text[i+1])
		}
	}

	return pattern, nil
}

// FormatPattern renders bytes the way ParsePattern reads them: printable ASCII
// as is, a backslash doubled, everything else as \xHH.
func FormatPattern(pattern []byte) string {
	var output strings.Builder

	for _, c := range pattern {
		switch {
		case c == '\\':
			output.WriteString(`\\`)
		case IsPrintable(c):
			output.WriteByte(c)
		default:
			fmt.Fprintf(&output, `\x%02x`, c)
		}
	}

	return output.String()
}

// IsPrintable reports whether c is printable ASCII (0x20-0x7E).
func IsPrintable(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}

	return 0, false
}
