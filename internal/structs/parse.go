// Package structs decodes the headers of common binary formats into flat
// lists of named fields, each pointing at the bytes it was read from.
//
// Every parser re-checks the signature of the data it is given, reads with a
// single byte order chosen up front and fails on the first field that lies
// outside the data, returning no partial result. The first entry of a
// successful result is a zero-sized label naming the format. Members of a
// structure are named with a leading '.' and follow the label of the
// structure they belong to. Cross references that cannot be resolved to a
// file offset are reported at offset 0.
package structs

import (
	"fmt"
	"slices"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

// Parser decodes a structure starting at the first byte of data.
type Parser func(data []byte) (*location.List, error)

var parsers = map[string]Parser{
	"BMP":    ParseBMP,
	"CUR":    ParseICO,
	"ELF":    ParseELF,
	"GIF":    ParseGIF,
	"ICO":    ParseICO,
	"JPEG":   ParseJPEG,
	"PCAP":   ParsePCAP,
	"PCAPNG": ParsePCAPNG,
	"PE":     ParsePE,
	"PNG":    ParsePNG,
}

// Lookup returns the parser for a signature name.
func Lookup(name string) (Parser, bool) {
	p, ok := parsers[name]
	return p, ok
}

// Supported lists the signature names that have a parser.
func Supported() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// Parse detects the format of data and decodes it, returning the signature
// name alongside the fields.
func Parse(data []byte) (string, *location.List, error) {
	m, ok := signature.Detect(data)
	if !ok {
		return "", nil, fmt.Errorf("no known header at start of data: %w", ErrInvalidSignature)
	}

	p, ok := parsers[m.Name]
	if !ok {
		return m.Name, nil, fmt.Errorf("%s: %w", m.Name, ErrUnsupported)
	}

	fields, err := p(data)
	if err != nil {
		return m.Name, nil, err
	}

	return m.Name, fields, nil
}
