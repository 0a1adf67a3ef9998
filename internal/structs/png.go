package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

var pngHeader = []field{
	{".width", 0, 4}, {".height", 4, 4}, {".bit_depth", 8, 1},
	{".color_type", 9, 1}, {".compression", 10, 1}, {".filter", 11, 1},
	{".interlace", 12, 1},
}

// ParsePNG walks the chunk list from the signature to IEND.
func ParsePNG(data []byte) (*location.List, error) {
	if !signature.IsPNG(data) {
		return nil, fmt.Errorf("png: %w", ErrInvalidSignature)
	}

	r := newReader("png", data, binary.BigEndian)

	var f fieldList

	f.label("-- PNG --", 0)
	f.add("magic", 0, 8)

	for offset := 8; offset < len(data); {
		if err := r.need("chunk header", offset, 8); err != nil {
			return nil, err
		}

		length, _ := r.u32("chunk length", offset)
		kind := string(data[offset+4 : offset+8])
		size := int(length)

		if err := r.need(kind+" chunk", offset, 12+size); err != nil {
			return nil, err
		}

		f.label(kind, offset)
		f.add(".length", offset, 4)
		f.add(".type", offset+4, 4)

		switch {
		case kind == "IHDR" && size == 13:
			if err := f.layout(r, "IHDR", offset+8, pngHeader); err != nil {
				return nil, err
			}
		case size > 0:
			f.add(".data", offset+8, size)
		}

		f.add(".crc", offset+8+size, 4)

		if kind == "IEND" {
			break
		}

		offset += 12 + size
	}

	return f.list(), nil
}
