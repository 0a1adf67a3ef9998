package structs

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

var iconDirectory = []field{
	{"reserved", 0, 2}, {"type", 2, 2}, {"count", 4, 2},
}

var iconEntry = []field{
	{".width", 0, 1}, {".height", 1, 1}, {".color_count", 2, 1},
	{".reserved", 3, 1}, {".planes", 4, 2}, {".bit_count", 6, 2},
	{".bytes_in_res", 8, 4}, {".image_offset", 12, 4},
}

var cursorEntry = []field{
	{".width", 0, 1}, {".height", 1, 1}, {".color_count", 2, 1},
	{".reserved", 3, 1}, {".hotspot_x", 4, 2}, {".hotspot_y", 6, 2},
	{".bytes_in_res", 8, 4}, {".image_offset", 12, 4},
}

// ParseICO lists an icon or cursor directory and the images it points to.
// Embedded images are tagged as PNG or DIB.
func ParseICO(data []byte) (*location.List, error) {
	cursor := signature.IsCUR(data)
	if !cursor && !signature.IsICO(data) {
		return nil, fmt.Errorf("ico: %w", ErrInvalidSignature)
	}

	r := newReader("ico", data, binary.LittleEndian)

	var f fieldList

	entry := iconEntry
	if cursor {
		r.format = "cur"
		entry = cursorEntry
		f.label("-- CUR --", 0)
	} else {
		f.label("-- ICO --", 0)
	}

	if err := f.layout(r, "icon directory", 0, iconDirectory); err != nil {
		return nil, err
	}

	count, _ := r.u16("count", 4)

	for i := range int(count) {
		base := 6 + i*16

		f.label(fmt.Sprintf("-- entry %d --", i), base)

		if err := f.layout(r, fmt.Sprintf("directory entry %d", i), base, entry); err != nil {
			return nil, err
		}
	}

	for i := range int(count) {
		base := 6 + i*16
		size, _ := r.u32("bytes_in_res", base+8)
		offset, _ := r.u32("image_offset", base+12)

		if err := r.need(fmt.Sprintf("image %d", i), int(offset), 1); err != nil {
			return nil, err
		}

		kind := "dib"
		if bytes.HasPrefix(r.data[offset:], []byte("\x89PNG\r\n\x1A\n")) {
			kind = "png"
		}

		if err := f.leaf(r, fmt.Sprintf("image %d (%s)", i, kind), int(offset), int(size)); err != nil {
			return nil, err
		}
	}

	return f.list(), nil
}
