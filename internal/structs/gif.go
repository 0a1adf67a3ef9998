package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

const (
	gifExtension = 0x21
	gifImage     = 0x2C
	gifTrailer   = 0x3B

	gifPlainText   = 0x01
	gifControl     = 0xF9
	gifComment     = 0xFE
	gifApplication = 0xFF
)

var gifScreen = []field{
	{"magic", 0, 6}, {"width", 6, 2}, {"height", 8, 2}, {"flags", 10, 1},
	{"background color index", 11, 1}, {"pixel aspect ratio", 12, 1},
}

var gifDescriptor = []field{
	{".separator", 0, 1}, {".left", 1, 2}, {".top", 3, 2}, {".width", 5, 2},
	{".height", 7, 2}, {".flags", 9, 1},
}

// TODO: emit .transparent_color_index only when bit 0 of .flags is set.
var gifGraphicControl = []field{
	{".introducer", 0, 1}, {".label", 1, 1}, {".block_size", 2, 1},
	{".flags", 3, 1}, {".delay", 4, 2}, {".transparent_color_index", 6, 1},
	{".terminator", 7, 1},
}

var gifPlainTextHeader = []field{
	{".introducer", 0, 1}, {".label", 1, 1}, {".block_size", 2, 1},
	{".left", 3, 2}, {".top", 5, 2}, {".width", 7, 2}, {".height", 9, 2},
	{".cell_width", 11, 1}, {".cell_height", 12, 1},
	{".foreground_color_index", 13, 1}, {".background_color_index", 14, 1},
}

var gifApplicationHeader = []field{
	{".introducer", 0, 1}, {".label", 1, 1}, {".block_size", 2, 1},
	{".identifier", 3, 8}, {".authentication_code", 11, 3},
}

// ParseGIF lists the logical screen descriptor, colour tables, extensions and
// images of a GIF up to its trailer.
func ParseGIF(data []byte) (*location.List, error) {
	if !signature.IsGIF(data) {
		return nil, fmt.Errorf("gif: %w", ErrInvalidSignature)
	}

	r := newReader("gif", data, binary.LittleEndian)

	var f fieldList

	f.label("-- GIF --", 0)

	if err := f.layout(r, "logical screen descriptor", 0, gifScreen); err != nil {
		return nil, err
	}

	offset := 13

	if table := signature.GIFColorTableSize(data[10]); table > 0 {
		if err := r.need("global color table", offset, table); err != nil {
			return nil, err
		}

		f.add("global color table", offset, table)
		offset += table
	}

	for image := 0; offset < len(data); {
		var err error

		switch data[offset] {
		case gifTrailer:
			f.add("trailer", offset, 1)
			return f.list(), nil
		case gifImage:
			offset, err = parseGIFImage(r, &f, offset, image)
			image++
		case gifExtension:
			offset, err = parseGIFExtension(r, &f, offset)
		default:
			err = r.errorf(ErrMalformed, "block introducer", offset)
		}

		if err != nil {
			return nil, err
		}
	}

	return f.list(), nil
}

func parseGIFImage(r *reader, f *fieldList, offset, index int) (int, error) {
	f.label(fmt.Sprintf("-- image %d --", index), offset)

	if err := f.layout(r, "image descriptor", offset, gifDescriptor); err != nil {
		return 0, err
	}

	flags := r.data[offset+9]
	offset += 10

	if table := signature.GIFColorTableSize(flags); table > 0 {
		if err := r.need("local color table", offset, table); err != nil {
			return 0, err
		}

		f.add(".local_color_table", offset, table)
		offset += table
	}

	if err := r.need("lzw minimum code size", offset, 1); err != nil {
		return 0, err
	}

	f.add(".lzw_minimum_code_size", offset, 1)

	return subBlocks(r, f, ".image_data", offset+1)
}

func parseGIFExtension(r *reader, f *fieldList, offset int) (int, error) {
	label, err := r.u8("extension label", offset+1)
	if err != nil {
		return 0, err
	}

	switch label {
	case gifControl:
		f.label("-- graphic control extension --", offset)

		if err := f.layout(r, "graphic control extension", offset, gifGraphicControl); err != nil {
			return 0, err
		}

		return offset + 8, nil
	case gifComment:
		f.label("-- comment extension --", offset)
		f.add(".introducer", offset, 1)
		f.add(".label", offset+1, 1)

		return subBlocks(r, f, ".comment", offset+2)
	case gifPlainText:
		f.label("-- plain text extension --", offset)

		if err := f.layout(r, "plain text extension", offset, gifPlainTextHeader); err != nil {
			return 0, err
		}

		return subBlocks(r, f, ".text", offset+15)
	case gifApplication:
		f.label("-- application extension --", offset)

		if err := f.layout(r, "application extension", offset, gifApplicationHeader); err != nil {
			return 0, err
		}

		return subBlocks(r, f, ".application_data", offset+14)
	}

	f.label(fmt.Sprintf("-- extension 0x%02x --", label), offset)
	f.add(".introducer", offset, 1)
	f.add(".label", offset+1, 1)

	return subBlocks(r, f, ".data", offset+2)
}

// subBlocks follows a chain of length-prefixed sub-blocks ending with a zero
// length byte. The whole chain, terminator included, becomes one field.
func subBlocks(r *reader, f *fieldList, name string, offset int) (int, error) {
	start := offset

	for {
		size, err := r.u8(name+" sub-block size", offset)
		if err != nil {
			return 0, err
		}

		if size == 0 {
			f.add(name, start, offset+1-start)
			return offset + 1, nil
		}

		if err := r.need(name+" sub-block", offset+1, int(size)); err != nil {
			return 0, err
		}

		offset += 1 + int(size)
	}
}
