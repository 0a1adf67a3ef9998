package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

var bmpFileHeader = []field{
	{"magic", 0, 2}, {"file size", 2, 4}, {"reserved1", 6, 2},
	{"reserved2", 8, 2}, {"pixel data offset", 10, 4},
}

var bmpCoreHeader = []field{
	{".size", 0, 4}, {".width", 4, 2}, {".height", 6, 2}, {".planes", 8, 2},
	{".bit_count", 10, 2},
}

var bmpInfoHeader = []field{
	{".size", 0, 4}, {".width", 4, 4}, {".height", 8, 4}, {".planes", 12, 2},
	{".bit_count", 14, 2}, {".compression", 16, 4}, {".image_size", 20, 4},
	{".x_pixels_per_meter", 24, 4}, {".y_pixels_per_meter", 28, 4},
	{".colors_used", 32, 4}, {".colors_important", 36, 4},
}

var bmpMasks = []field{
	{".red_mask", 40, 4}, {".green_mask", 44, 4}, {".blue_mask", 48, 4},
}

var bmpAlphaMask = []field{{".alpha_mask", 52, 4}}

var bmpV4 = []field{
	{".color_space_type", 56, 4}, {".endpoints", 60, 36},
	{".gamma_red", 96, 4}, {".gamma_green", 100, 4}, {".gamma_blue", 104, 4},
}

var bmpV5 = []field{
	{".intent", 108, 4}, {".profile_data", 112, 4}, {".profile_size", 116, 4},
	{".reserved", 120, 4},
}

var bmpHeaderNames = map[uint32]string{
	12:  "BITMAPCOREHEADER",
	40:  "BITMAPINFOHEADER",
	52:  "BITMAPV2INFOHEADER",
	56:  "BITMAPV3INFOHEADER",
	108: "BITMAPV4HEADER",
	124: "BITMAPV5HEADER",
}

// ParseBMP lists the file header, the DIB header in any of its versions,
// the colour table and the pixel data.
func ParseBMP(data []byte) (*location.List, error) {
	if !signature.IsBMP(data) {
		return nil, fmt.Errorf("bmp: %w", ErrInvalidSignature)
	}

	r := newReader("bmp", data, binary.LittleEndian)

	var f fieldList

	f.label("-- BMP --", 0)

	if err := f.layout(r, "file header", 0, bmpFileHeader); err != nil {
		return nil, err
	}

	dibSize, _ := r.u32("dib header size", 14)

	f.label(bmpHeaderNames[dibSize], 14)

	var layout []field

	switch dibSize {
	case 12:
		layout = bmpCoreHeader
	case 40:
		layout = bmpInfoHeader
	case 52:
		layout = concat(bmpInfoHeader, bmpMasks)
	case 56:
		layout = concat(bmpInfoHeader, bmpMasks, bmpAlphaMask)
	case 108:
		layout = concat(bmpInfoHeader, bmpMasks, bmpAlphaMask, bmpV4)
	case 124:
		layout = concat(bmpInfoHeader, bmpMasks, bmpAlphaMask, bmpV4, bmpV5)
	}

	if err := f.layout(r, "dib header", 14, layout); err != nil {
		return nil, err
	}

	pixels, _ := r.u32("pixel data offset", 10)
	tableStart := 14 + int(dibSize)

	if int(pixels) > tableStart && int(pixels) <= len(data) {
		f.add("color table", tableStart, int(pixels)-tableStart)
	}

	if int(pixels) >= len(data) {
		return nil, r.errorf(ErrTruncated, "pixel data", int(pixels))
	}

	size := len(data) - int(pixels)

	if dibSize >= 40 {
		if imageSize, _ := r.u32("image size", 14+20); imageSize > 0 {
			size = int(imageSize)
		}
	}

	if err := f.leaf(r, "pixel data", int(pixels), size); err != nil {
		return nil, err
	}

	return f.list(), nil
}

func concat(parts ...[]field) []field {
	var out []field
	for _, part := range parts {
		out = append(out, part...)
	}

	return out
}
