package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

const (
	jpegSOI = 0xD8
	jpegEOI = 0xD9
	jpegSOS = 0xDA
	jpegTEM = 0x01
)

var jpegMarkers = map[byte]string{
	0xC0: "SOF0", 0xC1: "SOF1", 0xC2: "SOF2", 0xC3: "SOF3",
	0xC4: "DHT", 0xC5: "SOF5", 0xC6: "SOF6", 0xC7: "SOF7",
	0xC9: "SOF9", 0xCA: "SOF10", 0xCB: "SOF11", 0xCC: "DAC",
	0xCD: "SOF13", 0xCE: "SOF14", 0xCF: "SOF15",
	0xDA: "SOS", 0xDB: "DQT", 0xDC: "DNL", 0xDD: "DRI", 0xDE: "DHP",
	0xDF: "EXP", 0xFE: "COM",
}

var jfifHeader = []field{
	{".identifier", 0, 5}, {".version", 5, 2}, {".units", 7, 1},
	{".x_density", 8, 2}, {".y_density", 10, 2}, {".x_thumbnail", 12, 1},
	{".y_thumbnail", 13, 1},
}

var jpegFrame = []field{
	{".precision", 0, 1}, {".height", 1, 2}, {".width", 3, 2},
	{".components", 5, 1},
}

func jpegMarkerName(marker byte) string {
	if name, ok := jpegMarkers[marker]; ok {
		return name
	}

	if marker >= 0xE0 && marker <= 0xEF {
		return fmt.Sprintf("APP%d", marker-0xE0)
	}

	return fmt.Sprintf("marker 0x%02X", marker)
}

func isFrameMarker(marker byte) bool {
	return marker >= 0xC0 && marker <= 0xCF && marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

func isRestartMarker(marker byte) bool {
	return marker >= 0xD0 && marker <= 0xD7
}

// ParseJPEG walks the marker segments from SOI to EOI. Entropy-coded data
// after each SOS is reported as a single region.
func ParseJPEG(data []byte) (*location.List, error) {
	if !signature.IsJPEG(data) {
		return nil, fmt.Errorf("jpeg: %w", ErrInvalidSignature)
	}

	r := newReader("jpeg", data, binary.BigEndian)

	var f fieldList

	f.label("-- JPEG --", 0)
	f.add("SOI", 0, 2)

	for offset := 2; offset < len(data); {
		if data[offset] != 0xFF {
			return nil, r.errorf(ErrMalformed, "marker", offset)
		}

		// any number of 0xFF fill bytes may precede a marker
		if offset+1 < len(data) && data[offset+1] == 0xFF {
			offset++
			continue
		}

		marker, err := r.u8("marker", offset+1)
		if err != nil {
			return nil, err
		}

		switch {
		case marker == jpegEOI:
			f.add("EOI", offset, 2)
			return f.list(), nil
		case marker == jpegSOI, marker == jpegTEM, isRestartMarker(marker):
			f.add(jpegMarkerName(marker), offset, 2)
			offset += 2

			continue
		}

		name := jpegMarkerName(marker)

		length, err := r.u16(name+" length", offset+2)
		if err != nil {
			return nil, err
		}

		if length < 2 {
			return nil, r.errorf(ErrMalformed, name+" length", offset+2)
		}

		if err := r.need(name+" segment", offset+2, int(length)); err != nil {
			return nil, err
		}

		f.label(name, offset)
		f.add(".marker", offset, 2)
		f.add(".length", offset+2, 2)

		body := offset + 4
		size := int(length) - 2

		switch {
		case marker == 0xE0 && size >= 14 && string(data[body:body+5]) == "JFIF\x00":
			if err := f.layout(r, "JFIF", body, jfifHeader); err != nil {
				return nil, err
			}
		case isFrameMarker(marker) && size >= 6:
			if err := f.layout(r, name, body, jpegFrame); err != nil {
				return nil, err
			}
		case size > 0:
			f.add(".data", body, size)
		}

		offset = body + size

		if marker == jpegSOS {
			offset = scanData(&f, data, offset)
		}
	}

	return f.list(), nil
}

// scanData reports the entropy-coded bytes following SOS and returns the
// offset of the next marker. Stuffed zero bytes and restart markers belong to
// the scan.
func scanData(f *fieldList, data []byte, start int) int {
	end := start

	for end < len(data) {
		if data[end] == 0xFF && end+1 < len(data) {
			next := data[end+1]
			if next != 0x00 && !isRestartMarker(next) && next != 0xFF {
				break
			}
		}

		end++
	}

	if end > start {
		f.add("scan data", start, end-start)
	}

	return end
}
