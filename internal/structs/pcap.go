package structs

import (
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

var pcapHeader = []field{
	{"magic", 0, 4}, {"version_major", 4, 2}, {"version_minor", 6, 2},
	{"thiszone", 8, 4}, {"sigfigs", 12, 4}, {"snaplen", 16, 4},
	{"network", 20, 4},
}

// ParsePCAP lists the global header and every packet record of a classic
// libpcap capture.
func ParsePCAP(data []byte) (*location.List, error) {
	if !signature.IsPCAP(data) {
		return nil, fmt.Errorf("pcap: %w", ErrInvalidSignature)
	}

	order, nano, _ := signature.PCAPOrder(data)
	r := newReader("pcap", data, order)

	var f fieldList

	f.label("-- PCAP --", 0)

	if err := f.layout(r, "global header", 0, pcapHeader); err != nil {
		return nil, err
	}

	fraction := ".ts_usec"
	if nano {
		fraction = ".ts_nsec"
	}

	for i, offset := 0, 24; offset < len(data); i++ {
		name := fmt.Sprintf("packet %d", i)

		f.label("-- "+name+" --", offset)

		if err := f.layout(r, name+" header", offset, []field{
			{".ts_sec", 0, 4}, {fraction, 4, 4}, {".incl_len", 8, 4},
			{".orig_len", 12, 4},
		}); err != nil {
			return nil, err
		}

		captured, _ := r.u32("incl_len", offset+8)

		if err := r.need(name+" data", offset+16, int(captured)); err != nil {
			return nil, err
		}

		if captured > 0 {
			f.add(".data", offset+16, int(captured))
		}

		offset += 16 + int(captured)
	}

	return f.list(), nil
}
