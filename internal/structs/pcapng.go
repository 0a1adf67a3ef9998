package structs

import (
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

const (
	pcapngSectionHeader     = 0x0A0D0D0A
	pcapngInterface         = 0x00000001
	pcapngObsoletePacket    = 0x00000002
	pcapngSimplePacket      = 0x00000003
	pcapngNameResolution    = 0x00000004
	pcapngInterfaceStats    = 0x00000005
	pcapngEnhancedPacket    = 0x00000006
	pcapngDecryptionSecrets = 0x0000000A
)

var pcapngBlockNames = map[uint32]string{
	pcapngSectionHeader:     "section header block",
	pcapngInterface:         "interface description block",
	pcapngObsoletePacket:    "packet block",
	pcapngSimplePacket:      "simple packet block",
	pcapngNameResolution:    "name resolution block",
	pcapngInterfaceStats:    "interface statistics block",
	pcapngEnhancedPacket:    "enhanced packet block",
	pcapngDecryptionSecrets: "decryption secrets block",
}

// pcapngBodies holds the fixed part of each block body, relative to the
// start of the block.
var pcapngBodies = map[uint32][]field{
	pcapngSectionHeader: {
		{".byte_order_magic", 8, 4}, {".major_version", 12, 2},
		{".minor_version", 14, 2}, {".section_length", 16, 8},
	},
	pcapngInterface: {
		{".link_type", 8, 2}, {".reserved", 10, 2}, {".snap_len", 12, 4},
	},
	pcapngEnhancedPacket: {
		{".interface_id", 8, 4}, {".timestamp_high", 12, 4},
		{".timestamp_low", 16, 4}, {".captured_length", 20, 4},
		{".original_length", 24, 4},
	},
	pcapngSimplePacket: {
		{".original_length", 8, 4},
	},
	pcapngInterfaceStats: {
		{".interface_id", 8, 4}, {".timestamp_high", 12, 4},
		{".timestamp_low", 16, 4},
	},
}

// ParsePCAPNG lists the blocks of the first section of a pcapng capture. The
// byte order comes from the section header and the walk stops at the next
// section header.
func ParsePCAPNG(data []byte) (*location.List, error) {
	if !signature.IsPCAPNG(data) {
		return nil, fmt.Errorf("pcapng: %w", ErrInvalidSignature)
	}

	order, _ := signature.PCAPNGOrder(data)
	r := newReader("pcapng", data, order)

	var f fieldList

	f.label("-- PCAPNG --", 0)

	for offset := 0; offset < len(data); {
		kind, err := r.u32("block type", offset)
		if err != nil {
			return nil, err
		}

		if kind == pcapngSectionHeader && offset != 0 {
			break
		}

		length, err := r.u32("block total length", offset+4)
		if err != nil {
			return nil, err
		}

		if length < 12 || length%4 != 0 {
			return nil, r.errorf(ErrMalformed, "block total length", offset+4)
		}

		total := int(length)

		if err := r.need("block", offset, total); err != nil {
			return nil, err
		}

		if trailer, _ := r.u32("trailing block total length", offset+total-4); trailer != length {
			return nil, r.errorf(ErrMalformed, "trailing block total length", offset+total-4)
		}

		name, ok := pcapngBlockNames[kind]
		if !ok {
			name = fmt.Sprintf("block 0x%08X", kind)
		}

		f.label("-- "+name+" --", offset)
		f.add(".block_type", offset, 4)
		f.add(".block_total_length", offset+4, 4)

		body := offset + 8
		fixed := pcapngBodies[kind]

		if err := addPCAPNGBody(r, &f, offset, total, kind, fixed, &body); err != nil {
			return nil, err
		}

		if rest := offset + total - 4 - body; rest > 0 {
			label := ".options"
			if fixed == nil {
				label = ".body"
			}

			f.add(label, body, rest)
		}

		f.add(".block_total_length", offset+total-4, 4)

		offset += total
	}

	return f.list(), nil
}

// addPCAPNGBody adds the fixed fields and packet data of a block and moves
// body past them.
func addPCAPNGBody(r *reader, f *fieldList, offset, total int, kind uint32, fixed []field, body *int) error {
	if fixed == nil {
		return nil
	}

	end := 0
	for _, m := range fixed {
		end = max(end, m.offset+m.size)
	}

	if end > total-4 {
		return r.errorf(ErrMalformed, "block body", offset+8)
	}

	if err := f.layout(r, "block body", offset, fixed); err != nil {
		return err
	}

	*body = offset + end

	var packet int

	switch kind {
	case pcapngEnhancedPacket:
		captured, _ := r.u32("captured_length", offset+20)
		packet = int(captured)
	case pcapngSimplePacket:
		packet = total - 4 - end
	default:
		return nil
	}

	packet = min(packet, total-4-end)
	if packet > 0 {
		f.add(".packet_data", *body, packet)
	}

	// packet data is padded to 32 bits
	*body += (packet + 3) &^ 3
	*body = min(*body, offset+total-4)

	return nil
}
