package signature

import (
	"bytes"
	"encoding/binary"
)

func hasPrefix(data []byte, magic string) bool {
	return len(data) >= len(magic) && string(data[:len(magic)]) == magic
}

func hasAt(data []byte, offset int, magic string) bool {
	return offset >= 0 && offset <= len(data)-len(magic) && bytes.Equal(data[offset:offset+len(magic)], []byte(magic))
}

func u16(data []byte, offset int, order binary.ByteOrder) (uint16, bool) {
	if offset < 0 || offset+2 > len(data) {
		return 0, false
	}

	return order.Uint16(data[offset:]), true
}

func u32(data []byte, offset int, order binary.ByteOrder) (uint32, bool) {
	if offset < 0 || offset+4 > len(data) {
		return 0, false
	}

	return order.Uint32(data[offset:]), true
}

func byteAt(data []byte, offset int) (byte, bool) {
	if offset < 0 || offset >= len(data) {
		return 0, false
	}

	return data[offset], true
}

func isPowerOfTwo(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}
