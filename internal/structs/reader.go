package structs

import (
	"encoding/binary"
	"fmt"
)

const maxNameLength = 256

// reader is a bounds-checked view of the data being parsed. The byte order is
// chosen once per structure and used for every multi-byte field.
type reader struct {
	format string
	data   []byte
	order  binary.ByteOrder
}

func newReader(format string, data []byte, order binary.ByteOrder) *reader {
	return &reader{format: format, data: data, order: order}
}

func (r *reader) errorf(sentinel error, field string, offset int) error {
	return fmt.Errorf("%s: %s at 0x%x: %w", r.format, field, offset, sentinel)
}

// need fails unless [offset, offset+size) lies inside the data.
func (r *reader) need(field string, offset, size int) error {
	if offset < 0 || size < 0 || offset > len(r.data) || size > len(r.data)-offset {
		return r.errorf(ErrTruncated, field, offset)
	}

	return nil
}

func (r *reader) u8(field string, offset int) (uint8, error) {
	if err := r.need(field, offset, 1); err != nil {
		return 0, err
	}

	return r.data[offset], nil
}

func (r *reader) u16(field string, offset int) (uint16, error) {
	if err := r.need(field, offset, 2); err != nil {
		return 0, err
	}

	return r.order.Uint16(r.data[offset:]), nil
}

func (r *reader) u32(field string, offset int) (uint32, error) {
	if err := r.need(field, offset, 4); err != nil {
		return 0, err
	}

	return r.order.Uint32(r.data[offset:]), nil
}

func (r *reader) u64(field string, offset int) (uint64, error) {
	if err := r.need(field, offset, 8); err != nil {
		return 0, err
	}

	return r.order.Uint64(r.data[offset:]), nil
}

// word reads a 4 or 8 byte unsigned value, for fields whose width depends on
// the 32/64-bit class of the file.
func (r *reader) word(field string, offset, width int) (uint64, error) {
	if width == 8 {
		return r.u64(field, offset)
	}

	v, err := r.u32(field, offset)

	return uint64(v), err
}

// offset converts a value read from the file to an int offset, rejecting
// values that cannot address anything in the data.
func (r *reader) offset(field string, value uint64) (int, error) {
	if value > uint64(len(r.data)) {
		return 0, r.errorf(ErrTruncated, field, len(r.data))
	}

	return int(value), nil
}

// name reads a NUL-terminated ASCII name starting at offset. Reading stops at
// the first control byte or at end, the declared end of the string table.
// Names that run off the end of the data come back as a placeholder.
func (r *reader) name(offset, end int) string {
	if offset < 0 || offset >= len(r.data) || offset >= end {
		return "<invalid>"
	}

	limit := min(end, len(r.data), offset+maxNameLength)

	for i := offset; i < limit; i++ {
		if c := r.data[i]; c < 0x20 || c > 0x7E {
			return named(r.data[offset:i])
		}
	}

	if limit == len(r.data) && limit < end {
		return "<unterminated>"
	}

	return named(r.data[offset:limit])
}

func named(raw []byte) string {
	if len(raw) == 0 {
		return "<unnamed>"
	}

	return string(raw)
}
