package structs

import (
	"github.com/timmattison/hexed/internal/location"
)

// field describes one member of a fixed layout, relative to the start of the
// structure it belongs to.
type field struct {
	name   string
	offset int
	size   int
}

// fieldList accumulates parser output. Names starting with '.' belong to the
// closest preceding zero-sized label.
type fieldList struct {
	fields []location.Location
}

func (f *fieldList) label(name string, offset int) {
	f.fields = append(f.fields, location.Location{Name: name, Offset: offset})
}

// pointer labels the target of a cross-reference. An offset of 0 means the
// target did not map into the file.
func (f *fieldList) pointer(name string, offset int) {
	f.fields = append(f.fields, location.Location{Name: name, Offset: offset, Unresolved: offset == 0})
}

func (f *fieldList) add(name string, offset, size int) {
	f.fields = append(f.fields, location.Location{Name: name, Offset: offset, Size: size})
}

// layout checks that the whole fixed structure at base is present and then
// adds each of its members.
func (f *fieldList) layout(r *reader, what string, base int, members []field) error {
	end := 0
	for _, m := range members {
		end = max(end, m.offset+m.size)
	}

	if err := r.need(what, base, end); err != nil {
		return err
	}

	for _, m := range members {
		f.add(m.name, base+m.offset, m.size)
	}

	return nil
}

// leaf adds a display-only region such as pixel or packet data. Its start must
// be inside the data, its size is clipped to what is there.
func (f *fieldList) leaf(r *reader, name string, offset, size int) error {
	if offset < 0 || offset > len(r.data) {
		return r.errorf(ErrTruncated, name, offset)
	}

	size = min(size, len(r.data)-offset)
	if size > 0 {
		f.add(name, offset, size)
	}

	return nil
}

func (f *fieldList) list() *location.List {
	return location.NewList(f.fields...)
}
