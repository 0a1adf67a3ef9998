// Package buffer implements the in-memory file buffer: raw bytes plus a sparse
// map of original values for every offset that was edited or inserted, a
// selection and the annotation lists shown on top of the bytes.
package buffer

import (
	"slices"

	"github.com/timmattison/hexed/internal/highlight"
	"github.com/timmattison/hexed/internal/location"
	"github.com/zeebo/blake3"
)

// Patch records the value a byte had before it was first modified. Inserted
// bytes carry a synthetic original of 0.
type Patch struct {
	Offset   int
	Original byte
}

type selection struct {
	anchor int
	head   int
}

type Buffer struct {
	filename string
	data     []byte

	// offset -> original byte, present only for edited or inserted offsets
	patches map[int]byte

	position  int
	selection *selection

	highlights *highlight.List
	locations  *location.List
	filtered   *location.List

	hash     [32]byte
	modified bool

	truncateOnSave bool
	partial        bool
}

// New wraps data, which the buffer takes ownership of.
func New(filename string, data []byte) *Buffer {
	b := &Buffer{
		filename:   filename,
		data:       data,
		patches:    map[int]byte{},
		highlights: highlight.New(),
		locations:  location.NewList(),
	}

	b.ResetHash()

	return b
}

func (b *Buffer) Filename() string {
	return b.filename
}

func (b *Buffer) SetFilename(filename string) {
	b.filename = filename
}

func (b *Buffer) Len() int {
	return len(b.data)
}

// Bytes exposes the current content. Callers must not modify it.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Slice returns the bytes in [start, end), clamped to the buffer.
func (b *Buffer) Slice(start, end int) []byte {
	start = max(0, min(start, len(b.data)))
	end = max(start, min(end, len(b.data)))

	return b.data[start:end]
}

func (b *Buffer) Get(offset int) (byte, bool) {
	if offset < 0 || offset >= len(b.data) {
		return 0, false
	}

	return b.data[offset], true
}

// Set writes value at offset. Writing exactly one past the end appends. The
// original byte is recorded only on the first modification of an offset.
func (b *Buffer) Set(offset int, value byte) bool {
	switch {
	case offset == len(b.data):
		b.data = append(b.data, value)

		if _, ok := b.patches[offset]; !ok {
			b.patches[offset] = 0
		}
	case offset >= 0 && offset < len(b.data):
		if b.data[offset] == value {
			return false
		}

		if _, ok := b.patches[offset]; !ok {
			b.patches[offset] = b.data[offset]
		}

		b.data[offset] = value
	default:
		return false
	}

	b.updateModified()

	return true
}

// Fill writes pattern repeatedly over [start, end), clamped to the buffer,
// and returns how many bytes changed. Originals are recorded as in Set.
func (b *Buffer) Fill(start, end int, pattern []byte) int {
	if len(pattern) == 0 {
		return 0
	}

	start = max(0, start)
	end = min(end, len(b.data))
	changed := 0

	for offset := start; offset < end; offset++ {
		value := pattern[(offset-start)%len(pattern)]
		if b.data[offset] == value {
			continue
		}

		if _, ok := b.patches[offset]; !ok {
			b.patches[offset] = b.data[offset]
		}

		b.data[offset] = value
		changed++
	}

	if changed > 0 {
		b.updateModified()
	}

	return changed
}

// InsertBlock splices data in at position. Patches at or after position move
// up by len(data) and every inserted offset is marked as patched.
func (b *Buffer) InsertBlock(position int, data []byte) bool {
	if len(data) == 0 || position < 0 || position > len(b.data) {
		return false
	}

	n := len(data)
	patches := make(map[int]byte, len(b.patches)+n)

	for offset, original := range b.patches {
		if offset >= position {
			offset += n
		}

		patches[offset] = original
	}

	for i := position; i < position+n; i++ {
		patches[i] = 0
	}

	b.patches = patches
	b.data = slices.Insert(b.data, position, data...)
	b.updateModified()

	return true
}

// RemoveBlock deletes the selected bytes. Patches inside the block are
// dropped and those after it move down. The selection is cleared.
func (b *Buffer) RemoveBlock() (int, bool) {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return 0, false
	}

	n := end - start + 1
	patches := make(map[int]byte, len(b.patches))

	for offset, original := range b.patches {
		switch {
		case offset < start:
			patches[offset] = original
		case offset > end:
			patches[offset-n] = original
		}
	}

	b.patches = patches
	b.data = slices.Delete(b.data, start, end+1)
	b.selection = nil
	b.truncateOnSave = true
	b.updateModified()

	return n, true
}

// UnpatchOffset restores the original byte at offset.
func (b *Buffer) UnpatchOffset(offset int) bool {
	original, ok := b.patches[offset]
	if !ok {
		return false
	}

	if offset < len(b.data) {
		b.data[offset] = original
	}

	delete(b.patches, offset)
	b.updateModified()

	return true
}

// UnpatchRange restores every patched offset in [start, end) and returns how
// many were restored.
func (b *Buffer) UnpatchRange(start, end int) int {
	var offsets []int

	if len(b.patches) < end-start {
		for offset := range b.patches {
			if offset >= start && offset < end {
				offsets = append(offsets, offset)
			}
		}
	} else {
		for offset := max(0, start); offset < end; offset++ {
			if _, ok := b.patches[offset]; ok {
				offsets = append(offsets, offset)
			}
		}
	}

	for _, offset := range offsets {
		if offset < len(b.data) {
			b.data[offset] = b.patches[offset]
		}

		delete(b.patches, offset)
	}

	if len(offsets) > 0 {
		b.updateModified()
	}

	return len(offsets)
}

func (b *Buffer) IsPatched(offset int) bool {
	_, ok := b.patches[offset]
	return ok
}

func (b *Buffer) PatchCount() int {
	return len(b.patches)
}

// Patches returns every patch sorted by offset.
func (b *Buffer) Patches() []Patch {
	patches := make([]Patch, 0, len(b.patches))

	for offset, original := range b.patches {
		patches = append(patches, Patch{Offset: offset, Original: original})
	}

	slices.SortFunc(patches, func(a, b Patch) int {
		return a.Offset - b.Offset
	})

	return patches
}

// NextPatch returns the first patched offset strictly after offset.
func (b *Buffer) NextPatch(offset int) (int, bool) {
	for _, patch := range b.Patches() {
		if patch.Offset > offset {
			return patch.Offset, true
		}
	}

	return 0, false
}

func (b *Buffer) ClearPatches() {
	b.patches = map[int]byte{}
}

// IsModified reports whether the content differs from what was last loaded
// or saved. Editing a byte and then writing its old value back is not a
// modification.
func (b *Buffer) IsModified() bool {
	return b.modified
}

// ResetHash takes the current content as the new baseline. Patches are kept;
// see ClearPatches.
func (b *Buffer) ResetHash() {
	b.hash = blake3.Sum256(b.data)
	b.modified = false
}

func (b *Buffer) updateModified() {
	b.modified = blake3.Sum256(b.data) != b.hash
}

func (b *Buffer) Position() int {
	return b.position
}

func (b *Buffer) SetPosition(position int) {
	b.position = max(0, position)
}

// SetSelection records an anchor and a head. They are not ordered.
func (b *Buffer) SetSelection(anchor, head int) {
	b.selection = &selection{anchor: anchor, head: head}
}

func (b *Buffer) ClearSelection() {
	b.selection = nil
}

// Selection returns the raw anchor and head.
func (b *Buffer) Selection() (anchor int, head int, ok bool) {
	if b.selection == nil {
		return 0, 0, false
	}

	return b.selection.anchor, b.selection.head, true
}

// SelectionBounds returns the ordered, inclusive selection clamped to the
// buffer. It fails when there is no selection or it starts past the end.
func (b *Buffer) SelectionBounds() (start int, end int, ok bool) {
	if b.selection == nil {
		return 0, 0, false
	}

	start = max(0, min(b.selection.anchor, b.selection.head))
	end = min(max(b.selection.anchor, b.selection.head), len(b.data)-1)

	if start >= len(b.data) || end < start {
		return 0, 0, false
	}

	return start, end, true
}

func (b *Buffer) IsSelected(offset int) bool {
	if b.selection == nil {
		return false
	}

	return offset >= min(b.selection.anchor, b.selection.head) &&
		offset <= max(b.selection.anchor, b.selection.head)
}

func (b *Buffer) Highlights() *highlight.List {
	return b.highlights
}

func (b *Buffer) Locations() *location.List {
	return b.locations
}

// SetLocations replaces the location list and drops any filter on it.
func (b *Buffer) SetLocations(locations *location.List) {
	if locations == nil {
		locations = location.NewList()
	}

	b.locations = locations
	b.filtered = nil
}

// FilteredLocations returns the filtered copy, nil when no filter is active.
func (b *Buffer) FilteredLocations() *location.List {
	return b.filtered
}

func (b *Buffer) SetFilteredLocations(filtered *location.List) {
	b.filtered = filtered
}

// ActiveLocations is the list navigation works on: the filtered copy when one
// exists, otherwise the full list.
func (b *Buffer) ActiveLocations() *location.List {
	if b.filtered != nil {
		return b.filtered
	}

	return b.locations
}

// Partial reports whether the buffer was cut short by a load size limit.
func (b *Buffer) Partial() bool {
	return b.partial
}

// TruncateOnSave reports whether the buffer shrank since it was loaded, so a
// save must truncate the target rather than overwrite it in place.
func (b *Buffer) TruncateOnSave() bool {
	return b.truncateOnSave
}
