package command

import (
	"fmt"

	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/search"
	"github.com/timmattison/hexed/internal/signature"
	"github.com/timmattison/hexed/internal/structs"
)

// replaceLocations installs a freshly built list and moves to its first entry.
func (e *Editor) replaceLocations(b *buffer.Buffer, list *location.List, what string) Result {
	b.SetLocations(list)

	if first, ok := list.Current(); ok {
		e.moveTo(b, first.Offset)
	}

	return Result{Message: fmt.Sprintf("%d %s", list.Len(), what)}
}

func (e *Editor) find(b *buffer.Buffer, c Find) (Result, error) {
	offset, err := search.Find(b.Bytes(), b.Position()+1, c.Pattern)
	if err != nil {
		return Result{}, err
	}

	e.moveTo(b, offset)

	return Result{Message: fmt.Sprintf("found at 0x%x", offset)}, nil
}

func (e *Editor) findAll(b *buffer.Buffer, c FindAll) (Result, error) {
	list, err := search.FindAll(b.Bytes(), c.Pattern)
	if err != nil {
		return Result{}, err
	}

	return e.replaceLocations(b, list, "matches"), nil
}

func (e *Editor) findString(b *buffer.Buffer, c FindString) (Result, error) {
	offset, err := search.FindString(b.Bytes(), b.Position()+1, e.config.MinStringSize, c.Substring)
	if err != nil {
		return Result{}, err
	}

	e.moveTo(b, offset)

	return Result{Message: fmt.Sprintf("string at 0x%x", offset)}, nil
}

func (e *Editor) findAllStrings(b *buffer.Buffer, c FindAllStrings) (Result, error) {
	list, err := search.FindAllStrings(b.Bytes(), e.config.MinStringSize, c.Substring)
	if err != nil {
		return Result{}, err
	}

	return e.replaceLocations(b, list, "strings"), nil
}

func (e *Editor) findDiff(b *buffer.Buffer) (Result, error) {
	offset, err := search.FindDiff(b.Bytes(), e.others(b), b.Position()+1)
	if err != nil {
		return Result{}, err
	}

	e.moveTo(b, offset)

	return Result{Message: fmt.Sprintf("difference at 0x%x", offset)}, nil
}

func (e *Editor) findAllDiffs(b *buffer.Buffer) (Result, error) {
	list, err := search.FindAllDiffs(b.Bytes(), e.others(b))
	if err != nil {
		return Result{}, err
	}

	return e.replaceLocations(b, list, "differences"), nil
}

func (e *Editor) findPatch(b *buffer.Buffer) (Result, error) {
	offset, ok := b.NextPatch(b.Position())
	if !ok {
		return Result{}, fmt.Errorf("patch after 0x%x %w", b.Position(), ErrNotFound)
	}

	e.moveTo(b, offset)

	return Result{Message: fmt.Sprintf("patch at 0x%x", offset)}, nil
}

// findAllPatches lists runs of consecutive patched offsets.
func (e *Editor) findAllPatches(b *buffer.Buffer) (Result, error) {
	patches := b.Patches()
	if len(patches) == 0 {
		return Result{}, fmt.Errorf("patch %w", ErrNotFound)
	}

	list := location.NewList()

	for i := 0; i < len(patches); {
		j := i + 1
		for j < len(patches) && patches[j].Offset == patches[j-1].Offset+1 {
			j++
		}

		size := j - i
		list.Add(location.Location{Name: fmt.Sprintf("patch %d bytes", size), Offset: patches[i].Offset, Size: size})
		i = j
	}

	return e.replaceLocations(b, list, "patched ranges"), nil
}

func (e *Editor) findAllHeaders(b *buffer.Buffer) (Result, error) {
	list := signature.Scan(b.Bytes())
	if list.IsEmpty() {
		return Result{}, fmt.Errorf("header %w", ErrNotFound)
	}

	return e.replaceLocations(b, list, "headers"), nil
}

// parseHeader decodes the format starting at the cursor. Field offsets are
// reported relative to the whole buffer.
func (e *Editor) parseHeader(b *buffer.Buffer) (Result, error) {
	start := b.Position()

	format, fields, err := structs.Parse(b.Slice(start, b.Len()))
	if err != nil {
		return Result{}, err
	}

	list := fields.Shift(start)
	b.SetLocations(list)

	return Result{Message: fmt.Sprintf("%s: %d fields", format, list.Len())}, nil
}

func (e *Editor) entropy(b *buffer.Buffer) (Result, error) {
	list, err := search.CalculateEntropy(b.Bytes(), e.config.EntropyBlockSize, e.config.EntropyMargin)
	if err != nil {
		return Result{}, err
	}

	return e.replaceLocations(b, list, "entropy regions"), nil
}

func (e *Editor) histogram(b *buffer.Buffer) (Result, error) {
	data := b.Bytes()
	if start, end, ok := b.SelectionBounds(); ok {
		data = b.Slice(start, end+1)
	}

	counts := search.Histogram(data)

	top := 0
	for value, count := range counts {
		if count > counts[top] {
			top = value
		}
	}

	return Result{
		Message:   fmt.Sprintf("%d bytes, most common 0x%02x (%d)", len(data), top, counts[top]),
		Histogram: &counts,
	}, nil
}
