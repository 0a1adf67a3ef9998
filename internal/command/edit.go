package command

import (
	"bytes"
	"fmt"

	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/location"
)

func (e *Editor) bookmark(b *buffer.Buffer, c Bookmark) (Result, error) {
	offset, size := b.Position(), 0
	if start, end, ok := b.SelectionBounds(); ok {
		offset, size = start, end-start+1
	}

	name := c.Label
	if name == "" {
		name = fmt.Sprintf("bookmark 0x%x", offset)
	}

	b.Locations().Add(location.Location{Name: name, Offset: offset, Size: size})
	b.SetFilteredLocations(nil)

	return Result{Message: fmt.Sprintf("bookmarked %s", name)}, nil
}

func (e *Editor) nextLocation(b *buffer.Buffer, forward bool) (Result, error) {
	list := b.ActiveLocations()

	step := list.Previous
	if forward {
		step = list.Next
	}

	l, ok := step()
	if !ok {
		return Result{}, ErrNoLocations
	}

	e.moveTo(b, l.Offset)

	return Result{Message: fmt.Sprintf("%d/%d %s", list.CurrentIndex()+1, list.Len(), l.Name)}, nil
}

func (e *Editor) removeLocation(b *buffer.Buffer) (Result, error) {
	list := b.ActiveLocations()

	current, ok := list.Current()
	if !ok {
		return Result{}, ErrNoLocations
	}

	// removing from the filtered view removes from the full list too
	if list != b.Locations() {
		if idx, ok := b.Locations().IndexOf(current); ok {
			b.Locations().Remove(idx)
		}
	}

	list.RemoveCurrent()

	return Result{Message: fmt.Sprintf("removed %s", current.Name)}, nil
}

func (e *Editor) renameLocation(b *buffer.Buffer, c RenameLocation) (Result, error) {
	if c.NewName == "" {
		return Result{}, fmt.Errorf("%w: rename needs a name", ErrSyntax)
	}

	list := b.ActiveLocations()

	current, ok := list.Current()
	if !ok {
		return Result{}, ErrNoLocations
	}

	if list != b.Locations() {
		if idx, ok := b.Locations().IndexOf(current); ok {
			b.Locations().Rename(idx, c.NewName)
		}
	}

	list.RenameCurrent(c.NewName)

	return Result{Message: fmt.Sprintf("renamed %s to %s", current.Name, c.NewName)}, nil
}

func (e *Editor) filterLocations(b *buffer.Buffer, c FilterLocations) (Result, error) {
	if c.Substring == "" {
		b.SetFilteredLocations(nil)
		return Result{Message: fmt.Sprintf("%d locations", b.Locations().Len())}, nil
	}

	filtered := b.Locations().Filter(c.Substring)
	if filtered.IsEmpty() {
		return Result{}, fmt.Errorf("location matching '%s' %w", c.Substring, ErrNotFound)
	}

	b.SetFilteredLocations(filtered)

	return Result{Message: fmt.Sprintf("%d of %d locations", filtered.Len(), b.Locations().Len())}, nil
}

func (e *Editor) highlight(b *buffer.Buffer, c Highlight) (Result, error) {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return Result{}, buffer.ErrNoSelection
	}

	b.Highlights().Add(start, end, c.Color)

	return Result{Message: fmt.Sprintf("0x%x-0x%x %s", start, end, c.Color)}, nil
}

func (e *Editor) selectRange(b *buffer.Buffer, c Select) (Result, error) {
	if c.Start < 0 || c.End < 0 || c.Start >= b.Len() || c.End >= b.Len() {
		return Result{}, fmt.Errorf("select 0x%x-0x%x: %w", c.Start, c.End, buffer.ErrOutOfRange)
	}

	b.SetSelection(c.Start, c.End)

	return Result{Message: fmt.Sprintf("%d bytes selected", max(c.Start, c.End)-min(c.Start, c.End)+1)}, nil
}

func (e *Editor) yank(b *buffer.Buffer) (Result, error) {
	start, end, ok := b.SelectionBounds()
	if !ok {
		return Result{}, buffer.ErrNoSelection
	}

	e.register = bytes.Clone(b.Slice(start, end+1))

	return Result{Message: fmt.Sprintf("yanked %d bytes", len(e.register))}, nil
}

func (e *Editor) insertBlock(b *buffer.Buffer, c InsertBlock) (Result, error) {
	data := c.Data
	if data == nil {
		data = e.register
	}

	if len(data) == 0 {
		return Result{}, ErrEmptyRegister
	}

	if !b.InsertBlock(b.Position(), bytes.Clone(data)) {
		return Result{}, fmt.Errorf("insert at 0x%x: %w", b.Position(), buffer.ErrOutOfRange)
	}

	return Result{Message: fmt.Sprintf("inserted %d bytes", len(data))}, nil
}

func (e *Editor) deleteBlock(b *buffer.Buffer) (Result, error) {
	start, _, ok := b.SelectionBounds()
	if !ok {
		return Result{}, buffer.ErrNoSelection
	}

	n, _ := b.RemoveBlock()
	b.SetPosition(clamp(b, start))

	return Result{Message: fmt.Sprintf("deleted %d bytes", n)}, nil
}

func (e *Editor) fillBlock(b *buffer.Buffer, c FillBlock) (Result, error) {
	if len(c.Pattern) == 0 {
		return Result{}, fmt.Errorf("%w: empty fill pattern", ErrSyntax)
	}

	start, end, ok := b.SelectionBounds()
	if !ok {
		return Result{}, buffer.ErrNoSelection
	}

	b.Fill(start, end+1, c.Pattern)

	return Result{Message: fmt.Sprintf("filled %d bytes", end-start+1)}, nil
}

func (e *Editor) setByte(b *buffer.Buffer, c SetByte) (Result, error) {
	if c.Offset < 0 || c.Offset > b.Len() {
		return Result{}, fmt.Errorf("set 0x%x: %w", c.Offset, buffer.ErrOutOfRange)
	}

	if !b.Set(c.Offset, c.Value) {
		return Result{Message: "unchanged"}, nil
	}

	return Result{Message: fmt.Sprintf("0x%x = 0x%02x", c.Offset, c.Value)}, nil
}

func (e *Editor) unpatch(b *buffer.Buffer) (Result, error) {
	start, end := b.Position(), b.Position()
	if s, t, ok := b.SelectionBounds(); ok {
		start, end = s, t
	}

	restored := b.UnpatchRange(start, end+1)

	return Result{Message: fmt.Sprintf("restored %d bytes", restored)}, nil
}
