// Package command implements the operations a user can run against the open
// buffers. Every operation is a value of one of the types below, executed by
// an Editor. Operations validate their input before touching any buffer, so
// a command that fails leaves all buffers as they were.
package command

import (
	"github.com/timmattison/hexed/internal/highlight"
)

// Command is one editor operation with its parameters.
type Command interface {
	// Name is the word that invokes the command on the command line.
	Name() string
}

// Goto moves the cursor to Offset, or by Offset when Relative is set. The
// target is clamped to the buffer.
type Goto struct {
	Offset   int
	Relative bool
}

// Find moves to the next occurrence of Pattern after the cursor.
type Find struct{ Pattern []byte }

// FindAll replaces the location list with every occurrence of Pattern.
type FindAll struct{ Pattern []byte }

// FindString moves to the next printable string after the cursor that is at
// least min_string_size long and contains Substring.
type FindString struct{ Substring []byte }

// FindAllStrings replaces the location list with every qualifying string.
type FindAllStrings struct{ Substring []byte }

// FindDiff moves to the next offset where the active buffer differs from any
// other open buffer.
type FindDiff struct{}

// FindAllDiffs replaces the location list with every differing stretch.
type FindAllDiffs struct{}

// FindPatch moves to the next patched offset after the cursor. It does not
// wrap around.
type FindPatch struct{}

// FindAllPatches replaces the location list with every run of patched bytes.
type FindAllPatches struct{}

// FindAllHeaders replaces the location list with every recognised header.
type FindAllHeaders struct{}

// ParseHeader decodes the structure starting at the cursor into the location
// list.
type ParseHeader struct{}

// Bookmark adds a location at the selection, or at the cursor when nothing
// is selected.
type Bookmark struct{ Label string }

type NextLocation struct{}

type PreviousLocation struct{}

// RemoveLocation drops the current location.
type RemoveLocation struct{}

// RenameLocation renames the current location.
type RenameLocation struct{ NewName string }

// FilterLocations keeps only locations whose name contains Substring. An
// empty Substring removes the filter.
type FilterLocations struct{ Substring string }

type ClearLocations struct{}

// Highlight colours the selected bytes.
type Highlight struct{ Color highlight.Color }

type ClearHighlights struct{}

// Select sets the selection anchor and head.
type Select struct{ Start, End int }

type ClearSelection struct{}

// Yank copies the selected bytes into the register.
type Yank struct{}

// InsertBlock inserts Data at the cursor. A nil Data inserts the register.
type InsertBlock struct{ Data []byte }

// DeleteBlock removes the selected bytes.
type DeleteBlock struct{}

// FillBlock overwrites the selection with Pattern repeated.
type FillBlock struct{ Pattern []byte }

// SetByte writes a single byte. Offset may be one past the end to append.
type SetByte struct {
	Offset int
	Value  byte
}

// Unpatch restores original bytes in the selection, or at the cursor.
type Unpatch struct{}

// Entropy replaces the location list with regions of similar entropy.
type Entropy struct{}

// Histogram counts byte values in the selection, or in the whole buffer.
type Histogram struct{}

// Set changes a configuration variable.
type Set struct{ Variable, Value string }

// Save writes the active buffer to Filename, or to its own file when
// Filename is empty. Force allows overwriting the source of a partial load.
type Save struct {
	Filename string
	Force    bool
}

// Open loads a file into a new buffer and makes it active.
type Open struct{ Filename string }

// Close closes the active buffer. Unsaved changes need Force.
type Close struct{ Force bool }

type NextBuffer struct{}

type PreviousBuffer struct{}

// LockBuffers toggles moving all buffers together.
type LockBuffers struct{}

func (Goto) Name() string             { return "goto" }
func (Find) Name() string             { return "find" }
func (FindAll) Name() string          { return "findall" }
func (FindString) Name() string       { return "findstr" }
func (FindAllStrings) Name() string   { return "findallstr" }
func (FindDiff) Name() string         { return "finddiff" }
func (FindAllDiffs) Name() string     { return "findalldiffs" }
func (FindPatch) Name() string        { return "findpatch" }
func (FindAllPatches) Name() string   { return "findallpatches" }
func (FindAllHeaders) Name() string   { return "headers" }
func (ParseHeader) Name() string      { return "parse" }
func (Bookmark) Name() string         { return "bookmark" }
func (NextLocation) Name() string     { return "next" }
func (PreviousLocation) Name() string { return "prev" }
func (RemoveLocation) Name() string   { return "remove" }
func (RenameLocation) Name() string   { return "rename" }
func (FilterLocations) Name() string  { return "filter" }
func (ClearLocations) Name() string   { return "clearlocations" }
func (Highlight) Name() string        { return "highlight" }
func (ClearHighlights) Name() string  { return "clearhighlights" }
func (Select) Name() string           { return "select" }
func (ClearSelection) Name() string   { return "deselect" }
func (Yank) Name() string             { return "yank" }
func (InsertBlock) Name() string      { return "insert" }
func (DeleteBlock) Name() string      { return "delete" }
func (FillBlock) Name() string        { return "fill" }
func (SetByte) Name() string          { return "setbyte" }
func (Unpatch) Name() string          { return "unpatch" }
func (Entropy) Name() string          { return "entropy" }
func (Histogram) Name() string        { return "histogram" }
func (Set) Name() string              { return "set" }
func (Save) Name() string             { return "save" }
func (Open) Name() string             { return "open" }
func (Close) Name() string            { return "close" }
func (NextBuffer) Name() string       { return "bn" }
func (PreviousBuffer) Name() string   { return "bp" }
func (LockBuffers) Name() string      { return "lock" }

// Result is what a successful command reports back.
type Result struct {
	Message string

	// Histogram is set by the Histogram command only.
	Histogram *[256]int
}
