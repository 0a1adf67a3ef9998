package buffer

import "errors"

var (
	// ErrNoSelection indicates that a block operation needs a selection.
	ErrNoSelection = errors.New("no selection")

	// ErrOutOfRange indicates an offset past the end of the buffer.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrPartialBuffer indicates an attempt to overwrite the source file of a
	// buffer that was loaded with a size limit, which would drop its tail.
	ErrPartialBuffer = errors.New("buffer holds only part of its file")
)
