package command

import (
	"errors"

	"github.com/timmattison/hexed/internal/search"
)

var (
	ErrNoBuffer      = errors.New("no buffer open")
	ErrNoLocations   = errors.New("location list is empty")
	ErrEmptyRegister = errors.New("register is empty")
	ErrUnsaved       = errors.New("buffer has unsaved changes")
	ErrUnknown       = errors.New("unknown command")

	// ErrSyntax is shared with the search package so malformed patterns and
	// malformed command arguments match the same sentinel.
	ErrSyntax = search.ErrSyntax

	ErrNotFound = search.ErrNotFound
)
