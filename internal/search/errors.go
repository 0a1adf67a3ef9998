package search

import "errors"

var (
	// ErrNotFound indicates that a search produced no match.
	ErrNotFound = errors.New("not found")

	// ErrSyntax indicates a malformed pattern or parameter.
	ErrSyntax = errors.New("syntax error")
)
