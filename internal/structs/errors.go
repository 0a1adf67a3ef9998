package structs

import "errors"

var (
	// ErrTruncated indicates a field that would be read past the end of the data.
	ErrTruncated = errors.New("truncated")

	// ErrInvalidSignature indicates data that does not start with the expected header.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformed indicates a structurally impossible value, such as a block
	// length smaller than its own header.
	ErrMalformed = errors.New("malformed")

	// ErrUnsupported indicates a recognised format with no structure parser.
	ErrUnsupported = errors.New("no structure parser")
)
