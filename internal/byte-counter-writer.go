package internal

import "io"

var _ io.Writer = (*ByteCounterWriter)(nil)

// ByteCounterWriter counts the bytes that actually reached Writer, so a save
// that fails halfway can still report how much was written.
type ByteCounterWriter struct {
	Writer io.Writer
	count  int64
}

func (bcw *ByteCounterWriter) Write(p []byte) (int, error) {
	n, err := bcw.Writer.Write(p)
	bcw.count += int64(n)

	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}

	return n, err
}

func (bcw *ByteCounterWriter) Count() int64 {
	return bcw.count
}
