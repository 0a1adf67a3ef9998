package buffer

import (
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/timmattison/hexed/internal"
)

// Load reads a whole file into a new buffer. A positive limit caps the number
// of bytes read and marks the buffer partial when the file is longer.
func Load(filename string, limit int) (*Buffer, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory", filename)
	}

	size := fileInfo.Size()

	// mmap refuses empty files
	if size == 0 {
		return New(filename, []byte{}), nil
	}

	mapped, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("error memory mapping file: %w", err)
	}
	defer mapped.Unmap()

	n := len(mapped)
	if limit > 0 && limit < n {
		n = limit
	}

	data := make([]byte, n)
	copy(data, mapped[:n])

	b := New(filename, data)
	b.partial = n < len(mapped)

	return b, nil
}

// FromReader builds a buffer from a stream such as stdin. The name is only
// used for display until the buffer is saved under a real filename.
func FromReader(name string, reader io.Reader, limit int) (*Buffer, error) {
	if limit > 0 {
		reader = io.LimitReader(reader, int64(limit)+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	partial := false

	if limit > 0 && len(data) > limit {
		data = data[:limit]
		partial = true
	}

	b := New(name, data)
	b.partial = partial

	return b, nil
}

// Save writes the whole buffer to filename, or to the buffer's own filename
// when filename is empty. On success the baseline hash is reset and patches
// are cleared. On failure the buffer is left exactly as it was.
func (b *Buffer) Save(filename string, force bool) (int64, error) {
	if filename == "" {
		filename = b.filename
	}

	if filename == "" {
		return 0, fmt.Errorf("no filename")
	}

	if b.partial && filename == b.filename && !force {
		return 0, ErrPartialBuffer
	}

	flags := os.O_WRONLY | os.O_CREATE

	if b.truncateOnSave || filename != b.filename {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filename, flags, 0o644)
	if err != nil {
		return 0, err
	}

	counter := &internal.ByteCounterWriter{Writer: file}

	if _, err = counter.Write(b.data); err != nil {
		file.Close()
		return counter.Count(), err
	}

	if err = file.Close(); err != nil {
		return counter.Count(), err
	}

	b.filename = filename
	b.truncateOnSave = false
	b.partial = false
	b.ResetHash()
	b.ClearPatches()

	return counter.Count(), nil
}
