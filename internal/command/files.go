package command

import (
	"fmt"
	"slices"

	"github.com/timmattison/hexed/internal/buffer"
)

func (e *Editor) open(c Open) (Result, error) {
	if c.Filename == "" {
		return Result{}, fmt.Errorf("%w: open needs a filename", ErrSyntax)
	}

	b, err := buffer.Load(c.Filename, e.config.MaxFileSize)
	if err != nil {
		return Result{}, err
	}

	e.buffers = append(e.buffers, b)
	e.active = len(e.buffers) - 1

	message := fmt.Sprintf("opened %s, %d bytes", c.Filename, b.Len())
	if b.Partial() {
		message += " (partial)"
	}

	return Result{Message: message}, nil
}

func (e *Editor) save(b *buffer.Buffer, c Save) (Result, error) {
	n, err := b.Save(c.Filename, c.Force)
	if err != nil {
		return Result{}, err
	}

	e.logger.Info("Saved buffer", "file", b.Filename(), "bytes", n)

	return Result{Message: fmt.Sprintf("wrote %d bytes to %s", n, b.Filename())}, nil
}

func (e *Editor) close(b *buffer.Buffer, c Close) (Result, error) {
	if b.IsModified() && !c.Force {
		return Result{}, fmt.Errorf("%s: %w", b.Filename(), ErrUnsaved)
	}

	e.buffers = slices.Delete(e.buffers, e.active, e.active+1)
	e.active = max(0, min(e.active, len(e.buffers)-1))

	return Result{Message: fmt.Sprintf("closed %s", b.Filename())}, nil
}

func (e *Editor) switchBuffer(step int) (Result, error) {
	n := len(e.buffers)
	e.active = ((e.active+step)%n + n) % n

	return Result{Message: fmt.Sprintf("buffer %d/%d %s", e.active+1, n, e.Active().Filename())}, nil
}

func (e *Editor) set(c Set) (Result, error) {
	if err := e.config.Set(c.Variable, c.Value); err != nil {
		return Result{}, err
	}

	value, _ := e.config.Get(c.Variable)

	return Result{Message: fmt.Sprintf("%s = %s", c.Variable, value)}, nil
}

// lock toggles lock mode. Turning it on brings every buffer to the active
// buffer's position.
func (e *Editor) lock() (Result, error) {
	e.config.LockBuffers = !e.config.LockBuffers

	if !e.config.LockBuffers {
		return Result{Message: "buffers unlocked"}, nil
	}

	if b := e.Active(); b != nil {
		e.moveTo(b, b.Position())
	}

	return Result{Message: "buffers locked"}, nil
}
