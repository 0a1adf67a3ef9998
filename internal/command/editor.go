package command

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/config"
)

// Editor owns the open buffers, the active buffer index, the yank register
// and the configuration shared by every command.
type Editor struct {
	buffers  []*buffer.Buffer
	active   int
	register []byte
	config   *config.Config
	logger   *log.Logger
}

// New creates an editor over buffers. A nil cfg means the defaults and a nil
// logger discards everything.
func New(cfg *config.Config, logger *log.Logger, buffers ...*buffer.Buffer) *Editor {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Editor{
		buffers: buffers,
		config:  cfg,
		logger:  logger,
	}
}

func (e *Editor) Config() *config.Config {
	return e.config
}

func (e *Editor) Buffers() []*buffer.Buffer {
	return e.buffers
}

func (e *Editor) ActiveIndex() int {
	return e.active
}

// Active returns the active buffer, nil when none is open.
func (e *Editor) Active() *buffer.Buffer {
	if len(e.buffers) == 0 {
		return nil
	}

	return e.buffers[e.active]
}

// Register returns the bytes last yanked.
func (e *Editor) Register() []byte {
	return e.register
}

// Modified lists the buffers with unsaved changes.
func (e *Editor) Modified() []*buffer.Buffer {
	var modified []*buffer.Buffer

	for _, b := range e.buffers {
		if b.IsModified() {
			modified = append(modified, b)
		}
	}

	return modified
}

// Execute runs cmd against the active buffer.
func (e *Editor) Execute(cmd Command) (Result, error) {
	e.logger.Debug("Executing command", "command", cmd.Name(), "args", fmt.Sprintf("%+v", cmd))

	result, err := e.execute(cmd)
	if err != nil {
		e.logger.Warn("Command failed", "command", cmd.Name(), "error", err)
		return Result{}, err
	}

	return result, nil
}

func (e *Editor) execute(cmd Command) (Result, error) {
	// these work without an open buffer
	switch c := cmd.(type) {
	case Open:
		return e.open(c)
	case Set:
		return e.set(c)
	case LockBuffers:
		return e.lock()
	}

	b := e.Active()
	if b == nil {
		return Result{}, ErrNoBuffer
	}

	switch c := cmd.(type) {
	case Goto:
		return e.gotoOffset(b, c)
	case Find:
		return e.find(b, c)
	case FindAll:
		return e.findAll(b, c)
	case FindString:
		return e.findString(b, c)
	case FindAllStrings:
		return e.findAllStrings(b, c)
	case FindDiff:
		return e.findDiff(b)
	case FindAllDiffs:
		return e.findAllDiffs(b)
	case FindPatch:
		return e.findPatch(b)
	case FindAllPatches:
		return e.findAllPatches(b)
	case FindAllHeaders:
		return e.findAllHeaders(b)
	case ParseHeader:
		return e.parseHeader(b)
	case Bookmark:
		return e.bookmark(b, c)
	case NextLocation:
		return e.nextLocation(b, true)
	case PreviousLocation:
		return e.nextLocation(b, false)
	case RemoveLocation:
		return e.removeLocation(b)
	case RenameLocation:
		return e.renameLocation(b, c)
	case FilterLocations:
		return e.filterLocations(b, c)
	case ClearLocations:
		b.SetLocations(nil)
		return Result{Message: "locations cleared"}, nil
	case Highlight:
		return e.highlight(b, c)
	case ClearHighlights:
		b.Highlights().Clear()
		return Result{Message: "highlights cleared"}, nil
	case Select:
		return e.selectRange(b, c)
	case ClearSelection:
		b.ClearSelection()
		return Result{}, nil
	case Yank:
		return e.yank(b)
	case InsertBlock:
		return e.insertBlock(b, c)
	case DeleteBlock:
		return e.deleteBlock(b)
	case FillBlock:
		return e.fillBlock(b, c)
	case SetByte:
		return e.setByte(b, c)
	case Unpatch:
		return e.unpatch(b)
	case Entropy:
		return e.entropy(b)
	case Histogram:
		return e.histogram(b)
	case Save:
		return e.save(b, c)
	case Close:
		return e.close(b, c)
	case NextBuffer:
		return e.switchBuffer(1)
	case PreviousBuffer:
		return e.switchBuffer(-1)
	}

	return Result{}, fmt.Errorf("%s: %w", cmd.Name(), ErrUnknown)
}

// clamp limits offset to the bytes of b.
func clamp(b *buffer.Buffer, offset int) int {
	return max(0, min(offset, b.Len()-1))
}

// moveTo places the cursor of the active buffer at offset. In lock mode every
// buffer moves, each clamped to its own length.
func (e *Editor) moveTo(b *buffer.Buffer, offset int) {
	if !e.config.LockBuffers {
		b.SetPosition(clamp(b, offset))
		return
	}

	for _, other := range e.buffers {
		other.SetPosition(clamp(other, offset))
	}
}

func (e *Editor) gotoOffset(b *buffer.Buffer, c Goto) (Result, error) {
	target := c.Offset
	if c.Relative {
		target += b.Position()
	}

	e.moveTo(b, target)

	return Result{Message: fmt.Sprintf("offset 0x%x", b.Position())}, nil
}

func (e *Editor) others(b *buffer.Buffer) [][]byte {
	var others [][]byte

	for _, other := range e.buffers {
		if other != b {
			others = append(others, other.Bytes())
		}
	}

	return others
}
