package main_model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timmattison/hexed/internal/command"
)

func (m MainModel) Update(untypedMessage tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch typedMessage := untypedMessage.(type) {
	case tea.WindowSizeMsg:
		m.WindowWidth = typedMessage.Width
		m.WindowHeight = typedMessage.Height
		m.CommandInput.Width = max(1, typedMessage.Width-2)
	case tea.KeyMsg:
		if typedMessage.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}

		switch m.Mode {
		case ModeCommand:
			m, cmd = m.updateCommand(typedMessage)
		case ModeReplace:
			m = m.updateReplace(typedMessage)
		default:
			m, cmd = m.updateNormal(typedMessage)
		}
	}

	m.scrollToCursor()

	return m, cmd
}

func (m MainModel) updateNormal(key tea.KeyMsg) (MainModel, tea.Cmd) {
	keyName := key.String()

	if keyName != "q" {
		m.ConfirmQuit = false
	}

	// the histogram view is dismissed by any key
	m.Histogram = nil

	bytesPerLine := m.Editor.Config().BytesPerLine

	switch keyName {
	case "left", "h":
		m = m.move(-1)
	case "right", "l":
		m = m.move(1)
	case "up", "k":
		m = m.move(-bytesPerLine)
	case "down", "j":
		m = m.move(bytesPerLine)
	case "pgup", "ctrl+b":
		m = m.move(-bytesPerLine * m.visibleRows())
	case "pgdown", "ctrl+f":
		m = m.move(bytesPerLine * m.visibleRows())
	case "home", "g":
		m = m.jump(0)
	case "end", "G":
		if b := m.Editor.Active(); b != nil {
			m = m.jump(b.Len() - 1)
		}
	case "v":
		m = m.toggleSelection()
	case "esc":
		m = m.run(command.ClearSelection{})
	case "y":
		return m.yank()
	case "p":
		m = m.run(command.InsertBlock{})
	case "d", "delete":
		m = m.run(command.DeleteBlock{})
	case "u":
		m = m.run(command.Unpatch{})
	case "b":
		m = m.run(command.Bookmark{})
	case "n":
		m = m.run(command.NextLocation{})
	case "N":
		m = m.run(command.PreviousLocation{})
	case "]":
		m = m.run(command.NextBuffer{})
	case "[":
		m = m.run(command.PreviousBuffer{})
	case "L":
		m = m.run(command.LockBuffers{})
	case "ctrl+s":
		m = m.run(command.Save{})
	case "r":
		if m.Editor.Active() != nil {
			m.Mode = ModeReplace
			m.PendingNibble = -1
			m.Message = "-- REPLACE --"
			m.Err = nil
		}
	case "?":
		m.ShowHelp = !m.ShowHelp
	case ":":
		return m.startCommand("")
	case "/":
		return m.startCommand("find ")
	case "q":
		return m.quit(false)
	}

	return m, nil
}

func (m MainModel) updateCommand(key tea.KeyMsg) (MainModel, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.Mode = ModeNormal
		m.CommandInput.Blur()
		m.CommandInput.Reset()

		return m, nil
	case tea.KeyEnter:
		line := strings.TrimSpace(m.CommandInput.Value())

		m.Mode = ModeNormal
		m.CommandInput.Blur()
		m.CommandInput.Reset()

		return m.runLine(line)
	}

	var cmd tea.Cmd

	m.CommandInput, cmd = m.CommandInput.Update(key)

	return m, cmd
}

// updateReplace overwrites the byte under the cursor one hex digit at a time.
func (m MainModel) updateReplace(key tea.KeyMsg) MainModel {
	switch key.Type {
	case tea.KeyEsc:
		m.Mode = ModeNormal
		m.PendingNibble = -1
		m.Message = ""

		return m
	case tea.KeyBackspace:
		m.PendingNibble = -1
		return m.move(-1)
	case tea.KeyLeft:
		m.PendingNibble = -1
		return m.move(-1)
	case tea.KeyRight:
		m.PendingNibble = -1
		return m.move(1)
	case tea.KeyRunes:
	default:
		return m
	}

	for _, r := range key.Runes {
		nibble, ok := hexDigit(r)
		if !ok {
			m.Err = fmt.Errorf("%q is not a hex digit", r)
			continue
		}

		if m.PendingNibble < 0 {
			m.PendingNibble = nibble
			continue
		}

		b := m.Editor.Active()
		offset := b.Position()
		value := byte(m.PendingNibble<<4 | nibble)
		m.PendingNibble = -1

		if _, err := m.Editor.Execute(command.SetByte{Offset: offset, Value: value}); err != nil {
			m.Err = err
			continue
		}

		m.Err = nil

		if offset+1 < b.Len() {
			m = m.move(1)
		}
	}

	return m
}

func hexDigit(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, true
	}

	return 0, false
}

func (m MainModel) startCommand(prefix string) (MainModel, tea.Cmd) {
	m.Mode = ModeCommand
	m.CommandInput.SetValue(prefix)
	m.CommandInput.CursorEnd()
	focus := m.CommandInput.Focus()

	return m, tea.Batch(focus, textinput.Blink)
}

// runLine handles the editor-level words first, everything else goes to
// the command parser.
func (m MainModel) runLine(line string) (MainModel, tea.Cmd) {
	switch line {
	case "":
		return m, nil
	case "q", "quit":
		return m.quit(false)
	case "q!", "quit!":
		return m.quit(true)
	case "wq":
		m = m.run(command.Save{})
		if m.Err != nil {
			return m, nil
		}

		return m.quit(false)
	case "help":
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	cmd, err := command.Parse(line)
	if err != nil {
		m.Err = err
		return m, nil
	}

	if _, ok := cmd.(command.Yank); ok {
		return m.yank()
	}

	return m.run(cmd), nil
}

func (m MainModel) quit(force bool) (MainModel, tea.Cmd) {
	modified := m.Editor.Modified()

	if force || len(modified) == 0 || m.ConfirmQuit {
		return m, tea.Quit
	}

	m.ConfirmQuit = true
	m.Err = fmt.Errorf("%d buffer(s) have unsaved changes, press q again or use :q! to discard them", len(modified))

	return m, nil
}

// run executes cmd and records its message or error for the status area.
func (m MainModel) run(cmd command.Command) MainModel {
	result, err := m.Editor.Execute(cmd)
	if err != nil {
		m.Err = err
		return m
	}

	m.Err = nil
	m.Message = result.Message
	m.Histogram = result.Histogram

	if b := m.Editor.Active(); b != nil {
		if _, _, ok := b.Selection(); !ok {
			m.Selecting = false
		}
	} else {
		m.Selecting = false
	}

	// the scheme may have changed through set
	m.Styles = NewStyles(m.Editor.Config().ColorScheme)

	return m
}

func (m MainModel) yank() (MainModel, tea.Cmd) {
	m = m.run(command.Yank{})

	if m.Err != nil || !m.ClipboardEnabled {
		return m, nil
	}

	m.Logger.Debug("Copying yanked bytes to clipboard", "bytes", len(m.Editor.Register()))

	return m, CopyToClipboard(m.Editor.Register())
}

// move shifts the cursor by delta without replacing the status message.
func (m MainModel) move(delta int) MainModel {
	if m.Editor.Active() == nil {
		return m
	}

	if _, err := m.Editor.Execute(command.Goto{Offset: delta, Relative: true}); err != nil {
		m.Err = err
		return m
	}

	return m.extendSelection()
}

func (m MainModel) jump(offset int) MainModel {
	if m.Editor.Active() == nil {
		return m
	}

	if _, err := m.Editor.Execute(command.Goto{Offset: offset}); err != nil {
		m.Err = err
		return m
	}

	return m.extendSelection()
}

func (m MainModel) extendSelection() MainModel {
	if b := m.Editor.Active(); b != nil && m.Selecting {
		b.SetSelection(m.Anchor, b.Position())
	}

	return m
}

func (m MainModel) toggleSelection() MainModel {
	b := m.Editor.Active()
	if b == nil {
		return m
	}

	if m.Selecting {
		m.Selecting = false
		return m
	}

	m.Selecting = true
	m.Anchor = b.Position()
	b.SetSelection(m.Anchor, m.Anchor)

	return m
}

func (m MainModel) visibleRows() int {
	// buffer tabs, status line, message line and command line
	rows := m.WindowHeight - 4

	if m.ShowHelp {
		rows -= len(helpLines)
	}

	return max(1, rows)
}

// scrollToCursor keeps the cursor row on screen.
func (m *MainModel) scrollToCursor() {
	b := m.Editor.Active()
	if b == nil {
		m.Top = 0
		return
	}

	row := b.Position() / m.Editor.Config().BytesPerLine
	rows := m.visibleRows()

	if row < m.Top {
		m.Top = row
	}

	if row >= m.Top+rows {
		m.Top = row - rows + 1
	}
}
