package main_model

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"

	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/config"
	"github.com/timmattison/hexed/internal/highlight"
	"github.com/timmattison/hexed/internal/search"
)

var helpLines = []string{
	"arrows/hjkl move   pgup/pgdown page   g/G start/end   v select   esc deselect",
	"y yank   p paste   d delete   r replace   u unpatch   b bookmark   n/N next/prev location",
	"[/] prev/next buffer   L lock   ctrl+s save   : command   / find   ? help   q quit",
}

type Styles struct {
	Cursor     lipgloss.Style
	Selection  lipgloss.Style
	Patched    lipgloss.Style
	Location   lipgloss.Style
	Offset     lipgloss.Style
	ActiveTab  lipgloss.Style
	Tab        lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
	Highlights [highlight.White + 1]lipgloss.Style
}

func NewStyles(scheme string) Styles {
	s := Styles{
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Location:  lipgloss.NewStyle().Underline(true),
		ActiveTab: lipgloss.NewStyle().Bold(true).Reverse(true),
		Tab:       lipgloss.NewStyle(),
		Status:    lipgloss.NewStyle().Bold(true),
	}

	switch scheme {
	case config.SchemeMono:
		s.Selection = lipgloss.NewStyle().Underline(true).Bold(true)
		s.Patched = lipgloss.NewStyle().Bold(true)
		s.Offset = lipgloss.NewStyle().Faint(true)
		s.Error = lipgloss.NewStyle().Bold(true)

		for c := highlight.Red; c <= highlight.White; c++ {
			s.Highlights[c] = lipgloss.NewStyle().Italic(true)
		}

		return s
	case config.SchemeBright:
		s.Selection = lipgloss.NewStyle().Background(lipgloss.Color("244")).Foreground(lipgloss.Color("0"))
		s.Patched = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		s.Offset = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
		s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

		for c := highlight.Red; c <= highlight.White; c++ {
			s.Highlights[c] = lipgloss.NewStyle().Background(lipgloss.Color(fmt.Sprint(int(c) + 8))).Foreground(lipgloss.Color("0"))
		}

		return s
	}

	s.Selection = lipgloss.NewStyle().Background(lipgloss.Color("238"))
	s.Patched = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	s.Offset = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	for c := highlight.Red; c <= highlight.White; c++ {
		s.Highlights[c] = lipgloss.NewStyle().Background(lipgloss.Color(fmt.Sprint(int(c)))).Foreground(lipgloss.Color("0"))
	}

	return s
}

func (m MainModel) View() string {
	if m.WindowWidth == 0 {
		return "Starting..."
	}

	var output strings.Builder

	output.WriteString(m.tabs())
	output.WriteString("\n")

	b := m.Editor.Active()

	switch {
	case b == nil:
		output.WriteString(wrap.String("No buffers open. Use :open <file> or :q to quit.", m.WindowWidth))
		output.WriteString("\n")
	case m.Histogram != nil:
		output.WriteString(m.histogram())
	default:
		output.WriteString(m.dump(b))
	}

	if m.ShowHelp {
		output.WriteString(indent.String(strings.Join(helpLines, "\n"), 2))
		output.WriteString("\n")
	}

	output.WriteString(m.status(b))
	output.WriteString("\n")
	output.WriteString(m.message())
	output.WriteString("\n")

	if m.Mode == ModeCommand {
		output.WriteString(m.CommandInput.View())
	}

	return output.String()
}

func (m MainModel) tabs() string {
	var tabs []string

	for i, b := range m.Editor.Buffers() {
		name := b.Filename()
		if name == "" {
			name = "[stdin]"
		}

		if b.IsModified() {
			name += "*"
		}

		tab := fmt.Sprintf(" %d %s ", i+1, name)

		if i == m.Editor.ActiveIndex() {
			tabs = append(tabs, m.Styles.ActiveTab.Render(tab))
		} else {
			tabs = append(tabs, m.Styles.Tab.Render(tab))
		}
	}

	if m.Editor.Config().LockBuffers {
		tabs = append(tabs, m.Styles.Status.Render(" [locked]"))
	}

	return truncate.String(strings.Join(tabs, ""), uint(m.WindowWidth))
}

func (m MainModel) dump(b *buffer.Buffer) string {
	var output strings.Builder

	cfg := m.Editor.Config()
	bytesPerLine := cfg.BytesPerLine
	rows := m.visibleRows()

	current, hasCurrent := b.ActiveLocations().Current()

	for row := m.Top; row < m.Top+rows; row++ {
		start := row * bytesPerLine

		// an empty buffer still gets a row for the cursor
		if start >= b.Len() && row > 0 {
			output.WriteString("\n")
			continue
		}

		var hexPart, asciiPart strings.Builder

		hexPart.WriteString(m.Styles.Offset.Render(fmt.Sprintf("%08x", start)))
		hexPart.WriteString("  ")

		for offset := start; offset < start+bytesPerLine; offset++ {
			if offset > start && (offset-start)%8 == 0 {
				hexPart.WriteString(" ")
			}

			value, ok := b.Get(offset)
			if !ok {
				if offset == b.Position() {
					hexPart.WriteString(m.Styles.Cursor.Render("  "))
				} else {
					hexPart.WriteString("  ")
				}

				hexPart.WriteString(" ")
				asciiPart.WriteString(" ")

				continue
			}

			style, styled := m.byteStyle(b, offset, hasCurrent && current.Contains(offset))

			text := fmt.Sprintf("%02x", value)
			char := "."

			if search.IsPrintable(value) {
				char = string(rune(value))
			}

			if styled {
				text = style.Render(text)
				char = style.Render(char)
			}

			hexPart.WriteString(text)
			hexPart.WriteString(" ")
			asciiPart.WriteString(char)
		}

		line := hexPart.String()

		if cfg.ShowASCII {
			line += " |" + asciiPart.String() + "|"
		}

		output.WriteString(truncate.String(line, uint(m.WindowWidth)))
		output.WriteString("\n")
	}

	return output.String()
}

// byteStyle picks the style for one byte: cursor, then selection, then
// highlight colour, then patch marker, then the current location.
func (m MainModel) byteStyle(b *buffer.Buffer, offset int, inLocation bool) (lipgloss.Style, bool) {
	switch {
	case offset == b.Position():
		return m.Styles.Cursor, true
	case b.IsSelected(offset):
		return m.Styles.Selection, true
	}

	if color := b.Highlights().Color(offset); color != highlight.None && int(color) < len(m.Styles.Highlights) {
		return m.Styles.Highlights[color], true
	}

	switch {
	case b.IsPatched(offset):
		return m.Styles.Patched, true
	case inLocation:
		return m.Styles.Location, true
	}

	return lipgloss.Style{}, false
}

func (m MainModel) histogram() string {
	var output strings.Builder

	output.WriteString(m.Styles.Status.Render("byte histogram, any key to return"))
	output.WriteString("\n")

	for high := 0; high < 16; high++ {
		var line strings.Builder

		line.WriteString(m.Styles.Offset.Render(fmt.Sprintf("%x0", high)))

		for low := 0; low < 16; low++ {
			line.WriteString(m.Printer.Sprintf(" %7d", m.Histogram[high<<4|low]))
		}

		output.WriteString(truncate.String(line.String(), uint(m.WindowWidth)))
		output.WriteString("\n")
	}

	return output.String()
}

func (m MainModel) status(b *buffer.Buffer) string {
	if b == nil {
		return ""
	}

	parts := []string{
		m.Printer.Sprintf("0x%x (%d) / %d", b.Position(), b.Position(), b.Len()),
	}

	if value, ok := b.Get(b.Position()); ok {
		parts = append(parts, fmt.Sprintf("0x%02x %d", value, value))
	}

	if start, end, ok := b.SelectionBounds(); ok {
		parts = append(parts, m.Printer.Sprintf("sel 0x%x-0x%x (%d)", start, end, end-start+1))
	}

	if patches := b.PatchCount(); patches > 0 {
		parts = append(parts, m.Printer.Sprintf("%d patched", patches))
	}

	locations := b.ActiveLocations()
	if current, ok := locations.Current(); ok {
		parts = append(parts, fmt.Sprintf("loc %d/%d %s", locations.CurrentIndex()+1, locations.Len(), current.Name))
	}

	if b.Partial() {
		parts = append(parts, "partial")
	}

	if m.Mode == ModeReplace && m.PendingNibble >= 0 {
		parts = append(parts, fmt.Sprintf("%x_", m.PendingNibble))
	}

	return truncate.StringWithTail(m.Styles.Status.Render(strings.Join(parts, "  ")), uint(m.WindowWidth), "…")
}

func (m MainModel) message() string {
	if m.Err != nil {
		return truncate.StringWithTail(m.Styles.Error.Render(m.Err.Error()), uint(m.WindowWidth), "…")
	}

	return truncate.StringWithTail(m.Message, uint(m.WindowWidth), "…")
}
