package main_model

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.design/x/clipboard"
	"golang.org/x/text/message"

	"github.com/timmattison/hexed/internal/command"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeCommand
	ModeReplace
)

// Options carries everything main wires into the model.
type Options struct {
	Editor           *command.Editor
	Printer          *message.Printer
	Logger           *log.Logger
	ClipboardEnabled bool
}

type MainModel struct {
	WindowWidth      int
	WindowHeight     int
	Printer          *message.Printer
	Logger           *log.Logger
	Editor           *command.Editor
	CommandInput     textinput.Model
	Styles           Styles
	Mode             Mode
	Selecting        bool
	Anchor           int
	PendingNibble    int
	Top              int
	Message          string
	Err              error
	ConfirmQuit      bool
	ShowHelp         bool
	Histogram        *[256]int
	ClipboardEnabled bool
}

func New(options Options) MainModel {
	commandInput := textinput.New()
	commandInput.Prompt = ":"
	commandInput.Placeholder = "command"

	logger := options.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return MainModel{
		Printer:          options.Printer,
		Logger:           logger,
		Editor:           options.Editor,
		CommandInput:     commandInput,
		Styles:           NewStyles(options.Editor.Config().ColorScheme),
		PendingNibble:    -1,
		ClipboardEnabled: options.ClipboardEnabled,
	}
}

// CopyToClipboard puts the hex text of data on the system clipboard.
func CopyToClipboard(data []byte) tea.Cmd {
	return func() tea.Msg {
		clipboard.Write(clipboard.FmtText, []byte(fmt.Sprintf("% x", data)))
		return nil
	}
}

func (m MainModel) Init() tea.Cmd {
	return nil
}
