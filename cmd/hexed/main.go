package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"
	"golang.design/x/clipboard"

	"github.com/timmattison/hexed/cmd/hexed/main-model"
	"github.com/timmattison/hexed/internal"
	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/command"
	"github.com/timmattison/hexed/internal/config"
	"github.com/timmattison/hexed/internal/version"
)

func main() {
	var showVersion = flag.BoolP("version", "V", false, "Show version information")
	var verbose = flag.BoolP("verbose", "v", false, "Log debug messages")
	var logFile = flag.String("log-file", "", "Write log messages to this file")
	var configFile = flag.StringP("config", "c", "", "Configuration file (default is the per-user config)")
	var maxFileSize = flag.Int("max-file-size", -1, "Load at most this many bytes of each file (0 for no limit)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file> [file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Interactive hex editor. Use - to read standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample: hexed firmware.bin firmware-patched.bin\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("hexed"))
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	// stderr belongs to the terminal UI, so logs go to a file or nowhere
	var logOutput io.Writer = io.Discard

	if *logFile != "" {
		file, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()

		logOutput = file
	}

	logger := log.NewWithOptions(logOutput, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
	})

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *maxFileSize >= 0 {
		if err = cfg.Set("max_file_size", fmt.Sprint(*maxFileSize)); err != nil {
			fmt.Fprintf(os.Stderr, "Error applying --max-file-size: %v\n", err)
			os.Exit(1)
		}
	}

	var buffers []*buffer.Buffer

	for _, filename := range flag.Args() {
		b, err := loadBuffer(filename, cfg.MaxFileSize)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}

		logger.Info("Loaded buffer", "file", filename, "bytes", b.Len(), "partial", b.Partial())

		buffers = append(buffers, b)
	}

	clipboardEnabled := true

	if err = clipboard.Init(); err != nil {
		logger.Warn("Failed to initialize clipboard, yank stays in the editor", "error", err)
		clipboardEnabled = false
	}

	myModel := main_model.New(main_model.Options{
		Editor:           command.New(cfg, logger, buffers...),
		Printer:          internal.GetLocalePrinter(),
		Logger:           logger,
		ClipboardEnabled: clipboardEnabled,
	})

	if _, err = tea.NewProgram(myModel, tea.WithAltScreen()).Run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		var err error

		if path, err = config.DefaultPath(); err != nil {
			return config.Default(), nil
		}
	}

	return config.Load(path)
}

func loadBuffer(filename string, limit int) (*buffer.Buffer, error) {
	// standard input has no filename until it is saved with one
	if filename == "-" {
		return buffer.FromReader("", os.Stdin, limit)
	}

	return buffer.Load(filename, limit)
}
