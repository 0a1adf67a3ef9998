package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/timmattison/hexed/internal"
	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/config"
	"github.com/timmattison/hexed/internal/version"
)

func main() {
	var showVersion = flag.BoolP("version", "V", false, "Show version information")
	var verbose = flag.BoolP("verbose", "v", false, "Log debug messages")
	var configFile = flag.StringP("config", "c", "", "Configuration file (default is the per-user config)")
	var recursive = flag.BoolP("recursive", "r", false, "Report on every file below directory arguments")
	var suffix = flag.String("suffix", "", "With --recursive, only report on files with this suffix")
	var options reportOptions

	flag.BoolVarP(&options.AllStructures, "all-structures", "a", false, "Decode every detected header, not just the one at offset 0")
	flag.BoolVarP(&options.Strings, "strings", "s", false, "List printable strings")
	flag.BoolVar(&options.NoEntropy, "no-entropy", false, "Skip the entropy regions")
	flag.BoolVar(&options.NoHistogram, "no-histogram", false, "Skip the byte histogram")
	flag.IntVarP(&options.Top, "top", "t", 8, "Number of most common byte values to show")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file> [file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Report the headers, structures, entropy and byte histogram of binary files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("hexinfo"))
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})

	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error

	path := *configFile
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			logger.Debug("No per-user config directory", "error", err)
		}
	}

	cfg := config.Default()

	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			logger.Fatal("Failed to load configuration", "path", path, "error", err)
		}
	}

	options.Config = cfg
	options.Printer = internal.GetLocalePrinter()
	options.Logger = logger

	var nameChecker internal.NameChecker
	if *suffix != "" {
		nameChecker = internal.HasSuffixNameChecker(*suffix)
	}

	filenames, err := internal.ExpandPaths(flag.Args(), *recursive, nameChecker, logger)
	if err != nil {
		logger.Fatal("Failed to collect files", "error", err)
	}

	failed := false

	for _, filename := range filenames {
		b, err := loadBuffer(filename, cfg.MaxFileSize)
		if err != nil {
			logger.Error("Failed to load file", "file", filename, "error", err)
			failed = true

			continue
		}

		logger.Debug("Loaded file", "file", filename, "bytes", b.Len(), "partial", b.Partial())

		writeReport(os.Stdout, b, options)
	}

	if failed {
		os.Exit(1)
	}
}

func loadBuffer(filename string, limit int) (*buffer.Buffer, error) {
	if filename == "-" {
		return buffer.FromReader("stdin", os.Stdin, limit)
	}

	return buffer.Load(filename, limit)
}
