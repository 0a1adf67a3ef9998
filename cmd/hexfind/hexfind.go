package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/timmattison/hexed/internal"
	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/search"
	"github.com/timmattison/hexed/internal/version"
)

var matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)

func main() {
	var contextBytes = flag.Int("context", 16, "Number of bytes to show before and after the match")
	var allMatches = flag.Bool("all", false, "Show all matches instead of just the first one")
	var textPattern = flag.Bool("text", false, `Treat the pattern as text with \xHH escapes instead of a hex string`)
	var recursive = flag.Bool("r", false, "Search every file below directory arguments")
	var nameFilter = flag.String("name", "", "With -r, only search files whose name contains this text")
	var showVersion = flag.Bool("version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <pattern> <file> [file...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search for a byte pattern in binary files and display a hex dump with surrounding bytes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample: hexfind 0xf9beb4d9 bitcoin_block.dat\n")
		fmt.Fprintf(os.Stderr, "         hexfind f9beb4d9 bitcoin_block.dat\n")
		fmt.Fprintf(os.Stderr, "         hexfind -text -r -name .so '\\x7fELF' /usr/lib\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("hexfind"))
		os.Exit(0)
	}

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(1)
	}

	pattern, err := parsePattern(flag.Arg(0), *textPattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing pattern: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
	})

	var nameChecker internal.NameChecker
	if *nameFilter != "" {
		nameChecker = internal.ContainsNameChecker(*nameFilter)
	}

	filenames, err := internal.ExpandPaths(flag.Args()[1:], *recursive, nameChecker, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting files: %v\n", err)
		os.Exit(1)
	}

	printer := internal.GetLocalePrinter()
	displayPattern := search.FormatPattern(pattern)
	exitCode := 0

	for _, filename := range filenames {
		b, err := loadBuffer(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
			exitCode = 1

			continue
		}

		data := b.Bytes()

		matches, err := findPattern(data, pattern, *allMatches)
		if errors.Is(err, search.ErrNotFound) {
			fmt.Printf("Pattern '%s' not found in file '%s'\n", displayPattern, filename)
			continue
		}

		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching file: %v\n", err)
			exitCode = 1

			continue
		}

		fmt.Printf("Found %s match(es) for pattern '%s' in file '%s'\n\n", printer.Sprintf("%d", len(matches)), displayPattern, filename)

		for i, offset := range matches {
			fmt.Printf("Match #%d:\n", i+1)
			fmt.Printf("Offset: 0x%08x (%s decimal)\n", offset, printer.Sprintf("%d", offset))
			displayHexDump(os.Stdout, data, offset, *contextBytes, len(pattern))
			fmt.Println()
		}
	}

	os.Exit(exitCode)
}

func loadBuffer(filename string) (*buffer.Buffer, error) {
	if filename == "-" {
		return buffer.FromReader("stdin", os.Stdin, 0)
	}

	return buffer.Load(filename, 0)
}

// parsePattern reads a hex string such as 0xf9beb4d9, or text with escapes
// when asText is set.
func parsePattern(arg string, asText bool) ([]byte, error) {
	if asText {
		return search.ParsePattern(arg)
	}

	// Remove 0x prefix if present
	hexString := strings.TrimPrefix(strings.TrimPrefix(arg, "0x"), "0X")

	pattern, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", search.ErrSyntax, err)
	}

	if len(pattern) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", search.ErrSyntax)
	}

	return pattern, nil
}

func findPattern(data []byte, pattern []byte, allMatches bool) ([]int, error) {
	if !allMatches {
		offset, err := search.Find(data, 0, pattern)
		if err != nil {
			return nil, err
		}

		return []int{offset}, nil
	}

	list, err := search.FindAll(data, pattern)
	if err != nil {
		return nil, err
	}

	var matches []int

	for _, match := range list.Locations() {
		matches = append(matches, match.Offset)
	}

	return matches, nil
}

func displayHexDump(w io.Writer, data []byte, matchOffset int, contextBytes int, patternLen int) {
	start := max(0, matchOffset-contextBytes)
	end := min(len(data), matchOffset+patternLen+contextBytes)

	inPattern := func(offset int) bool {
		return offset >= matchOffset && offset < matchOffset+patternLen
	}

	for line := start; line < end; line += 16 {
		fmt.Fprintf(w, "%08x: ", line)

		for j := 0; j < 16; j++ {
			offset := line + j

			switch {
			case offset >= end:
				fmt.Fprint(w, "   ")
			case inPattern(offset):
				fmt.Fprint(w, matchStyle.Render(fmt.Sprintf("%02x", data[offset]))+" ")
			default:
				fmt.Fprintf(w, "%02x ", data[offset])
			}

			// Add extra space in the middle
			if j == 7 {
				fmt.Fprint(w, " ")
			}
		}

		fmt.Fprint(w, " |")

		for j := 0; j < 16; j++ {
			offset := line + j

			if offset >= end {
				fmt.Fprint(w, " ")
				continue
			}

			char := "."
			if search.IsPrintable(data[offset]) {
				char = string(rune(data[offset]))
			}

			if inPattern(offset) {
				char = matchStyle.Render(char)
			}

			fmt.Fprint(w, char)
		}

		fmt.Fprint(w, "|\n")
	}
}
