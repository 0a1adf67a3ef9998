package main

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/text/message"

	"github.com/timmattison/hexed/internal"
	"github.com/timmattison/hexed/internal/buffer"
	"github.com/timmattison/hexed/internal/config"
	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/search"
	"github.com/timmattison/hexed/internal/signature"
	"github.com/timmattison/hexed/internal/structs"
)

const maxNameWidth = 60

var titleStyle = lipgloss.NewStyle().Bold(true)

type reportOptions struct {
	Config        *config.Config
	Printer       *message.Printer
	Logger        *log.Logger
	AllStructures bool
	Strings       bool
	NoEntropy     bool
	NoHistogram   bool
	Top           int
}

func writeReport(w io.Writer, b *buffer.Buffer, options reportOptions) {
	data := b.Bytes()

	size := options.Printer.Sprintf("%d bytes", len(data))
	if b.Partial() {
		size += ", partial"
	}

	fmt.Fprintf(w, "%s (%s, %s)\n", titleStyle.Render(b.Filename()), size, internal.PrettyPrintBytes(uint64(len(data))))

	headers := signature.Scan(data)

	section(w, "Headers", listing(headers, options.Printer))

	for _, header := range headers.Locations() {
		if header.Offset != 0 && !options.AllStructures {
			continue
		}

		if _, ok := structs.Lookup(header.Name); !ok {
			continue
		}

		format, fields, err := structs.Parse(data[header.Offset:])
		if err != nil {
			options.Logger.Warn("Failed to decode header", "file", b.Filename(), "format", format, "offset", header.Offset, "error", err)
			continue
		}

		title := options.Printer.Sprintf("%s structure at 0x%x, %d fields", format, header.Offset, fields.Len())
		section(w, title, listing(fields.Shift(header.Offset), options.Printer))
	}

	if options.Strings {
		strs, err := search.FindAllStrings(data, options.Config.MinStringSize, nil)
		if err != nil && !errors.Is(err, search.ErrNotFound) {
			options.Logger.Warn("Failed to list strings", "file", b.Filename(), "error", err)
		}

		section(w, "Strings", listing(strs, options.Printer))
	}

	if !options.NoEntropy {
		regions, err := search.CalculateEntropy(data, options.Config.EntropyBlockSize, options.Config.EntropyMargin)
		if err != nil {
			options.Logger.Debug("No entropy regions", "file", b.Filename(), "error", err)
		}

		section(w, "Entropy regions", listing(regions, options.Printer))
	}

	if !options.NoHistogram {
		section(w, "Most common bytes", histogram(data, options.Top, options.Printer))
	}

	fmt.Fprintln(w)
}

func section(w io.Writer, title string, body string) {
	fmt.Fprintln(w, titleStyle.Render(title+":"))

	if body == "" {
		body = "none\n"
	}

	fmt.Fprint(w, indent.String(body, 2))
}

func listing(list *location.List, printer *message.Printer) string {
	if list == nil {
		return ""
	}

	var output strings.Builder

	for _, l := range list.Locations() {
		name := truncate.StringWithTail(l.Name, maxNameWidth, "…")
		output.WriteString(printer.Sprintf("0x%08x %12d  %s\n", l.Offset, l.Size, name))
	}

	return output.String()
}

func histogram(data []byte, top int, printer *message.Printer) string {
	if len(data) == 0 || top <= 0 {
		return ""
	}

	counts := search.Histogram(data)

	values := make([]int, 256)
	for i := range values {
		values[i] = i
	}

	// most common first, ties by byte value
	slices.SortStableFunc(values, func(a, b int) int {
		return cmp.Compare(counts[b], counts[a])
	})

	var output strings.Builder

	for _, value := range values[:min(top, len(values))] {
		if counts[value] == 0 {
			break
		}

		percent := float64(counts[value]) * 100 / float64(len(data))
		output.WriteString(printer.Sprintf("0x%02x %12d  %6.2f%%\n", value, counts[value], percent))
	}

	return output.String()
}
