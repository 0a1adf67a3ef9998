package command

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/timmattison/hexed/internal/highlight"
	"github.com/timmattison/hexed/internal/search"
)

type parser func(args string) (Command, error)

func noArgs(c Command) parser {
	return func(args string) (Command, error) {
		if args != "" {
			return nil, fmt.Errorf("%w: %s takes no arguments", ErrSyntax, c.Name())
		}

		return c, nil
	}
}

func pattern(build func([]byte) Command) parser {
	return func(args string) (Command, error) {
		p, err := search.ParsePattern(args)
		if err != nil {
			return nil, err
		}

		return build(p), nil
	}
}

func number(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrSyntax, s)
	}

	return int(n), nil
}

func numbers(args string, count int) ([]int, error) {
	fields := strings.Fields(args)
	if len(fields) != count {
		return nil, fmt.Errorf("%w: expected %d numbers, got %q", ErrSyntax, count, args)
	}

	out := make([]int, count)

	for i, field := range fields {
		n, err := number(field)
		if err != nil {
			return nil, err
		}

		out[i] = n
	}

	return out, nil
}

var parsers = map[string]parser{
	"goto": func(args string) (Command, error) {
		if args == "" {
			return nil, fmt.Errorf("%w: goto needs an offset", ErrSyntax)
		}

		relative := args[0] == '+' || args[0] == '-'

		n, err := number(args)
		if err != nil {
			return nil, err
		}

		return Goto{Offset: n, Relative: relative}, nil
	},
	"find":           pattern(func(p []byte) Command { return Find{Pattern: p} }),
	"findall":        pattern(func(p []byte) Command { return FindAll{Pattern: p} }),
	"findstr":        pattern(func(p []byte) Command { return FindString{Substring: p} }),
	"findallstr":     pattern(func(p []byte) Command { return FindAllStrings{Substring: p} }),
	"finddiff":       noArgs(FindDiff{}),
	"findalldiffs":   noArgs(FindAllDiffs{}),
	"findpatch":      noArgs(FindPatch{}),
	"findallpatches": noArgs(FindAllPatches{}),
	"headers":        noArgs(FindAllHeaders{}),
	"parse":          noArgs(ParseHeader{}),
	"bookmark": func(args string) (Command, error) {
		return Bookmark{Label: args}, nil
	},
	"next":   noArgs(NextLocation{}),
	"prev":   noArgs(PreviousLocation{}),
	"remove": noArgs(RemoveLocation{}),
	"rename": func(args string) (Command, error) {
		return RenameLocation{NewName: args}, nil
	},
	"filter": func(args string) (Command, error) {
		return FilterLocations{Substring: args}, nil
	},
	"clearlocations": noArgs(ClearLocations{}),
	"highlight": func(args string) (Command, error) {
		color, err := highlight.ParseColor(args)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
		}

		return Highlight{Color: color}, nil
	},
	"clearhighlights": noArgs(ClearHighlights{}),
	"select": func(args string) (Command, error) {
		n, err := numbers(args, 2)
		if err != nil {
			return nil, err
		}

		return Select{Start: n[0], End: n[1]}, nil
	},
	"deselect": noArgs(ClearSelection{}),
	"yank":     noArgs(Yank{}),
	"paste":    noArgs(InsertBlock{}),
	"insert":   pattern(func(p []byte) Command { return InsertBlock{Data: p} }),
	"delete":   noArgs(DeleteBlock{}),
	"fill":     pattern(func(p []byte) Command { return FillBlock{Pattern: p} }),
	"setbyte": func(args string) (Command, error) {
		n, err := numbers(args, 2)
		if err != nil {
			return nil, err
		}

		if n[1] < 0 || n[1] > 0xFF {
			return nil, fmt.Errorf("%w: byte value %d out of range", ErrSyntax, n[1])
		}

		return SetByte{Offset: n[0], Value: byte(n[1])}, nil
	},
	"unpatch":   noArgs(Unpatch{}),
	"entropy":   noArgs(Entropy{}),
	"histogram": noArgs(Histogram{}),
	"set": func(args string) (Command, error) {
		name, value, ok := strings.Cut(args, " ")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: usage: set <variable> <value>", ErrSyntax)
		}

		return Set{Variable: name, Value: strings.TrimSpace(value)}, nil
	},
	"save": func(args string) (Command, error) {
		return Save{Filename: args}, nil
	},
	"save!": func(args string) (Command, error) {
		return Save{Filename: args, Force: true}, nil
	},
	"open": func(args string) (Command, error) {
		if args == "" {
			return nil, fmt.Errorf("%w: open needs a filename", ErrSyntax)
		}

		return Open{Filename: args}, nil
	},
	"close":  noArgs(Close{}),
	"close!": noArgs(Close{Force: true}),
	"bn":     noArgs(NextBuffer{}),
	"bp":     noArgs(PreviousBuffer{}),
	"lock":   noArgs(LockBuffers{}),
}

// Parse turns a command line such as "find \x7fELF" into a Command. The first
// word names the command, the rest of the line is its argument.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	name, args, _ := strings.Cut(line, " ")

	p, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknown)
	}

	return p(strings.TrimSpace(args))
}

// Names lists every word Parse accepts.
func Names() []string {
	names := make([]string, 0, len(parsers))
	for name := range parsers {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
