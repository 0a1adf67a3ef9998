package command

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timmattison/hexed/internal/highlight"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"goto 0x100", Goto{Offset: 0x100}},
		{"goto +16", Goto{Offset: 16, Relative: true}},
		{"goto -0x10", Goto{Offset: -16, Relative: true}},
		{`find \x7fELF`, Find{Pattern: []byte("\x7fELF")}},
		{"findall two words", FindAll{Pattern: []byte("two words")}},
		{"findstr http", FindString{Substring: []byte("http")}},
		{"findallstr", FindAllStrings{Substring: []byte{}}},
		{"finddiff", FindDiff{}},
		{"headers", FindAllHeaders{}},
		{"parse", ParseHeader{}},
		{"bookmark entry point", Bookmark{Label: "entry point"}},
		{"bookmark", Bookmark{}},
		{"  next  ", NextLocation{}},
		{"rename footer", RenameLocation{NewName: "footer"}},
		{"filter section", FilterLocations{Substring: "section"}},
		{"highlight Cyan", Highlight{Color: highlight.Cyan}},
		{"select 0x10 0x1f", Select{Start: 16, End: 31}},
		{"paste", InsertBlock{}},
		{`insert \x00\x00`, InsertBlock{Data: []byte{0, 0}}},
		{`fill \xde\xad`, FillBlock{Pattern: []byte{0xDE, 0xAD}}},
		{"setbyte 4 0xff", SetByte{Offset: 4, Value: 0xFF}},
		{"set entropy_margin 0.25", Set{Variable: "entropy_margin", Value: "0.25"}},
		{"save", Save{}},
		{"save! out.bin", Save{Filename: "out.bin", Force: true}},
		{"open /tmp/x y", Open{Filename: "/tmp/x y"}},
		{"close!", Close{Force: true}},
		{"lock", LockBuffers{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		line string
		err  error
	}{
		{"", ErrUnknown},
		{"frobnicate", ErrUnknown},
		{"goto", ErrSyntax},
		{"goto ten", ErrSyntax},
		{`find \q`, ErrSyntax},
		{`find \x`, ErrSyntax},
		{"next please", ErrSyntax},
		{"highlight mauve", ErrSyntax},
		{"select 1", ErrSyntax},
		{"setbyte 1 256", ErrSyntax},
		{"set", ErrSyntax},
		{"open", ErrSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := Parse(tt.line)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNames_CoverEveryCommand(t *testing.T) {
	names := Names()
	require.IsIncreasing(t, names)

	for _, cmd := range []Command{
		Goto{}, Find{}, FindAll{}, FindString{}, FindAllStrings{}, FindDiff{},
		FindAllDiffs{}, FindPatch{}, FindAllPatches{}, FindAllHeaders{},
		ParseHeader{}, Bookmark{}, NextLocation{}, PreviousLocation{},
		RemoveLocation{}, RenameLocation{}, FilterLocations{}, ClearLocations{},
		Highlight{}, ClearHighlights{}, Select{}, ClearSelection{}, Yank{},
		InsertBlock{}, DeleteBlock{}, FillBlock{}, SetByte{}, Unpatch{},
		Entropy{}, Histogram{}, Set{}, Save{}, Open{}, Close{}, NextBuffer{},
		PreviousBuffer{}, LockBuffers{},
	} {
		require.Contains(t, names, cmd.Name())
	}
}
