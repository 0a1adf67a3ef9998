package structs

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timmattison/hexed/internal/location"
)

var le = binary.LittleEndian

func names(list *location.List) []string {
	var out []string
	for _, l := range list.Locations() {
		out = append(out, l.Name)
	}

	return out
}

func find(t *testing.T, list *location.List, name string) location.Location {
	t.Helper()

	for _, l := range list.Locations() {
		if l.Name == name {
			return l
		}
	}

	require.Failf(t, "field not found", "%q not in %v", name, names(list))

	return location.Location{}
}

func pngChunk(kind string, body []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
	out = append(out, kind...)
	out = append(out, body...)

	return binary.BigEndian.AppendUint32(out, crc32.ChecksumIEEE(append([]byte(kind), body...)))
}

func testPNG() []byte {
	ihdr := binary.BigEndian.AppendUint32(nil, 2)
	ihdr = binary.BigEndian.AppendUint32(ihdr, 3)
	ihdr = append(ihdr, 8, 2, 0, 0, 0)

	data := []byte("\x89PNG\r\n\x1A\n")
	data = append(data, pngChunk("IHDR", ihdr)...)
	data = append(data, pngChunk("IDAT", []byte{1, 2, 3})...)

	return append(data, pngChunk("IEND", nil)...)
}

func testGIF() []byte {
	data := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00")
	data = append(data, 0, 0, 0, 0xFF, 0xFF, 0xFF)
	data = append(data, 0x21, 0xF9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00)
	data = append(data, 0x21, 0xFE, 0x02, 'h', 'i', 0x00)
	data = append(data, 0x2C, 0, 0, 0, 0, 1, 0, 1, 0, 0)
	data = append(data, 0x02, 0x02, 0x4C, 0x01, 0x00)

	return append(data, 0x3B)
}

func testBMP() []byte {
	data := make([]byte, 58)
	copy(data, "BM")
	le.PutUint32(data[2:], 58)
	le.PutUint32(data[10:], 54)
	le.PutUint32(data[14:], 40)
	le.PutUint32(data[18:], 1)
	le.PutUint32(data[22:], 1)
	le.PutUint16(data[26:], 1)
	le.PutUint16(data[28:], 24)
	le.PutUint32(data[34:], 4)

	return data
}

func testICO() []byte {
	data := make([]byte, 64)
	le.PutUint16(data[2:], 1)
	le.PutUint16(data[4:], 1)
	data[6] = 16
	data[7] = 16
	le.PutUint16(data[10:], 1)
	le.PutUint16(data[12:], 32)
	le.PutUint32(data[14:], 40)
	le.PutUint32(data[18:], 22)
	le.PutUint32(data[22:], 40)

	return data
}

// testELF builds an x86-64 executable with one loadable segment, a .text
// section and the section name table.
func testELF() []byte {
	data := make([]byte, 0x128+3*64)
	copy(data, "\x7FELF\x02\x01\x01")
	le.PutUint16(data[16:], 2)
	le.PutUint16(data[18:], 0x3E)
	le.PutUint32(data[20:], 1)
	le.PutUint64(data[24:], 0x401000)
	le.PutUint64(data[32:], 64)
	le.PutUint64(data[40:], 0x128)
	le.PutUint16(data[52:], 64)
	le.PutUint16(data[54:], 56)
	le.PutUint16(data[56:], 1)
	le.PutUint16(data[58:], 64)
	le.PutUint16(data[60:], 3)
	le.PutUint16(data[62:], 2)

	ph := data[64:]
	le.PutUint32(ph[0:], 1)
	le.PutUint32(ph[4:], 5)
	le.PutUint64(ph[8:], 0x100)
	le.PutUint64(ph[16:], 0x401000)
	le.PutUint64(ph[24:], 0x401000)
	le.PutUint64(ph[32:], 0x10)
	le.PutUint64(ph[40:], 0x10)
	le.PutUint64(ph[48:], 0x1000)

	copy(data[0x100:], "\x90\x90\xC3")
	copy(data[0x110:], "\x00.text\x00.shstrtab\x00")

	text := data[0x128+64:]
	le.PutUint32(text[0:], 1)
	le.PutUint32(text[4:], 1)
	le.PutUint64(text[16:], 0x401000)
	le.PutUint64(text[24:], 0x100)
	le.PutUint64(text[32:], 0x10)

	strtab := data[0x128+128:]
	le.PutUint32(strtab[0:], 7)
	le.PutUint32(strtab[4:], 3)
	le.PutUint64(strtab[24:], 0x110)
	le.PutUint64(strtab[32:], 17)

	return data
}

// testPE builds a PE32+ image with one section holding an export table, a TLS
// directory with one callback, and a certificate table after the section.
func testPE() []byte {
	const imageBase = 0x140000000

	data := make([]byte, 0x400)
	copy(data, "MZ")
	le.PutUint32(data[0x3C:], 0x80)

	copy(data[0x80:], "PE\x00\x00")
	le.PutUint16(data[0x84:], 0x8664)
	le.PutUint16(data[0x86:], 1)
	le.PutUint16(data[0x94:], 0xF0)

	opt := 0x98
	le.PutUint16(data[opt:], 0x20B)
	le.PutUint32(data[opt+16:], 0x1010)
	le.PutUint64(data[opt+24:], imageBase)
	le.PutUint32(data[opt+60:], 0x200)
	le.PutUint32(data[opt+108:], 16)

	dirs := opt + 112
	le.PutUint32(data[dirs+0*8:], 0x1080)
	le.PutUint32(data[dirs+0*8+4:], 0x60)
	le.PutUint32(data[dirs+4*8:], 0x300)
	le.PutUint32(data[dirs+4*8+4:], 0x10)
	le.PutUint32(data[dirs+9*8:], 0x1040)
	le.PutUint32(data[dirs+9*8+4:], 40)

	sec := opt + 0xF0
	copy(data[sec:], ".text")
	le.PutUint32(data[sec+8:], 0x100)
	le.PutUint32(data[sec+12:], 0x1000)
	le.PutUint32(data[sec+16:], 0x200)
	le.PutUint32(data[sec+20:], 0x200)

	// TLS directory at 0x240, callback array at 0x270
	le.PutUint64(data[0x240+24:], imageBase+0x1070)
	le.PutUint64(data[0x270:], imageBase+0x1030)

	// export directory at 0x280
	le.PutUint32(data[0x280+12:], 0x10C0)
	le.PutUint32(data[0x280+16:], 1)
	le.PutUint32(data[0x280+20:], 1)
	le.PutUint32(data[0x280+24:], 1)
	le.PutUint32(data[0x280+28:], 0x10A8)
	le.PutUint32(data[0x280+32:], 0x10B0)
	le.PutUint32(data[0x280+36:], 0x10B8)
	le.PutUint32(data[0x2A8:], 0x1020)
	le.PutUint32(data[0x2B0:], 0x10D0)
	copy(data[0x2C0:], "test.dll\x00")
	copy(data[0x2D0:], "Hello\x00")

	le.PutUint32(data[0x300:], 0x10)
	le.PutUint16(data[0x304:], 0x200)
	le.PutUint16(data[0x306:], 2)

	return data
}

func testJPEG() []byte {
	data := []byte{0xFF, 0xD8}
	data = append(data, 0xFF, 0xE0, 0x00, 0x10)
	data = append(data, "JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00"...)
	data = append(data, 0xFF, 0xDB, 0x00, 0x04, 0xAA, 0xBB)
	data = append(data, 0xFF, 0xC0, 0x00, 0x0B, 0x08, 0x00, 0x01, 0x00, 0x01, 0x01, 0x01, 0x11, 0x00)
	data = append(data, 0xFF, 0xDA, 0x00, 0x08, 0x01, 0x01, 0x00, 0x00, 0x3F, 0x00)
	data = append(data, 0x12, 0x34, 0xFF, 0x00, 0x56, 0xFF, 0xD0, 0x78)

	return append(data, 0xFF, 0xD9)
}

func testPCAP() []byte {
	data := []byte("\xD4\xC3\xB2\xA1\x02\x00\x04\x00")
	data = append(data, make([]byte, 8)...)
	data = le.AppendUint32(data, 65535)
	data = le.AppendUint32(data, 1)

	for _, packet := range [][]byte{{1, 2, 3, 4}, {5, 6}} {
		data = le.AppendUint32(data, 1700000000)
		data = le.AppendUint32(data, 0)
		data = le.AppendUint32(data, uint32(len(packet)))
		data = le.AppendUint32(data, uint32(len(packet)))
		data = append(data, packet...)
	}

	return data
}

func pcapngBlock(kind uint32, body []byte) []byte {
	length := uint32(12 + len(body))
	out := le.AppendUint32(nil, kind)
	out = le.AppendUint32(out, length)
	out = append(out, body...)

	return le.AppendUint32(out, length)
}

func testPCAPNG() []byte {
	shb := le.AppendUint32(nil, 0x1A2B3C4D)
	shb = le.AppendUint16(shb, 1)
	shb = le.AppendUint16(shb, 0)
	shb = le.AppendUint64(shb, 0xFFFFFFFFFFFFFFFF)

	idb := le.AppendUint16(nil, 1)
	idb = le.AppendUint16(idb, 0)
	idb = le.AppendUint32(idb, 65535)

	epb := le.AppendUint32(nil, 0)
	epb = le.AppendUint32(epb, 0)
	epb = le.AppendUint32(epb, 0)
	epb = le.AppendUint32(epb, 3)
	epb = le.AppendUint32(epb, 3)
	epb = append(epb, 0xAA, 0xBB, 0xCC, 0x00)

	data := pcapngBlock(0x0A0D0D0A, shb)
	data = append(data, pcapngBlock(1, idb)...)
	data = append(data, pcapngBlock(6, epb)...)

	// a second section is not walked
	return append(data, pcapngBlock(0x0A0D0D0A, shb)...)
}

var samples = map[string]func() []byte{
	"BMP":    testBMP,
	"ELF":    testELF,
	"GIF":    testGIF,
	"ICO":    testICO,
	"JPEG":   testJPEG,
	"PCAP":   testPCAP,
	"PCAPNG": testPCAPNG,
	"PE":     testPE,
	"PNG":    testPNG,
}

func requireWellFormed(t *testing.T, data []byte, list *location.List) {
	t.Helper()

	require.NotNil(t, list)
	require.False(t, list.IsEmpty())

	first, _ := list.At(0)
	require.Zero(t, first.Size, "first entry is a label")
	require.Contains(t, first.Name, "--")

	for _, l := range list.Locations() {
		require.GreaterOrEqual(t, l.Offset, 0, l.Name)
		require.GreaterOrEqual(t, l.Size, 0, l.Name)
		require.LessOrEqual(t, l.Offset+l.Size, len(data), l.Name)

		if l.Size > 0 {
			require.Less(t, l.Offset, len(data), l.Name)
		}
	}
}

func TestParse_EverySupportedFormat(t *testing.T) {
	require.Equal(t, []string{"BMP", "CUR", "ELF", "GIF", "ICO", "JPEG", "PCAP", "PCAPNG", "PE", "PNG"}, Supported())

	for name, sample := range samples {
		t.Run(name, func(t *testing.T) {
			data := sample()

			format, list, err := Parse(data)
			require.NoError(t, err)
			require.Equal(t, name, format)
			requireWellFormed(t, data, list)
		})
	}
}

func TestParse_Prefixes(t *testing.T) {
	for name, sample := range samples {
		t.Run(name, func(t *testing.T) {
			data := sample()
			parse, ok := Lookup(name)
			require.True(t, ok)

			for n := range len(data) {
				prefix := data[:n]

				list, err := parse(prefix)
				if err != nil {
					require.Nil(t, list)
					continue
				}

				requireWellFormed(t, prefix, list)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, _, err := Parse([]byte("plain text, nothing to see"))
	require.ErrorIs(t, err, ErrInvalidSignature)

	format, list, err := Parse([]byte("\x1F\x8B\x08\x00\x00\x00\x00\x00\x00\x03"))
	require.ErrorIs(t, err, ErrUnsupported)
	require.Equal(t, "GZIP", format)
	require.Nil(t, list)

	_, err = ParseELF(testPNG())
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseGIF_MinimalTrailer(t *testing.T) {
	data := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")

	list, err := ParseGIF(data)
	require.NoError(t, err)
	require.Equal(t, []location.Location{
		{Name: "-- GIF --", Offset: 0},
		{Name: "magic", Offset: 0, Size: 6},
		{Name: "width", Offset: 6, Size: 2},
		{Name: "height", Offset: 8, Size: 2},
		{Name: "flags", Offset: 10, Size: 1},
		{Name: "background color index", Offset: 11, Size: 1},
		{Name: "pixel aspect ratio", Offset: 12, Size: 1},
		{Name: "trailer", Offset: 13, Size: 1},
	}, list.Locations())
}

func TestParseGIF_Blocks(t *testing.T) {
	data := testGIF()

	list, err := ParseGIF(data)
	require.NoError(t, err)

	require.Equal(t, location.Location{Name: "global color table", Offset: 13, Size: 6}, find(t, list, "global color table"))
	require.Equal(t, 19, find(t, list, "-- graphic control extension --").Offset)
	require.Equal(t, location.Location{Name: ".transparent_color_index", Offset: 25, Size: 1}, find(t, list, ".transparent_color_index"))
	require.Equal(t, location.Location{Name: ".comment", Offset: 29, Size: 4}, find(t, list, ".comment"))
	require.Equal(t, 33, find(t, list, "-- image 0 --").Offset)
	require.Equal(t, location.Location{Name: ".image_data", Offset: 44, Size: 4}, find(t, list, ".image_data"))
	require.Equal(t, location.Location{Name: "trailer", Offset: 48, Size: 1}, find(t, list, "trailer"))
}

func TestParseGIF_Truncated(t *testing.T) {
	data := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00\x21\xF9\x04")

	list, err := ParseGIF(data)
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorContains(t, err, "gif: graphic control extension at 0xd")
	require.Nil(t, list)
}

func TestParseGIF_UnknownBlock(t *testing.T) {
	data := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00\x2C\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x00X")

	_, err := ParseGIF(data)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParsePNG(t *testing.T) {
	data := append(testPNG(), "trailing junk"...)

	list, err := ParsePNG(data)
	require.NoError(t, err)
	require.Equal(t, []string{
		"-- PNG --", "magic",
		"IHDR", ".length", ".type", ".width", ".height", ".bit_depth",
		".color_type", ".compression", ".filter", ".interlace", ".crc",
		"IDAT", ".length", ".type", ".data", ".crc",
		"IEND", ".length", ".type", ".crc",
	}, names(list))

	require.Equal(t, location.Location{Name: ".width", Offset: 16, Size: 4}, find(t, list, ".width"))
	require.Equal(t, location.Location{Name: ".data", Offset: 41, Size: 3}, find(t, list, ".data"))
}

func TestParsePNG_TruncatedChunk(t *testing.T) {
	data := testPNG()
	data = data[:len(data)-15]

	list, err := ParsePNG(data)
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorContains(t, err, "IDAT chunk")
	require.Nil(t, list)
}

func TestParseBMP(t *testing.T) {
	data := testBMP()

	list, err := ParseBMP(data)
	require.NoError(t, err)
	require.Equal(t, "BITMAPINFOHEADER", find(t, list, "BITMAPINFOHEADER").Name)
	require.Equal(t, location.Location{Name: ".bit_count", Offset: 28, Size: 2}, find(t, list, ".bit_count"))
	require.Equal(t, location.Location{Name: "pixel data", Offset: 54, Size: 4}, find(t, list, "pixel data"))
	require.Equal(t, 19, list.Len())
}

func TestParseBMP_CoreHeader(t *testing.T) {
	data := make([]byte, 32)
	copy(data, "BM")
	le.PutUint32(data[2:], 32)
	le.PutUint32(data[10:], 26)
	le.PutUint32(data[14:], 12)
	le.PutUint16(data[22:], 1)
	le.PutUint16(data[24:], 24)

	list, err := ParseBMP(data)
	require.NoError(t, err)
	require.Equal(t, location.Location{Name: ".bit_count", Offset: 24, Size: 2}, find(t, list, ".bit_count"))
	require.Equal(t, location.Location{Name: "pixel data", Offset: 26, Size: 6}, find(t, list, "pixel data"))
}

func TestParseBMP_PixelsOutOfRange(t *testing.T) {
	data := testBMP()
	le.PutUint32(data[10:], 100)

	_, err := ParseBMP(data)
	require.ErrorIs(t, err, ErrTruncated)
}

func TestParseICO(t *testing.T) {
	data := testICO()

	list, err := ParseICO(data)
	require.NoError(t, err)
	require.Equal(t, 14, list.Len())
	require.Equal(t, location.Location{Name: "image 0 (dib)", Offset: 22, Size: 40}, find(t, list, "image 0 (dib)"))

	copy(data[22:], "\x89PNG\r\n\x1A\n")

	list, err = ParseICO(data)
	require.NoError(t, err)
	require.Equal(t, 22, find(t, list, "image 0 (png)").Offset)
}

func TestParseELF(t *testing.T) {
	data := testELF()

	list, err := ParseELF(data)
	require.NoError(t, err)

	first, _ := list.At(0)
	require.Equal(t, "-- ELF64 --", first.Name)

	require.Equal(t, location.Location{Name: ".e_phoff", Offset: 32, Size: 8}, find(t, list, ".e_phoff"))
	require.Equal(t, 64, find(t, list, "-- program header 0 --").Offset)
	require.Equal(t, location.Location{Name: "segment 0", Offset: 0x100, Size: 0x10}, find(t, list, "segment 0"))
	require.Equal(t, 0x128, find(t, list, "-- section 0 <unnamed> --").Offset)
	require.Equal(t, 0x128+64, find(t, list, "-- section 1 .text --").Offset)
	require.Equal(t, 0x128+128, find(t, list, "-- section 2 .shstrtab --").Offset)
	require.Equal(t, location.Location{Name: ".text", Offset: 0x100, Size: 0x10}, find(t, list, ".text"))
	require.Equal(t, location.Location{Name: "entry point", Offset: 0x100}, find(t, list, "entry point"))
}

func TestParseELF_UnmappedEntry(t *testing.T) {
	data := testELF()
	le.PutUint64(data[24:], 0x999999)

	list, err := ParseELF(data)
	require.NoError(t, err)
	require.Equal(t, location.Location{Name: "entry point", Offset: 0, Unresolved: true}, find(t, list, "entry point"))
}

func TestParseELF_BigEndian32(t *testing.T) {
	data := make([]byte, 52)
	copy(data, "\x7FELF\x01\x02\x01")
	binary.BigEndian.PutUint16(data[16:], 2)
	binary.BigEndian.PutUint16(data[18:], 8)

	list, err := ParseELF(data)
	require.NoError(t, err)

	first, _ := list.At(0)
	require.Equal(t, "-- ELF32 --", first.Name)
	require.Equal(t, location.Location{Name: ".e_shstrndx", Offset: 50, Size: 2}, find(t, list, ".e_shstrndx"))
}

func TestParseELF_Truncated(t *testing.T) {
	data := testELF()[:0x150]

	list, err := ParseELF(data)
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorContains(t, err, "elf: section header")
	require.Nil(t, list)

	_, err = ParseELF(testELF()[:40])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestParsePE(t *testing.T) {
	data := testPE()

	list, err := ParsePE(data)
	require.NoError(t, err)

	first, _ := list.At(0)
	require.Equal(t, "-- MZ --", first.Name)

	require.Equal(t, location.Location{Name: "dos stub", Offset: 64, Size: 64}, find(t, list, "dos stub"))
	require.Equal(t, 0x80, find(t, list, "-- PE --").Offset)
	require.Equal(t, 0x98, find(t, list, "-- PE32+ optional header --").Offset)
	require.Equal(t, location.Location{Name: ".ImageBase", Offset: 0x98 + 24, Size: 8}, find(t, list, ".ImageBase"))
	require.Equal(t, 0x188, find(t, list, "-- section 0 .text --").Offset)
	require.Equal(t, location.Location{Name: ".text", Offset: 0x200, Size: 0x200}, find(t, list, ".text"))
	require.Equal(t, 0x210, find(t, list, "entry point").Offset)
	require.Equal(t, 0x280, find(t, list, "-- export directory --").Offset)
	require.Equal(t, 0x2C0, find(t, list, "dll test.dll").Offset)
	require.Equal(t, 0x220, find(t, list, "export Hello").Offset)
	require.Equal(t, 0x240, find(t, list, "-- tls directory --").Offset)
	require.Equal(t, 0x230, find(t, list, "tls callback 0").Offset)
	require.Equal(t, 0x300, find(t, list, "-- certificate 0 --").Offset)
	require.Equal(t, location.Location{Name: ".bCertificate", Offset: 0x308, Size: 8}, find(t, list, ".bCertificate"))
}

func TestParsePE_BadCertificateLength(t *testing.T) {
	data := testPE()
	le.PutUint32(data[0x300:], 4)

	list, err := ParsePE(data)
	require.ErrorIs(t, err, ErrMalformed)
	require.Nil(t, list)
}

func TestParsePE_TruncatedSectionTable(t *testing.T) {
	list, err := ParsePE(testPE()[:0x1A0])
	require.ErrorIs(t, err, ErrTruncated)
	require.Nil(t, list)
}

func TestParseJPEG(t *testing.T) {
	data := testJPEG()

	list, err := ParseJPEG(data)
	require.NoError(t, err)
	require.Equal(t, []string{
		"-- JPEG --", "SOI",
		"APP0", ".marker", ".length", ".identifier", ".version", ".units",
		".x_density", ".y_density", ".x_thumbnail", ".y_thumbnail",
		"DQT", ".marker", ".length", ".data",
		"SOF0", ".marker", ".length", ".precision", ".height", ".width", ".components",
		"SOS", ".marker", ".length", ".data",
		"scan data", "EOI",
	}, names(list))

	require.Equal(t, location.Location{Name: "scan data", Offset: 49, Size: 8}, find(t, list, "scan data"))
	require.Equal(t, location.Location{Name: "EOI", Offset: 57, Size: 2}, find(t, list, "EOI"))
}

func TestParseJPEG_Truncated(t *testing.T) {
	list, err := ParseJPEG(testJPEG()[:30])
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorContains(t, err, "SOF0 segment")
	require.Nil(t, list)
}

func TestParseJPEG_TruncatedFixedHeaders(t *testing.T) {
	for _, cut := range []int{12, 36} {
		list, err := ParseJPEG(testJPEG()[:cut])
		require.ErrorIs(t, err, ErrTruncated, "cut at %d", cut)
		require.Nil(t, list, "cut at %d", cut)
	}
}

func TestParsePCAP(t *testing.T) {
	data := testPCAP()

	list, err := ParsePCAP(data)
	require.NoError(t, err)
	require.Equal(t, 20, list.Len())
	require.Equal(t, 24, find(t, list, "-- packet 0 --").Offset)
	require.Equal(t, 44, find(t, list, "-- packet 1 --").Offset)
	require.Equal(t, ".ts_usec", find(t, list, ".ts_usec").Name)

	le.PutUint32(data[24+8:], 100)

	list, err = ParsePCAP(data)
	require.ErrorIs(t, err, ErrTruncated)
	require.ErrorContains(t, err, "packet 0 data")
	require.Nil(t, list)
}

func TestParsePCAPNG(t *testing.T) {
	data := testPCAPNG()

	list, err := ParsePCAPNG(data)
	require.NoError(t, err)

	require.Equal(t, 0, find(t, list, "-- section header block --").Offset)
	require.Equal(t, 28, find(t, list, "-- interface description block --").Offset)
	require.Equal(t, 48, find(t, list, "-- enhanced packet block --").Offset)
	require.Equal(t, location.Location{Name: ".packet_data", Offset: 76, Size: 3}, find(t, list, ".packet_data"))

	sections := 0
	for _, l := range list.Locations() {
		if l.Name == "-- section header block --" {
			sections++
		}
	}

	require.Equal(t, 1, sections)
}

func TestParsePCAPNG_BadLength(t *testing.T) {
	data := testPCAPNG()
	le.PutUint32(data[28+4:], 21)

	_, err := ParsePCAPNG(data)
	require.ErrorIs(t, err, ErrMalformed)

	data = testPCAPNG()
	le.PutUint32(data[28+16:], 24)

	_, err = ParsePCAPNG(data)
	require.ErrorIs(t, err, ErrMalformed)
}
