package signature

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func pad(prefix []byte, n int) []byte {
	out := make([]byte, max(n, len(prefix)))
	copy(out, prefix)

	return out
}

func put32le(data []byte, offset int, v uint32) []byte {
	binary.LittleEndian.PutUint32(data[offset:], v)
	return data
}

func minimalBMP() []byte {
	data := pad([]byte("BM"), 58)
	put32le(data, 2, 58)
	put32le(data, 10, 54)
	put32le(data, 14, 40)
	binary.LittleEndian.PutUint16(data[26:], 1)
	binary.LittleEndian.PutUint16(data[28:], 24)

	return data
}

func minimalPE() []byte {
	data := pad([]byte("MZ"), 0x100)
	put32le(data, 0x3C, 0x80)
	copy(data[0x80:], "PE\x00\x00")

	return data
}

func minimalICO() []byte {
	data := pad([]byte{0, 0, 1, 0, 1, 0}, 64)
	data[6] = 16
	data[7] = 16
	binary.LittleEndian.PutUint16(data[10:], 1)
	binary.LittleEndian.PutUint16(data[12:], 32)
	put32le(data, 14, 40)
	put32le(data, 18, 22)

	return data
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"AR", func() []byte {
			data := pad([]byte("!<arch>\nfoo.o/"), 80)
			copy(data[66:], "`\n")
			return data
		}()},
		{"ICO", minimalICO()},
		{"MP4", pad([]byte("\x00\x00\x00\x18ftypisom"), 24)},
		{"WASM", []byte("\x00asm\x01\x00\x00\x00")},
		{"PCAPNG", pad([]byte("\x0A\x0D\x0D\x0A\x1C\x00\x00\x00\x4D\x3C\x2B\x1A"), 28)},
		{"GZIP", pad([]byte("\x1F\x8B\x08\x00"), 20)},
		{"MKV", pad([]byte("\x1A\x45\xDF\xA3\xA3\x42\x86\x81\x01"), 40)},
		{"MKV", pad([]byte("\x1A\x45\xDF\xA3\x01\x00\x00\x00\x00\x00\x00\x1F\x42\x82"), 40)},
		{"ZSTD", pad([]byte("\x28\xB5\x2F\xFD\x00"), 8)},
		{"7Z", pad([]byte("7z\xBC\xAF\x27\x1C\x00\x04"), 32)},
		{"ELF", pad([]byte("\x7FELF\x02\x01\x01"), 64)},
		{"PDF", []byte("%PDF-1.7\n")},
		{"BMP", minimalBMP()},
		{"BZIP2", pad([]byte("BZh91AY&SY"), 16)},
		{"PE", minimalPE()},
		{"TIFF", pad([]byte("II*\x00\x08\x00\x00\x00"), 16)},
		{"TIFF", pad([]byte("MM\x00*\x00\x00\x00\x08"), 16)},
		{"MP3", pad([]byte("ID3\x03\x00\x00\x00\x00\x01\x00"), 16)},
		{"GIF", pad([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;"), 14)},
		{"JPEG", pad([]byte("\xFF\xD8\xFF\xE0\x00\x10JFIF"), 20)},
		{"PNG", pad([]byte("\x89PNG\r\n\x1A\n\x00\x00\x00\x0DIHDR"), 33)},
		{"OGG", pad([]byte("OggS\x00\x02"), 28)},
		{"OLE", func() []byte {
			data := pad([]byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1"), 512)
			copy(data[28:], "\xFE\xFF")
			return data
		}()},
		{"RAR", []byte("Rar!\x1A\x07\x01\x00\x33\x92\xB5\xE5\x0A\x01\x05\x06\x00\x05\x01\x01\x80\x80\x00")},
		{"RAR", pad([]byte("Rar!\x1A\x07\x00\xCF\x90\x73\x00\x00\x0D\x00"), 20)},
		{"WAV", pad([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), 44)},
		{"AVI", pad([]byte("RIFF\x24\x00\x00\x00AVI LIST"), 44)},
		{"ANI", pad([]byte("RIFF\x24\x00\x00\x00ACONanih"), 44)},
		{"WEBP", pad([]byte("RIFF\x24\x00\x00\x00WEBPVP8 "), 44)},
		{"CDR", pad([]byte("RIFF\x24\x00\x00\x00CDR9"), 44)},
		{"DLS", pad([]byte("RIFF\x24\x00\x00\x00DLS "), 44)},
		{"DAT", pad([]byte("RIFF\x24\x00\x00\x00CDXA"), 44)},
		{"SQLITE", pad([]byte("SQLite format 3\x00\x10\x00"), 100)},
		{"ZIP", pad([]byte("PK\x03\x04\x14\x00\x00\x00\x08\x00"), 30)},
		{"FLAC", pad([]byte("fLaC\x80\x00\x00\x22"), 42)},
		{"WOFF", pad([]byte("wOFF\x00\x01\x00\x00\x00\x00\x01\x00"), 44)},
		{"CLASS", pad([]byte("\xCA\xFE\xBA\xBE\x00\x00\x00\x34"), 16)},
		{"MACHO", pad([]byte("\xCF\xFA\xED\xFE\x07\x00\x00\x01\x03\x00\x00\x00\x02\x00\x00\x00"), 32)},
		{"MACHO", pad([]byte("\xCA\xFE\xBA\xBE\x00\x00\x00\x02"), 16)},
		{"PCAP", pad([]byte("\xD4\xC3\xB2\xA1\x02\x00\x04\x00"), 24)},
		{"PCAP", pad([]byte("\xA1\xB2\x3C\x4D\x00\x02\x00\x04"), 24)},
		{"XZ", pad([]byte("\xFD7zXZ\x00\x00\x04"), 12)},
		{"DEX", pad([]byte("dex\n035\x00"), 112)},
		{"CAB", pad([]byte("MSCF\x00\x00\x00\x00\x40\x00\x00\x00"), 36)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "CAB" {
				tt.data[24] = 3
				tt.data[25] = 1
			}

			m, ok := Detect(tt.data)
			require.True(t, ok, "%s not detected", tt.name)
			require.Equal(t, tt.name, m.Name)
		})
	}
}

func TestDetect_Sizes(t *testing.T) {
	m, ok := Detect(minimalBMP())
	require.True(t, ok)
	require.Equal(t, 58, m.Size)

	m, ok = Detect(pad([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), 44))
	require.True(t, ok)
	require.Equal(t, 44, m.Size)

	m, ok = Detect(pad([]byte("\x89PNG\r\n\x1A\n\x00\x00\x00\x0DIHDR"), 33))
	require.True(t, ok)
	require.Zero(t, m.Size, "png size is only known after walking the chunks")
}

func TestDetect_RejectsMagicOnly(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"elf bad class", pad([]byte("\x7FELF\x05\x01\x01"), 64)},
		{"elf truncated", []byte("\x7FELF")},
		{"bmp bad planes", func() []byte {
			data := minimalBMP()
			data[26] = 3
			return data
		}()},
		{"bmp bad depth", func() []byte {
			data := minimalBMP()
			data[28] = 3
			return data
		}()},
		{"mz without pe", pad([]byte("MZ"), 0x100)},
		{"pe pointer out of range", put32le(pad([]byte("MZ"), 0x100), 0x3C, 0x1000)},
		{"gif bad block after table", pad([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00X"), 14)},
		{"gif with table cut short", pad([]byte("GIF89a\x01\x00\x01\x00\x80\x00\x00"), 14)},
		{"png without ihdr", pad([]byte("\x89PNG\r\n\x1A\n\x00\x00\x00\x0DIDAT"), 33)},
		{"pcap bad version", pad([]byte("\xD4\xC3\xB2\xA1\x01\x00\x04\x00"), 24)},
		{"rar magic only", []byte("Rar!\x1A\x07\x01\x00")},
		{"rar4 wrong block type", pad([]byte("Rar!\x1A\x07\x00\xCF\x90\x74\x00\x00\x0D\x00"), 20)},
		{"rar5 zero header size", pad([]byte("Rar!\x1A\x07\x01\x00\x33\x92\xB5\xE5\x00\x01"), 20)},
		{"rar5 oversized header", pad([]byte("Rar!\x1A\x07\x01\x00\x33\x92\xB5\xE5\xFF\xFF\xFF\x7F\x01"), 20)},
		{"mkv magic only", pad([]byte("\x1A\x45\xDF\xA3"), 8)},
		{"mkv zero size byte", pad([]byte("\x1A\x45\xDF\xA3\x00\x42\x86"), 16)},
		{"mkv unknown first child", pad([]byte("\x1A\x45\xDF\xA3\xA3\x18\x53\x80\x67"), 16)},
		{"riff unknown form", pad([]byte("RIFF\x24\x00\x00\x00ABCD"), 44)},
		{"random", []byte("hello world")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Detect(tt.data)
			require.False(t, ok)
		})
	}
}

func TestScan(t *testing.T) {
	png := pad([]byte("\x89PNG\r\n\x1A\n\x00\x00\x00\x0DIHDR"), 33)
	data := append([]byte("junk junk junk"), png...)
	data = append(data, minimalBMP()...)

	headers := Scan(data)
	require.Equal(t, 2, headers.Len())

	first, _ := headers.At(0)
	require.Equal(t, "PNG", first.Name)
	require.Equal(t, 14, first.Offset)

	second, _ := headers.At(1)
	require.Equal(t, "BMP", second.Name)
	require.Equal(t, 14+33, second.Offset)
}

func TestNames(t *testing.T) {
	names := Names()
	require.GreaterOrEqual(t, len(names), 30)
	require.Contains(t, names, "ELF")
	require.Contains(t, names, "PCAPNG")
	require.IsNonDecreasing(t, names)
}

func TestGIFColorTableSize(t *testing.T) {
	require.Equal(t, 0, GIFColorTableSize(0x07))
	require.Equal(t, 6, GIFColorTableSize(0x80))
	require.Equal(t, 768, GIFColorTableSize(0x87))
}
