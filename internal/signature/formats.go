package signature

import (
	"encoding/binary"
	"math/bits"
	"slices"
)

var (
	le = binary.LittleEndian
	be = binary.BigEndian
)

func init() {
	register("AR", isAR, nil, '!')
	register("ICO", IsICO, nil, 0x00)
	register("CUR", IsCUR, nil, 0x00)
	register("MP4", isMP4, mp4Size, 0x00)
	register("WASM", isWASM, nil, 0x00)
	register("PCAPNG", IsPCAPNG, pcapngSize, 0x0A)
	register("GZIP", isGZIP, nil, 0x1F)
	register("MKV", isMKV, nil, 0x1A)
	register("ZSTD", isZSTD, nil, 0x28)
	register("7Z", is7Z, nil, '7')
	register("ELF", IsELF, nil, 0x7F)
	register("PDF", isPDF, nil, '%')
	register("BMP", IsBMP, bmpSize, 'B')
	register("BZIP2", isBZIP2, nil, 'B')
	register("CAB", isCAB, cabSize, 'M')
	register("PE", IsPE, nil, 'M')
	register("TIFF", isTIFF, nil, 'M', 'I')
	register("MP3", isID3, id3Size, 'I')
	register("GIF", IsGIF, nil, 'G')
	register("JPEG", IsJPEG, nil, 0xFF)
	register("PNG", IsPNG, nil, 0x89)
	register("OGG", isOGG, nil, 'O')
	register("OLE", isOLE, nil, 0xD0)
	register("RAR", isRAR, nil, 'R')
	register("WAV", riffForm("WAVE"), riffSize, 'R')
	register("AVI", riffForm("AVI "), riffSize, 'R')
	register("ANI", riffForm("ACON"), riffSize, 'R')
	register("WEBP", riffForm("WEBP"), riffSize, 'R')
	register("CDR", isCDR, riffSize, 'R')
	register("DLS", riffForm("DLS "), riffSize, 'R')
	register("DAT", riffForm("CDXA"), riffSize, 'R')
	register("SQLITE", isSQLite, nil, 'S')
	register("ZIP", isZIP, nil, 'P')
	register("FLAC", isFLAC, nil, 'f')
	register("WOFF", isWOFF, woffSize, 'w')
	register("CLASS", isClass, nil, 0xCA)
	register("MACHO", isMachO, nil, 0xCA, 0xCE, 0xCF, 0xFE)
	register("PCAP", IsPCAP, nil, 0xD4, 0xA1, 0x4D)
	register("XZ", isXZ, nil, 0xFD)
	register("DEX", isDEX, dexSize, 'd')
}

func isAR(data []byte) bool {
	// the first member header ends with "`\n"
	return hasPrefix(data, "!<arch>\n") && hasAt(data, 8+58, "`\n")
}

func iconDirectory(data []byte, kind uint16) bool {
	if !hasPrefix(data, "\x00\x00") {
		return false
	}

	t, ok := u16(data, 2, le)
	if !ok || t != kind {
		return false
	}

	count, ok := u16(data, 4, le)
	if !ok || count == 0 || len(data) < 6+16 {
		return false
	}

	// first ICONDIRENTRY: reserved byte must be zero, image size non-zero
	size, _ := u32(data, 6+8, le)
	offset, _ := u32(data, 6+12, le)

	return data[6+3] == 0 && size > 0 && offset >= 6+16*uint32(count)
}

// IsICO checks for a Windows icon directory.
func IsICO(data []byte) bool {
	if !iconDirectory(data, 1) {
		return false
	}

	planes, _ := u16(data, 6+4, le)

	return planes <= 1
}

// IsCUR checks for a Windows cursor directory.
func IsCUR(data []byte) bool {
	return iconDirectory(data, 2)
}

func isMP4(data []byte) bool {
	size, ok := u32(data, 0, be)
	if !ok || !hasAt(data, 4, "ftyp") || size < 16 || size%4 != 0 {
		return false
	}

	for _, c := range data[8:min(12, len(data))] {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}

	return len(data) >= 12
}

func mp4Size(data []byte) int {
	size, _ := u32(data, 0, be)
	return int(size)
}

func isWASM(data []byte) bool {
	version, ok := u32(data, 4, le)
	return hasPrefix(data, "\x00asm") && ok && version == 1
}

// PCAPNGOrder returns the byte order declared by a section header block.
func PCAPNGOrder(data []byte) (binary.ByteOrder, bool) {
	switch {
	case hasAt(data, 8, "\x4D\x3C\x2B\x1A"):
		return le, true
	case hasAt(data, 8, "\x1A\x2B\x3C\x4D"):
		return be, true
	}

	return nil, false
}

// IsPCAPNG checks for a section header block with a valid byte-order magic.
func IsPCAPNG(data []byte) bool {
	if !hasPrefix(data, "\x0A\x0D\x0D\x0A") {
		return false
	}

	order, ok := PCAPNGOrder(data)
	if !ok {
		return false
	}

	length, ok := u32(data, 4, order)

	return ok && length >= 28 && length%4 == 0
}

func pcapngSize(data []byte) int {
	order, _ := PCAPNGOrder(data)
	length, _ := u32(data, 4, order)

	return int(length)
}

func isGZIP(data []byte) bool {
	flags, ok := byteAt(data, 3)
	return hasPrefix(data, "\x1F\x8B\x08") && ok && flags&0xE0 == 0
}

// ebmlHeaderChildren are the element IDs allowed inside the EBML header.
var ebmlHeaderChildren = []uint16{0x4286, 0x42F7, 0x42F2, 0x42F3, 0x4282, 0x4287, 0x4285}

// isMKV checks the EBML header size and that its first child is one of the
// EBML header elements.
func isMKV(data []byte) bool {
	if !hasPrefix(data, "\x1A\x45\xDF\xA3") {
		return false
	}

	first, ok := byteAt(data, 4)
	if !ok || first == 0 {
		return false
	}

	sizeLength := bits.LeadingZeros8(first) + 1

	child, ok := u16(data, 4+sizeLength, be)
	if !ok {
		return false
	}

	return slices.Contains(ebmlHeaderChildren, child)
}

func isZSTD(data []byte) bool {
	descriptor, ok := byteAt(data, 4)
	return hasPrefix(data, "\x28\xB5\x2F\xFD") && ok && descriptor&0x08 == 0
}

func is7Z(data []byte) bool {
	major, ok := byteAt(data, 6)
	return hasPrefix(data, "7z\xBC\xAF\x27\x1C") && ok && major == 0
}

// IsELF checks the ELF identification: class, data encoding and version must
// hold defined values.
func IsELF(data []byte) bool {
	if !hasPrefix(data, "\x7FELF") || len(data) < 16 {
		return false
	}

	class, encoding, version := data[4], data[5], data[6]

	return (class == 1 || class == 2) && (encoding == 1 || encoding == 2) && version == 1
}

func isPDF(data []byte) bool {
	if !hasPrefix(data, "%PDF-") || len(data) < 8 {
		return false
	}

	return data[5] >= '1' && data[5] <= '9' && data[6] == '.' && data[7] >= '0' && data[7] <= '9'
}

var bmpHeaderSizes = []uint32{12, 40, 52, 56, 108, 124}

// IsBMP checks the BITMAPFILEHEADER and the plane count and bit depth of the
// DIB header that follows it.
func IsBMP(data []byte) bool {
	if !hasPrefix(data, "BM") {
		return false
	}

	dibSize, ok := u32(data, 14, le)
	if !ok {
		return false
	}

	known := false

	for _, size := range bmpHeaderSizes {
		if size == dibSize {
			known = true
		}
	}

	if !known {
		return false
	}

	planesAt, bppAt := 26, 28
	if dibSize == 12 {
		planesAt, bppAt = 22, 24
	}

	planes, ok := u16(data, planesAt, le)
	if !ok || planes != 1 {
		return false
	}

	bpp, ok := u16(data, bppAt, le)
	if !ok {
		return false
	}

	switch bpp {
	case 1, 2, 4, 8, 16, 24, 32:
		return true
	}

	return false
}

func bmpSize(data []byte) int {
	size, _ := u32(data, 2, le)
	return int(size)
}

func isBZIP2(data []byte) bool {
	if !hasPrefix(data, "BZh") || len(data) < 10 || data[3] < '1' || data[3] > '9' {
		return false
	}

	// first block magic (pi) or end of stream magic (sqrt pi) for an empty stream
	return hasAt(data, 4, "\x31\x41\x59\x26\x53\x59") || hasAt(data, 4, "\x17\x72\x45\x38\x50\x90")
}

func isCAB(data []byte) bool {
	reserved, ok := u32(data, 4, le)
	if !hasPrefix(data, "MSCF") || !ok || reserved != 0 {
		return false
	}

	minor, ok1 := byteAt(data, 24)
	major, ok2 := byteAt(data, 25)

	return ok1 && ok2 && major == 1 && minor == 3
}

func cabSize(data []byte) int {
	size, _ := u32(data, 8, le)
	return int(size)
}

// IsPE checks for an MZ header whose e_lfanew points at "PE\0\0".
func IsPE(data []byte) bool {
	if !hasPrefix(data, "MZ") {
		return false
	}

	lfanew, ok := u32(data, 0x3C, le)
	if !ok || lfanew < 0x40 || uint64(lfanew) > uint64(len(data)) {
		return false
	}

	return hasAt(data, int(lfanew), "PE\x00\x00")
}

func isTIFF(data []byte) bool {
	var order binary.ByteOrder

	switch {
	case hasPrefix(data, "II*\x00"):
		order = le
	case hasPrefix(data, "MM\x00*"):
		order = be
	default:
		return false
	}

	ifd, ok := u32(data, 4, order)

	return ok && ifd >= 8
}

func isID3(data []byte) bool {
	if !hasPrefix(data, "ID3") || len(data) < 10 {
		return false
	}

	major, minor, flags := data[3], data[4], data[5]
	if major < 2 || major > 4 || minor == 0xFF || flags&0x0F != 0 {
		return false
	}

	// the tag size is syncsafe: the top bit of every byte is clear
	for _, c := range data[6:10] {
		if c&0x80 != 0 {
			return false
		}
	}

	return true
}

func id3Size(data []byte) int {
	size := 0
	for _, c := range data[6:10] {
		size = size<<7 | int(c)
	}

	return size + 10
}

// GIFColorTableSize returns the size in bytes of the colour table described
// by a GIF packed-fields byte, 0 when the table flag is clear.
func GIFColorTableSize(flags byte) int {
	if flags&0x80 == 0 {
		return 0
	}

	return 3 << ((flags & 0x07) + 1)
}

// IsGIF checks the GIF magic and that the byte following the global colour
// table starts an extension, an image or the trailer.
func IsGIF(data []byte) bool {
	if !hasPrefix(data, "GIF87a") && !hasPrefix(data, "GIF89a") {
		return false
	}

	flags, ok := byteAt(data, 10)
	if !ok {
		return false
	}

	next, ok := byteAt(data, 13+GIFColorTableSize(flags))
	if !ok {
		return false
	}

	return next == '!' || next == ',' || next == ';'
}

// IsJPEG checks for SOI followed by a plausible first marker segment.
func IsJPEG(data []byte) bool {
	if !hasPrefix(data, "\xFF\xD8\xFF") {
		return false
	}

	marker, ok := byteAt(data, 3)
	if !ok {
		return false
	}

	switch {
	case marker >= 0xE0 && marker <= 0xEF, marker == 0xDB, marker == 0xFE, marker == 0xC4, marker == 0xC0, marker == 0xC2:
	default:
		return false
	}

	length, ok := u16(data, 4, be)

	return ok && length >= 2
}

// IsPNG checks the PNG signature and that the first chunk is a 13 byte IHDR.
func IsPNG(data []byte) bool {
	if !hasPrefix(data, "\x89PNG\r\n\x1A\n") {
		return false
	}

	length, ok := u32(data, 8, be)

	return ok && length == 13 && hasAt(data, 12, "IHDR")
}

func isOGG(data []byte) bool {
	if !hasPrefix(data, "OggS") || len(data) < 6 {
		return false
	}

	return data[4] == 0 && data[5]&^0x07 == 0
}

func isOLE(data []byte) bool {
	return hasPrefix(data, "\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1") && hasAt(data, 28, "\xFE\xFF")
}

// rar5MaxHeaderSize is the largest header a RAR 5 archive may declare.
const rar5MaxHeaderSize = 2 << 20

// isRAR checks the block after the marker. In RAR 4 that is the archive
// header (type 0x73). In RAR 5 it is the main archive header, whose size
// follows its CRC32 and whose type is 1.
func isRAR(data []byte) bool {
	if hasPrefix(data, "Rar!\x1A\x07\x00") {
		kind, ok := byteAt(data, 9)
		return ok && kind == 0x73
	}

	if !hasPrefix(data, "Rar!\x1A\x07\x01\x00") {
		return false
	}

	size, n, ok := rarVint(data, 12)
	if !ok || size == 0 || size > rar5MaxHeaderSize {
		return false
	}

	kind, _, ok := rarVint(data, 12+n)

	return ok && kind == 1
}

// rarVint decodes the RAR 5 variable length integer at offset: seven bits per
// byte, low bits first, the high bit set on every byte but the last.
func rarVint(data []byte, offset int) (uint64, int, bool) {
	var value uint64

	for i := 0; i < 10; i++ {
		b, ok := byteAt(data, offset+i)
		if !ok {
			return 0, 0, false
		}

		value |= uint64(b&0x7F) << (7 * i)

		if b&0x80 == 0 {
			return value, i + 1, true
		}
	}

	return 0, 0, false
}

func isRIFF(data []byte) bool {
	size, ok := u32(data, 4, le)
	return hasPrefix(data, "RIFF") && ok && size >= 4
}

func riffForm(form string) func([]byte) bool {
	return func(data []byte) bool {
		return isRIFF(data) && hasAt(data, 8, form)
	}
}

// CorelDRAW stores its version as the fourth byte of the form type: "CDR9".
func isCDR(data []byte) bool {
	if !isRIFF(data) || !hasAt(data, 8, "CDR") {
		return false
	}

	version, ok := byteAt(data, 11)

	return ok && (version >= '0' && version <= '9' || version >= 'A' && version <= 'Z' || version == ' ')
}

func riffSize(data []byte) int {
	size, _ := u32(data, 4, le)
	return int(size) + 8
}

func isSQLite(data []byte) bool {
	if !hasPrefix(data, "SQLite format 3\x00") {
		return false
	}

	pageSize, ok := u16(data, 16, be)

	// 1 encodes 65536
	return ok && (pageSize == 1 || pageSize >= 512 && isPowerOfTwo(uint32(pageSize)))
}

func isZIP(data []byte) bool {
	version, ok := u16(data, 4, le)
	if !hasPrefix(data, "PK\x03\x04") || !ok || version > 100 {
		return false
	}

	method, ok := u16(data, 8, le)
	if !ok {
		return false
	}

	switch method {
	case 0, 1, 6, 8, 9, 12, 14, 93, 95, 96, 97, 98, 99:
		return true
	}

	return false
}

func isFLAC(data []byte) bool {
	if !hasPrefix(data, "fLaC") || len(data) < 8 {
		return false
	}

	// the first metadata block is always a 34 byte STREAMINFO
	return data[4]&0x7F == 0 && data[5] == 0 && data[6] == 0 && data[7] == 34
}

func isWOFF(data []byte) bool {
	length, ok := u32(data, 8, be)
	return hasPrefix(data, "wOFF") && ok && length >= 44
}

func woffSize(data []byte) int {
	length, _ := u32(data, 8, be)
	return int(length)
}

// Java class files share CAFEBABE with fat Mach-O binaries; the class file
// major version (45+) is far above any realistic fat architecture count.
func isClass(data []byte) bool {
	major, ok := u16(data, 6, be)
	return hasPrefix(data, "\xCA\xFE\xBA\xBE") && ok && major >= 45
}

func isMachO(data []byte) bool {
	if hasPrefix(data, "\xCA\xFE\xBA\xBE") {
		count, ok := u32(data, 4, be)
		return ok && count > 0 && count < 45
	}

	var order binary.ByteOrder

	switch {
	case hasPrefix(data, "\xFE\xED\xFA\xCE"), hasPrefix(data, "\xFE\xED\xFA\xCF"):
		order = be
	case hasPrefix(data, "\xCE\xFA\xED\xFE"), hasPrefix(data, "\xCF\xFA\xED\xFE"):
		order = le
	default:
		return false
	}

	fileType, ok := u32(data, 12, order)

	return ok && fileType >= 1 && fileType <= 12
}

// PCAPOrder returns the byte order and whether timestamps are in nanoseconds
// for a PCAP global header.
func PCAPOrder(data []byte) (order binary.ByteOrder, nano bool, ok bool) {
	switch {
	case hasPrefix(data, "\xD4\xC3\xB2\xA1"):
		return le, false, true
	case hasPrefix(data, "\xA1\xB2\xC3\xD4"):
		return be, false, true
	case hasPrefix(data, "\x4D\x3C\xB2\xA1"):
		return le, true, true
	case hasPrefix(data, "\xA1\xB2\x3C\x4D"):
		return be, true, true
	}

	return nil, false, false
}

// IsPCAP checks the magic and the 2.4 file format version.
func IsPCAP(data []byte) bool {
	order, _, ok := PCAPOrder(data)
	if !ok {
		return false
	}

	major, ok1 := u16(data, 4, order)
	minor, ok2 := u16(data, 6, order)

	return ok1 && ok2 && major == 2 && minor == 4
}

func isXZ(data []byte) bool {
	flags, ok := byteAt(data, 6)
	return hasPrefix(data, "\xFD7zXZ\x00") && ok && flags == 0
}

func isDEX(data []byte) bool {
	if !hasPrefix(data, "dex\n") || len(data) < 8 {
		return false
	}

	return data[4] == '0' && data[5] >= '0' && data[5] <= '9' && data[6] >= '0' && data[6] <= '9' && data[7] == 0
}

func dexSize(data []byte) int {
	size, _ := u32(data, 32, le)
	return int(size)
}
