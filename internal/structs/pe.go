package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

var mzHeader = []field{
	{".e_magic", 0, 2}, {".e_cblp", 2, 2}, {".e_cp", 4, 2}, {".e_crlc", 6, 2},
	{".e_cparhdr", 8, 2}, {".e_minalloc", 10, 2}, {".e_maxalloc", 12, 2},
	{".e_ss", 14, 2}, {".e_sp", 16, 2}, {".e_csum", 18, 2}, {".e_ip", 20, 2},
	{".e_cs", 22, 2}, {".e_lfarlc", 24, 2}, {".e_ovno", 26, 2}, {".e_res", 28, 8},
	{".e_oemid", 36, 2}, {".e_oeminfo", 38, 2}, {".e_res2", 40, 20},
	{".e_lfanew", 60, 4},
}

var coffHeader = []field{
	{".Signature", 0, 4}, {".Machine", 4, 2}, {".NumberOfSections", 6, 2},
	{".TimeDateStamp", 8, 4}, {".PointerToSymbolTable", 12, 4},
	{".NumberOfSymbols", 16, 4}, {".SizeOfOptionalHeader", 20, 2},
	{".Characteristics", 22, 2},
}

var optionalCommon = []field{
	{".Magic", 0, 2}, {".MajorLinkerVersion", 2, 1}, {".MinorLinkerVersion", 3, 1},
	{".SizeOfCode", 4, 4}, {".SizeOfInitializedData", 8, 4},
	{".SizeOfUninitializedData", 12, 4}, {".AddressOfEntryPoint", 16, 4},
	{".BaseOfCode", 20, 4},
}

var optionalPE32 = []field{
	{".BaseOfData", 24, 4}, {".ImageBase", 28, 4},
	{".SectionAlignment", 32, 4}, {".FileAlignment", 36, 4},
	{".MajorOperatingSystemVersion", 40, 2}, {".MinorOperatingSystemVersion", 42, 2},
	{".MajorImageVersion", 44, 2}, {".MinorImageVersion", 46, 2},
	{".MajorSubsystemVersion", 48, 2}, {".MinorSubsystemVersion", 50, 2},
	{".Win32VersionValue", 52, 4}, {".SizeOfImage", 56, 4}, {".SizeOfHeaders", 60, 4},
	{".CheckSum", 64, 4}, {".Subsystem", 68, 2}, {".DllCharacteristics", 70, 2},
	{".SizeOfStackReserve", 72, 4}, {".SizeOfStackCommit", 76, 4},
	{".SizeOfHeapReserve", 80, 4}, {".SizeOfHeapCommit", 84, 4},
	{".LoaderFlags", 88, 4}, {".NumberOfRvaAndSizes", 92, 4},
}

var optionalPE32Plus = []field{
	{".ImageBase", 24, 8},
	{".SectionAlignment", 32, 4}, {".FileAlignment", 36, 4},
	{".MajorOperatingSystemVersion", 40, 2}, {".MinorOperatingSystemVersion", 42, 2},
	{".MajorImageVersion", 44, 2}, {".MinorImageVersion", 46, 2},
	{".MajorSubsystemVersion", 48, 2}, {".MinorSubsystemVersion", 50, 2},
	{".Win32VersionValue", 52, 4}, {".SizeOfImage", 56, 4}, {".SizeOfHeaders", 60, 4},
	{".CheckSum", 64, 4}, {".Subsystem", 68, 2}, {".DllCharacteristics", 70, 2},
	{".SizeOfStackReserve", 72, 8}, {".SizeOfStackCommit", 80, 8},
	{".SizeOfHeapReserve", 88, 8}, {".SizeOfHeapCommit", 96, 8},
	{".LoaderFlags", 104, 4}, {".NumberOfRvaAndSizes", 108, 4},
}

var sectionHeader = []field{
	{".Name", 0, 8}, {".VirtualSize", 8, 4}, {".VirtualAddress", 12, 4},
	{".SizeOfRawData", 16, 4}, {".PointerToRawData", 20, 4},
	{".PointerToRelocations", 24, 4}, {".PointerToLinenumbers", 28, 4},
	{".NumberOfRelocations", 32, 2}, {".NumberOfLinenumbers", 34, 2},
	{".Characteristics", 36, 4},
}

var exportDirectory = []field{
	{".Characteristics", 0, 4}, {".TimeDateStamp", 4, 4}, {".MajorVersion", 8, 2},
	{".MinorVersion", 10, 2}, {".Name", 12, 4}, {".Base", 16, 4},
	{".NumberOfFunctions", 20, 4}, {".NumberOfNames", 24, 4},
	{".AddressOfFunctions", 28, 4}, {".AddressOfNames", 32, 4},
	{".AddressOfNameOrdinals", 36, 4},
}

var dataDirectoryNames = []string{
	"Export", "Import", "Resource", "Exception", "Certificate", "BaseReloc",
	"Debug", "Architecture", "GlobalPtr", "TLS", "LoadConfig", "BoundImport",
	"IAT", "DelayImport", "CLR", "Reserved",
}

const (
	pe32Magic     = 0x10B
	pe32PlusMagic = 0x20B

	exportIndex      = 0
	certificateIndex = 4
	tlsIndex         = 9
)

type dataDirectory struct {
	rva  uint32
	size uint32
}

// peImage collects what later stages need from the headers.
type peImage struct {
	imageBase   uint64
	headersSize uint32
	wide        bool
	sections    addressMap
	directories []dataDirectory
}

// translate maps a relative virtual address to a file offset, 0 when it is
// not backed by file data.
func (p *peImage) translate(rva uint64, limit int) int {
	if rva < uint64(p.headersSize) && rva < uint64(limit) {
		return int(rva)
	}

	return p.sections.translate(rva, limit)
}

func (p *peImage) directory(index int) (dataDirectory, bool) {
	if index >= len(p.directories) || p.directories[index].rva == 0 {
		return dataDirectory{}, false
	}

	return p.directories[index], true
}

// ParsePE lists the MZ header, the PE headers, the data directories and
// section table, and follows the export table, TLS callbacks and the
// certificate table when present.
func ParsePE(data []byte) (*location.List, error) {
	if !signature.IsPE(data) {
		return nil, fmt.Errorf("pe: %w", ErrInvalidSignature)
	}

	r := newReader("pe", data, binary.LittleEndian)

	var f fieldList

	f.label("-- MZ --", 0)

	if err := f.layout(r, "mz header", 0, mzHeader); err != nil {
		return nil, err
	}

	lfanew, _ := r.u32("e_lfanew", 60)
	pe := int(lfanew)

	if pe > 64 {
		f.add("dos stub", 64, pe-64)
	}

	f.label("-- PE --", pe)

	if err := f.layout(r, "coff header", pe, coffHeader); err != nil {
		return nil, err
	}

	sectionCount, _ := r.u16("NumberOfSections", pe+6)
	optionalSize, _ := r.u16("SizeOfOptionalHeader", pe+20)

	image := &peImage{}
	optional := pe + 24

	if optionalSize > 0 {
		if err := parseOptionalHeader(r, &f, image, optional, int(optionalSize)); err != nil {
			return nil, err
		}
	}

	if err := parseSectionTable(r, &f, image, optional+int(optionalSize), int(sectionCount)); err != nil {
		return nil, err
	}

	if optionalSize > 0 {
		entry, _ := r.u32("AddressOfEntryPoint", optional+16)
		f.pointer("entry point", image.translate(uint64(entry), len(data)))
	}

	if err := parseExports(r, &f, image); err != nil {
		return nil, err
	}

	if err := parseTLS(r, &f, image); err != nil {
		return nil, err
	}

	if err := parseCertificates(r, &f, image); err != nil {
		return nil, err
	}

	return f.list(), nil
}

func parseOptionalHeader(r *reader, f *fieldList, image *peImage, base, size int) error {
	magic, err := r.u16("optional header magic", base)
	if err != nil {
		return err
	}

	var layout []field

	directories := 0

	switch magic {
	case pe32Magic:
		f.label("-- PE32 optional header --", base)
		layout = optionalPE32
		directories = 96
	case pe32PlusMagic:
		f.label("-- PE32+ optional header --", base)
		layout = optionalPE32Plus
		directories = 112
		image.wide = true
	default:
		return r.errorf(ErrMalformed, "optional header magic", base)
	}

	if directories > size {
		return r.errorf(ErrTruncated, "optional header", base)
	}

	if err := f.layout(r, "optional header", base, optionalCommon); err != nil {
		return err
	}

	if err := f.layout(r, "optional header", base, layout); err != nil {
		return err
	}

	if image.wide {
		image.imageBase, _ = r.u64("ImageBase", base+24)
	} else {
		imageBase, _ := r.u32("ImageBase", base+28)
		image.imageBase = uint64(imageBase)
	}

	image.headersSize, _ = r.u32("SizeOfHeaders", base+60)

	count, _ := r.u32("NumberOfRvaAndSizes", base+directories-4)
	count = min(count, uint32(len(dataDirectoryNames)), uint32((size-directories)/8))

	for i := range int(count) {
		entry := base + directories + i*8
		name := dataDirectoryNames[i]

		if err := f.layout(r, name+" directory", entry, []field{
			{"." + name + "Table", 0, 4},
			{"." + name + "Size", 4, 4},
		}); err != nil {
			return err
		}

		rva, _ := r.u32(name, entry)
		length, _ := r.u32(name, entry+4)
		image.directories = append(image.directories, dataDirectory{rva: rva, size: length})
	}

	return nil
}

func parseSectionTable(r *reader, f *fieldList, image *peImage, base, count int) error {
	for i := range count {
		header := base + i*40

		if err := r.need(fmt.Sprintf("section header %d", i), header, 40); err != nil {
			return err
		}

		name := r.name(header, header+8)

		f.label(fmt.Sprintf("-- section %d %s --", i, name), header)

		if err := f.layout(r, "section header", header, sectionHeader); err != nil {
			return err
		}

		virtualSize, _ := r.u32("VirtualSize", header+8)
		virtualAddress, _ := r.u32("VirtualAddress", header+12)
		rawSize, _ := r.u32("SizeOfRawData", header+16)
		rawPointer, _ := r.u32("PointerToRawData", header+20)

		if rawSize == 0 {
			continue
		}

		size := rawSize
		if virtualSize != 0 {
			size = min(virtualSize, rawSize)
		}

		image.sections = append(image.sections, mapping{
			address: uint64(virtualAddress),
			size:    uint64(size),
			offset:  uint64(rawPointer),
		})

		if int(rawPointer) < len(r.data) {
			if err := f.leaf(r, name, int(rawPointer), int(rawSize)); err != nil {
				return err
			}
		}
	}

	return nil
}

func parseExports(r *reader, f *fieldList, image *peImage) error {
	dir, ok := image.directory(exportIndex)
	if !ok {
		return nil
	}

	base := image.translate(uint64(dir.rva), len(r.data))

	f.label("-- export directory --", base)

	if base == 0 {
		return nil
	}

	if err := f.layout(r, "export directory", base, exportDirectory); err != nil {
		return err
	}

	nameRVA, _ := r.u32("Name", base+12)
	functionCount, _ := r.u32("NumberOfFunctions", base+20)
	nameCount, _ := r.u32("NumberOfNames", base+24)
	functionsRVA, _ := r.u32("AddressOfFunctions", base+28)
	namesRVA, _ := r.u32("AddressOfNames", base+32)
	ordinalsRVA, _ := r.u32("AddressOfNameOrdinals", base+36)

	if name := image.translate(uint64(nameRVA), len(r.data)); name != 0 {
		f.label("dll "+r.name(name, len(r.data)), name)
	}

	functions := image.translate(uint64(functionsRVA), len(r.data))
	names := image.translate(uint64(namesRVA), len(r.data))
	ordinals := image.translate(uint64(ordinalsRVA), len(r.data))

	if names == 0 || ordinals == 0 || functions == 0 {
		return nil
	}

	for i := range int(nameCount) {
		nameAt, err := r.u32("AddressOfNames", names+i*4)
		if err != nil {
			return err
		}

		ordinal, err := r.u16("AddressOfNameOrdinals", ordinals+i*2)
		if err != nil {
			return err
		}

		if uint32(ordinal) >= functionCount {
			return r.errorf(ErrMalformed, "export ordinal", ordinals+i*2)
		}

		function, err := r.u32("AddressOfFunctions", functions+int(ordinal)*4)
		if err != nil {
			return err
		}

		exportName := "<unnamed>"
		if at := image.translate(uint64(nameAt), len(r.data)); at != 0 {
			exportName = r.name(at, len(r.data))
		}

		f.pointer("export "+exportName, image.translate(uint64(function), len(r.data)))
	}

	return nil
}

func parseTLS(r *reader, f *fieldList, image *peImage) error {
	dir, ok := image.directory(tlsIndex)
	if !ok {
		return nil
	}

	base := image.translate(uint64(dir.rva), len(r.data))

	f.pointer("-- tls directory --", base)

	if base == 0 {
		return nil
	}

	width := 4
	if image.wide {
		width = 8
	}

	if err := f.layout(r, "tls directory", base, []field{
		{".StartAddressOfRawData", 0, width},
		{".EndAddressOfRawData", width, width},
		{".AddressOfIndex", 2 * width, width},
		{".AddressOfCallBacks", 3 * width, width},
		{".SizeOfZeroFill", 4 * width, 4},
		{".Characteristics", 4*width + 4, 4},
	}); err != nil {
		return err
	}

	callbacks, _ := r.word("AddressOfCallBacks", base+3*width, width)
	if callbacks < image.imageBase {
		return nil
	}

	array := image.translate(callbacks-image.imageBase, len(r.data))
	if array == 0 {
		return nil
	}

	for i := 0; ; i++ {
		callback, err := r.word("tls callback", array+i*width, width)
		if err != nil {
			return err
		}

		if callback == 0 {
			return nil
		}

		offset := 0
		if callback >= image.imageBase {
			offset = image.translate(callback-image.imageBase, len(r.data))
		}

		f.pointer(fmt.Sprintf("tls callback %d", i), offset)
	}
}

// parseCertificates walks the WIN_CERTIFICATE entries of the attribute
// certificate table. Its directory entry holds a file offset, not an RVA.
func parseCertificates(r *reader, f *fieldList, image *peImage) error {
	dir, ok := image.directory(certificateIndex)
	if !ok {
		return nil
	}

	start := int(dir.rva)
	end := start + int(dir.size)

	if err := r.need("certificate table", start, int(dir.size)); err != nil {
		return err
	}

	f.label("-- certificate table --", start)

	for i, offset := 0, start; offset < end; i++ {
		length, err := r.u32("dwLength", offset)
		if err != nil {
			return err
		}

		if length < 8 || uint64(length) > uint64(end-offset) {
			return r.errorf(ErrMalformed, "dwLength", offset)
		}

		f.label(fmt.Sprintf("-- certificate %d --", i), offset)

		if err := f.layout(r, "certificate", offset, []field{
			{".dwLength", 0, 4},
			{".wRevision", 4, 2},
			{".wCertificateType", 6, 2},
			{".bCertificate", 8, int(length) - 8},
		}); err != nil {
			return err
		}

		// entries are quadword aligned
		offset += (int(length) + 7) &^ 7
	}

	return nil
}
