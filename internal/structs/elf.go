package structs

import (
	"encoding/binary"
	"fmt"

	"github.com/timmattison/hexed/internal/location"
	"github.com/timmattison/hexed/internal/signature"
)

const (
	elfLoad   = 1
	elfNoBits = 8
)

var elfIdent = []field{
	{"magic", 0, 4},
	{".ei_class", 4, 1},
	{".ei_data", 5, 1},
	{".ei_version", 6, 1},
	{".ei_osabi", 7, 1},
	{".ei_abiversion", 8, 1},
	{".ei_pad", 9, 7},
}

// elfClass holds the offsets that differ between ELF32 and ELF64.
type elfClass struct {
	name    string
	width   int
	header  []field
	program []field
	section []field

	phoff, shoff, entry              int
	phentsize, phnum                 int
	shentsize, shnum, shstrndx       int
	pType, pOffset, pVaddr, pFilesz  int
	pMemsz                           int
	shName, shType, shAddr, shOffset int
	shSize                           int
}

var elf32 = elfClass{
	name:  "ELF32",
	width: 4,
	header: []field{
		{".e_type", 16, 2}, {".e_machine", 18, 2}, {".e_version", 20, 4},
		{".e_entry", 24, 4}, {".e_phoff", 28, 4}, {".e_shoff", 32, 4},
		{".e_flags", 36, 4}, {".e_ehsize", 40, 2}, {".e_phentsize", 42, 2},
		{".e_phnum", 44, 2}, {".e_shentsize", 46, 2}, {".e_shnum", 48, 2},
		{".e_shstrndx", 50, 2},
	},
	program: []field{
		{".p_type", 0, 4}, {".p_offset", 4, 4}, {".p_vaddr", 8, 4},
		{".p_paddr", 12, 4}, {".p_filesz", 16, 4}, {".p_memsz", 20, 4},
		{".p_flags", 24, 4}, {".p_align", 28, 4},
	},
	section: []field{
		{".sh_name", 0, 4}, {".sh_type", 4, 4}, {".sh_flags", 8, 4},
		{".sh_addr", 12, 4}, {".sh_offset", 16, 4}, {".sh_size", 20, 4},
		{".sh_link", 24, 4}, {".sh_info", 28, 4}, {".sh_addralign", 32, 4},
		{".sh_entsize", 36, 4},
	},
	entry: 24, phoff: 28, shoff: 32,
	phentsize: 42, phnum: 44, shentsize: 46, shnum: 48, shstrndx: 50,
	pType: 0, pOffset: 4, pVaddr: 8, pFilesz: 16, pMemsz: 20,
	shName: 0, shType: 4, shAddr: 12, shOffset: 16, shSize: 20,
}

var elf64 = elfClass{
	name:  "ELF64",
	width: 8,
	header: []field{
		{".e_type", 16, 2}, {".e_machine", 18, 2}, {".e_version", 20, 4},
		{".e_entry", 24, 8}, {".e_phoff", 32, 8}, {".e_shoff", 40, 8},
		{".e_flags", 48, 4}, {".e_ehsize", 52, 2}, {".e_phentsize", 54, 2},
		{".e_phnum", 56, 2}, {".e_shentsize", 58, 2}, {".e_shnum", 60, 2},
		{".e_shstrndx", 62, 2},
	},
	program: []field{
		{".p_type", 0, 4}, {".p_flags", 4, 4}, {".p_offset", 8, 8},
		{".p_vaddr", 16, 8}, {".p_paddr", 24, 8}, {".p_filesz", 32, 8},
		{".p_memsz", 40, 8}, {".p_align", 48, 8},
	},
	section: []field{
		{".sh_name", 0, 4}, {".sh_type", 4, 4}, {".sh_flags", 8, 8},
		{".sh_addr", 16, 8}, {".sh_offset", 24, 8}, {".sh_size", 32, 8},
		{".sh_link", 40, 4}, {".sh_info", 44, 4}, {".sh_addralign", 48, 8},
		{".sh_entsize", 56, 8},
	},
	entry: 24, phoff: 32, shoff: 40,
	phentsize: 54, phnum: 56, shentsize: 58, shnum: 60, shstrndx: 62,
	pType: 0, pOffset: 8, pVaddr: 16, pFilesz: 32, pMemsz: 40,
	shName: 0, shType: 4, shAddr: 16, shOffset: 24, shSize: 32,
}

// mapping relates a range of virtual addresses to the file bytes backing it.
type mapping struct {
	address uint64
	size    uint64
	offset  uint64
}

// addressMap translates virtual addresses to file offsets.
type addressMap []mapping

// translate returns the file offset holding address, or 0 when no mapping
// contains it or the mapped offset lies outside the data.
func (m addressMap) translate(address uint64, limit int) int {
	for _, region := range m {
		if address < region.address || address-region.address >= region.size {
			continue
		}

		offset := region.offset + (address - region.address)
		if offset >= uint64(limit) {
			return 0
		}

		return int(offset)
	}

	return 0
}

type elfSection struct {
	header int
	name   uint32
	kind   uint32
	addr   uint64
	offset uint64
	size   uint64
}

// ParseELF lists the identification, file header, program headers and
// section headers of an ELF image. Section names come from the section name
// string table and the entry point is translated to a file offset.
func ParseELF(data []byte) (*location.List, error) {
	if !signature.IsELF(data) {
		return nil, fmt.Errorf("elf: %w", ErrInvalidSignature)
	}

	class := elf32
	if data[4] == 2 {
		class = elf64
	}

	var order binary.ByteOrder = binary.LittleEndian
	if data[5] == 2 {
		order = binary.BigEndian
	}

	r := newReader("elf", data, order)

	var f fieldList

	f.label("-- "+class.name+" --", 0)

	if err := f.layout(r, "e_ident", 0, elfIdent); err != nil {
		return nil, err
	}

	if err := f.layout(r, "elf header", 0, class.header); err != nil {
		return nil, err
	}

	var addresses addressMap

	if err := parseELFPrograms(r, &f, class, &addresses); err != nil {
		return nil, err
	}

	sections, err := parseELFSections(r, &f, class)
	if err != nil {
		return nil, err
	}

	for _, s := range sections {
		if s.addr != 0 && s.kind != elfNoBits {
			addresses = append(addresses, mapping{address: s.addr, size: s.size, offset: s.offset})
		}
	}

	entry, err := r.word("e_entry", class.entry, class.width)
	if err != nil {
		return nil, err
	}

	f.pointer("entry point", addresses.translate(entry, len(data)))

	return f.list(), nil
}

func parseELFPrograms(r *reader, f *fieldList, class elfClass, addresses *addressMap) error {
	phoff, err := r.word("e_phoff", class.phoff, class.width)
	if err != nil {
		return err
	}

	phentsize, err := r.u16("e_phentsize", class.phentsize)
	if err != nil {
		return err
	}

	phnum, err := r.u16("e_phnum", class.phnum)
	if err != nil {
		return err
	}

	if phnum == 0 {
		return nil
	}

	base, err := r.offset("e_phoff", phoff)
	if err != nil {
		return err
	}

	for i := range int(phnum) {
		header := base + i*int(phentsize)

		f.label(fmt.Sprintf("-- program header %d --", i), header)

		if err := f.layout(r, fmt.Sprintf("program header %d", i), header, class.program); err != nil {
			return err
		}

		kind, _ := r.u32("p_type", header+class.pType)
		offset, _ := r.word("p_offset", header+class.pOffset, class.width)
		vaddr, _ := r.word("p_vaddr", header+class.pVaddr, class.width)
		filesz, _ := r.word("p_filesz", header+class.pFilesz, class.width)
		memsz, _ := r.word("p_memsz", header+class.pMemsz, class.width)

		if kind == elfLoad {
			*addresses = append(*addresses, mapping{address: vaddr, size: min(memsz, filesz), offset: offset})
		}

		if filesz > 0 && offset < uint64(len(r.data)) {
			if err := f.leaf(r, fmt.Sprintf("segment %d", i), int(offset), clampSize(filesz)); err != nil {
				return err
			}
		}
	}

	return nil
}

func parseELFSections(r *reader, f *fieldList, class elfClass) ([]elfSection, error) {
	shoff, err := r.word("e_shoff", class.shoff, class.width)
	if err != nil {
		return nil, err
	}

	shentsize, err := r.u16("e_shentsize", class.shentsize)
	if err != nil {
		return nil, err
	}

	shnum, err := r.u16("e_shnum", class.shnum)
	if err != nil {
		return nil, err
	}

	shstrndx, err := r.u16("e_shstrndx", class.shstrndx)
	if err != nil {
		return nil, err
	}

	if shnum == 0 {
		return nil, nil
	}

	base, err := r.offset("e_shoff", shoff)
	if err != nil {
		return nil, err
	}

	sections := make([]elfSection, int(shnum))

	for i := range sections {
		header := base + i*int(shentsize)
		if err := r.need(fmt.Sprintf("section header %d", i), header, class.section[len(class.section)-1].offset+class.width); err != nil {
			return nil, err
		}

		name, _ := r.u32("sh_name", header+class.shName)
		kind, _ := r.u32("sh_type", header+class.shType)
		addr, _ := r.word("sh_addr", header+class.shAddr, class.width)
		offset, _ := r.word("sh_offset", header+class.shOffset, class.width)
		size, _ := r.word("sh_size", header+class.shSize, class.width)

		sections[i] = elfSection{header: header, name: name, kind: kind, addr: addr, offset: offset, size: size}
	}

	names := func(s elfSection) string {
		return fmt.Sprintf("#%d", s.name)
	}

	if int(shstrndx) < len(sections) {
		table := sections[shstrndx]
		if table.offset < uint64(len(r.data)) {
			start := int(table.offset)
			end := start + clampSize(table.size)

			names = func(s elfSection) string {
				if uint64(s.name) >= table.size {
					return "<invalid>"
				}

				return r.name(start+int(s.name), end)
			}
		}
	}

	for i, s := range sections {
		name := names(s)

		f.label(fmt.Sprintf("-- section %d %s --", i, name), s.header)

		if err := f.layout(r, fmt.Sprintf("section header %d", i), s.header, class.section); err != nil {
			return nil, err
		}

		if s.kind != elfNoBits && s.size > 0 && s.offset < uint64(len(r.data)) {
			if err := f.leaf(r, name, int(s.offset), clampSize(s.size)); err != nil {
				return nil, err
			}
		}
	}

	return sections, nil
}

// clampSize converts a size read from the file to an int that cannot
// overflow when added to an in-range offset.
func clampSize(size uint64) int {
	const limit = 1 << 40
	if size > limit {
		return limit
	}

	return int(size)
}
