package vmm

import (
	"bytes"
	"debug/elf"

	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

// NewUserFromELF parses a well-formed 64-bit little-endian RISC-V ELF image
// and builds the user memory set it describes (spec.md §4.1
// new_user_from_elf()). It returns the memory set, the entry point and the
// initial user stack pointer. Any failure releases every area already
// pushed into the memory set and its page table's own root frame before
// returning, so a failed load leaves the frame allocator exactly as it
// found it (spec.md §8 scenario 5).
func NewUserFromELF(image []byte, allocFn FrameAllocatorFn, freeFn func(pmm.Frame)) (ms *MemorySet, entry uintptr, userSP uintptr, err *kernel.Error) {
	f, parseErr := elf.NewFile(bytes.NewReader(image))
	if parseErr != nil {
		return nil, 0, 0, ErrBadELF
	}

	if f.Class != elf.ELFCLASS64 || f.Data != elf.ELFDATA2LSB || f.Machine != elf.EM_RISCV {
		return nil, 0, 0, ErrBadELF
	}

	table, kerr := NewPageTable(allocFn)
	if kerr != nil {
		return nil, 0, 0, kerr
	}
	ms = &MemorySet{table: table}

	abort := func(err *kernel.Error) (*MemorySet, uintptr, uintptr, *kernel.Error) {
		ms.Teardown(freeFn)
		freeFn(table.root)
		return nil, 0, 0, err
	}

	var highestEnd uintptr
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}

		flags := userAreaFlags(prog.Flags)
		segStart := uintptr(prog.Vaddr) &^ uintptr(mem.PageSize-1)
		segEnd := (uintptr(prog.Vaddr) + uintptr(prog.Memsz) + uintptr(mem.PageSize) - 1) &^ uintptr(mem.PageSize-1)

		area := NewFramedArea(segStart, mem.Size(segEnd-segStart), flags)

		data := make([]byte, prog.Filesz)
		if _, rerr := prog.ReadAt(data, 0); rerr != nil {
			return abort(ErrBadELF)
		}
		// pad so CopyData writes at the correct page-aligned offset
		padded := make([]byte, uintptr(prog.Vaddr)-segStart+uintptr(len(data)))
		copy(padded[uintptr(prog.Vaddr)-segStart:], data)

		if err := ms.pushArea(area, allocFn, padded); err != nil {
			return abort(err)
		}

		if segEnd > highestEnd {
			highestEnd = segEnd
		}
	}

	userSP = highestEnd + uintptr(GuardPageSize) + uintptr(UserStackSize)
	stackStart := highestEnd + uintptr(GuardPageSize)
	stackArea := NewFramedArea(stackStart, UserStackSize, FlagRead|FlagWrite|FlagUser)
	if kerr := ms.pushArea(stackArea, allocFn, nil); kerr != nil {
		return abort(kerr)
	}

	trapCtxArea := NewFramedArea(TrapContextVirtAddr, mem.PageSize, FlagRead|FlagWrite)
	if kerr := ms.pushArea(trapCtxArea, allocFn, nil); kerr != nil {
		return abort(kerr)
	}

	trampoline := NewPinnedArea(TrampolineVirtAddr, trampolineFrame, FlagRead|FlagExec)
	if kerr := ms.pushArea(trampoline, allocFn, nil); kerr != nil {
		return abort(kerr)
	}

	return ms, uintptr(f.Entry), userSP, nil
}

func userAreaFlags(progFlags elf.ProgFlag) PageTableEntryFlag {
	flags := FlagUser
	if progFlags&elf.PF_R != 0 {
		flags |= FlagRead
	}
	if progFlags&elf.PF_W != 0 {
		flags |= FlagWrite
	}
	if progFlags&elf.PF_X != 0 {
		flags |= FlagExec
	}
	return flags
}
