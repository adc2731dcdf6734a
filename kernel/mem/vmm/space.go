package vmm

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

// ErrBadELF is returned by NewUserFromELF when the supplied image is not a
// well-formed 64-bit little-endian RISC-V ELF executable.
var ErrBadELF = &kernel.Error{Module: "vmm", Message: "malformed or unsupported ELF image"}

// TrampolineVirtAddr is the virtual address at which the trampoline page is
// mapped in every address space (spec.md §4.1 invariant). It is pinned to
// the top page below the Sv39 canonical boundary so the same constant is
// also valid, unchanged, under Sv48.
const TrampolineVirtAddr = uintptr(0x3ffffff000)

// TrapContextVirtAddr is the virtual address of a task's trap-context page,
// one page below the trampoline, present only in user memory sets.
const TrapContextVirtAddr = TrampolineVirtAddr - uintptr(mem.PageSize)

// UserStackSize is the size reserved for each task's user-mode stack.
const UserStackSize = 8 * mem.Kb

// GuardPageSize separates the top of a task's loaded segments from its
// stack so a stack/heap overrun faults instead of silently corrupting data.
const GuardPageSize = mem.PageSize

// MemorySet is one address space: an ordered collection of map areas plus
// the page table that backs them (spec.md §3, "Memory set").
type MemorySet struct {
	table PageTable
	areas []MapArea
}

// Token returns the satp value that activates this address space.
func (ms *MemorySet) Token() uintptr { return ms.table.Token() }

// Activate installs this address space on the hart.
func (ms *MemorySet) Activate() { ms.table.Activate() }

// Translate resolves a virtual address to its physical counterpart.
func (ms *MemorySet) Translate(virtAddr uintptr) (uintptr, *kernel.Error) {
	return ms.table.Translate(virtAddr)
}

// PushArea maps area into this memory set and records it for later
// teardown. Used after construction to extend the kernel memory set with
// per-task kernel stacks (spec.md §3, "Kernel memory set"), which are not
// known until the task manifest is loaded.
func (ms *MemorySet) PushArea(area MapArea, allocFn FrameAllocatorFn, data []byte) *kernel.Error {
	return ms.pushArea(area, allocFn, data)
}

func (ms *MemorySet) pushArea(area MapArea, allocFn FrameAllocatorFn, data []byte) *kernel.Error {
	if err := area.Map(ms.table, allocFn); err != nil {
		return err
	}

	if data != nil {
		if err := area.CopyData(ms.table, data); err != nil {
			return err
		}
	}

	ms.areas = append(ms.areas, area)
	return nil
}

// Teardown unmaps every area of this memory set and releases every framed
// frame those areas own. Identity areas are unmapped but free no frames,
// since they never own the physical RAM they describe (spec.md §5,
// resource acquisition).
func (ms *MemorySet) Teardown(freeFn func(pmm.Frame)) {
	for i := range ms.areas {
		ms.areas[i].Unmap(ms.table, freeFn)
	}
	ms.areas = nil
}

// kernelRangeEnd is the build-time ceiling up to which all physical RAM is
// identity mapped into the kernel memory set (spec.md §4.1: "all remaining
// physical RAM up to a build-time ceiling").
var kernelRangeEnd uintptr

// SetKernelRangeEnd configures the ceiling used by NewKernelSpace. It must
// be called once, early in boot, before NewKernelSpace.
func SetKernelRangeEnd(end uintptr) { kernelRangeEnd = end }

// NewKernelSpace builds the single process-wide kernel address space:
// identity maps for .text/.rodata/.data+.bss, all remaining physical RAM up
// to the configured ceiling, and the trampoline page (spec.md §4.1
// new_kernel()).
func NewKernelSpace(layout KernelLayout, allocFn FrameAllocatorFn) (*MemorySet, *kernel.Error) {
	table, err := NewPageTable(allocFn)
	if err != nil {
		return nil, err
	}

	ms := &MemorySet{table: table}

	sections := []struct {
		start, end uintptr
		flags      PageTableEntryFlag
	}{
		{layout.TextStart, layout.TextEnd, FlagRead | FlagExec},
		{layout.RodataStart, layout.RodataEnd, FlagRead},
		{layout.DataStart, layout.BssEnd, FlagRead | FlagWrite},
		{layout.BssEnd, kernelRangeEnd, FlagRead | FlagWrite},
	}

	for _, s := range sections {
		if s.end <= s.start {
			continue
		}
		area := NewIdentityArea(s.start, mem.Size(s.end-s.start), s.flags)
		if err := ms.pushArea(area, allocFn, nil); err != nil {
			return nil, err
		}
	}

	trampolineFrame = pmm.Frame(uint64(layout.TrampolinePhysAddr) >> mem.PageShift)
	trampoline := NewPinnedArea(TrampolineVirtAddr, trampolineFrame, FlagRead|FlagExec)
	if err := ms.pushArea(trampoline, allocFn, nil); err != nil {
		return nil, err
	}

	return ms, nil
}

// trampolineFrame is the physical frame holding the trampoline code,
// recorded by NewKernelSpace and reused by NewUserFromELF so every user
// memory set maps the identical frame at TrampolineVirtAddr.
var trampolineFrame pmm.Frame

// KernelLayout carries the link-time section boundaries the kernel memory
// set needs (spec.md §6, "link-time layout"). Populated by the boot entry
// from the linker-provided symbols.
type KernelLayout struct {
	TextStart, TextEnd     uintptr
	RodataStart, RodataEnd uintptr
	DataStart              uintptr
	BssEnd                 uintptr
	TrampolinePhysAddr     uintptr
}
