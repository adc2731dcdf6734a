package vmm

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/cpu"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

var (
	// flushTLBFn is overridden by tests; automatically inlined by the
	// compiler when building the kernel.
	flushTLBFn = cpu.SfenceVMA

	// writeSatpFn and readSatpFn are overridden by tests.
	writeSatpFn = cpu.WriteSatp
	readSatpFn  = cpu.ReadSatp
)

// FrameAllocatorFn is a function that can allocate a physical frame.
type FrameAllocatorFn func() (pmm.Frame, *kernel.Error)

// PageTable is the root of a Sv39/Sv48 page table radix tree for a single
// address space (spec.md §5, Address-Space Manager).
type PageTable struct {
	root pmm.Frame
}

// NewPageTable allocates and zeroes a fresh, empty root table.
func NewPageTable(allocFn FrameAllocatorFn) (PageTable, *kernel.Error) {
	root, err := allocFn()
	if err != nil {
		return PageTable{}, err
	}

	mem.Memset(root.Address(), 0, mem.PageSize)
	return PageTable{root: root}, nil
}

// Map establishes a mapping between a virtual page and a physical frame,
// allocating any missing intermediate tables via allocFn.
func (t PageTable) Map(page Page, frame pmm.Frame, flags PageTableEntryFlag, allocFn FrameAllocatorFn) *kernel.Error {
	var err *kernel.Error

	walk(t.root, page.Address(), func(pteLevel uint8, pte *pageTableEntry) bool {
		if pteLevel == pageLevels-1 {
			*pte = 0
			pte.SetFrame(frame)
			pte.SetFlags(FlagPresent | flags)
			flushTLBFn()
			return true
		}

		if !pte.HasFlags(FlagPresent) {
			var next pmm.Frame
			next, err = allocFn()
			if err != nil {
				return false
			}

			mem.Memset(next.Address(), 0, mem.PageSize)

			*pte = 0
			pte.SetFrame(next)
			pte.SetFlags(FlagPresent)
		}

		return true
	})

	return err
}

// Unmap removes a mapping previously installed by Map.
func (t PageTable) Unmap(page Page) *kernel.Error {
	var err *kernel.Error

	walk(t.root, page.Address(), func(pteLevel uint8, pte *pageTableEntry) bool {
		if pteLevel == pageLevels-1 {
			pte.ClearFlags(FlagPresent)
			flushTLBFn()
			return true
		}

		if !pte.HasFlags(FlagPresent) {
			err = ErrInvalidMapping
			return false
		}

		return true
	})

	return err
}

// Translate returns the physical address that corresponds to virtAddr, or
// ErrInvalidMapping if it is not currently mapped.
func (t PageTable) Translate(virtAddr uintptr) (uintptr, *kernel.Error) {
	pte, err := pteForAddress(t.root, virtAddr)
	if err != nil {
		return 0, err
	}

	pageOffsetMask := uintptr(1)<<pageLevelShifts[pageLevels-1] - 1
	return pte.Frame().Address() + (virtAddr & pageOffsetMask), nil
}

// Token encodes this table's root frame and the translation mode as a satp
// CSR value (RISC-V privileged spec §4.1.12).
func (t PageTable) Token() uintptr {
	return (satpMode << 60) | uintptr(t.root)
}

// Activate installs this table as the hart's active address space and
// flushes stale TLB entries.
func (t PageTable) Activate() {
	writeSatpFn(t.Token())
	flushTLBFn()
}

// ActiveToken returns the satp value currently loaded on the hart.
func ActiveToken() uintptr {
	return readSatpFn()
}
