package vmm

import (
	"unsafe"

	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

var (
	// ptePtrFn returns a pointer to the supplied entry address. It is
	// overridden by tests so walk() can be exercised without a real
	// identity-mapped physical address space. When compiling the kernel
	// this function is automatically inlined.
	ptePtrFn = func(entryAddr uintptr) unsafe.Pointer {
		return unsafe.Pointer(entryAddr)
	}
)

// pageTableWalker is called by walk with the page table entry that
// corresponds to each page table level, outermost first. If it returns
// false the walk is aborted.
type pageTableWalker func(pteLevel uint8, pte *pageTableEntry) bool

// walk performs a page table walk for virtAddr starting at root. Unlike the
// x86 recursive self-mapping trick, the walk dereferences each table's
// physical address directly: the kernel's own address space identity-maps
// all of physical RAM (spec.md §5), so a table's physical frame address is
// also a valid kernel virtual address.
func walk(root pmm.Frame, virtAddr uintptr, walkFn pageTableWalker) {
	var (
		level     uint8
		tableAddr = root.Address()
		entryAddr uintptr
		entryIdx  uintptr
	)

	for level = 0; level < pageLevels; level++ {
		entryIdx = (virtAddr >> pageLevelShifts[level]) & ((1 << pageLevelBits[level]) - 1)
		entryAddr = tableAddr + (entryIdx << 3)

		pte := (*pageTableEntry)(ptePtrFn(entryAddr))
		if !walkFn(level, pte) {
			return
		}

		if level+1 < pageLevels {
			tableAddr = pte.Frame().Address()
		}
	}
}
