package vmm

import (
	"unsafe"

	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

var errAreaTooSmall = &kernel.Error{Module: "vmm", Message: "area too small for data"}

// AreaKind distinguishes the two ways a MapArea can back its virtual pages
// (spec.md §9 design notes).
type AreaKind uint8

const (
	// Identical maps each virtual page directly to the physical frame at
	// the same address. Used for the kernel's own identity-mapped RAM,
	// MMIO ranges and the trampoline page.
	Identical AreaKind = iota

	// Framed backs each virtual page with an independently allocated
	// physical frame. Used for every user-space segment and the kernel
	// stacks carved out for each task.
	Framed
)

// MapArea describes a contiguous range of virtual pages that share the same
// backing strategy and permissions within a MemorySet.
type MapArea struct {
	kind        AreaKind
	startPage   Page
	physBase    pmm.Frame // base frame for Identical areas; physBase+i is frame for page startPage+i
	pageCount   int
	flags       PageTableEntryFlag
	framesOwned []pmm.Frame // only populated for Framed areas
}

// NewIdentityArea describes an identity-mapped area covering
// [startAddr, startAddr+size), where virtual page N maps to physical frame N.
func NewIdentityArea(startAddr uintptr, size mem.Size, flags PageTableEntryFlag) MapArea {
	return MapArea{
		kind:      Identical,
		startPage: PageFromAddress(startAddr),
		physBase:  pmm.Frame(uint64(startAddr) >> mem.PageShift),
		pageCount: int(size.Pages()),
		flags:     flags,
	}
}

// NewPinnedArea describes a single physical frame pinned at an arbitrary
// virtual address, independent of the frame's own physical address. Used
// for the trampoline page, which must be mapped at the identical high
// virtual address in every memory set regardless of where it physically
// resides (spec.md §4.1 invariant).
func NewPinnedArea(virtAddr uintptr, frame pmm.Frame, flags PageTableEntryFlag) MapArea {
	return MapArea{
		kind:      Identical,
		startPage: PageFromAddress(virtAddr),
		physBase:  frame,
		pageCount: 1,
		flags:     flags,
	}
}

// NewFramedArea describes an area of [startAddr, startAddr+size) that will
// be backed by freshly allocated physical frames when Map is called.
func NewFramedArea(startAddr uintptr, size mem.Size, flags PageTableEntryFlag) MapArea {
	return MapArea{
		kind:      Framed,
		startPage: PageFromAddress(startAddr),
		pageCount: int(size.Pages()),
		flags:     flags,
	}
}

// OwnsFrame reports whether this area's backing store includes vpn. Only
// Framed areas own frames; Identical areas never do, since unmapping them
// must never free physical RAM shared with other address spaces.
func (a *MapArea) OwnsFrame(vpn Page) bool {
	if a.kind != Framed {
		return false
	}

	return vpn >= a.startPage && vpn < a.startPage+Page(a.pageCount)
}

// Map installs every page of this area into table, allocating backing
// frames for Framed areas via allocFn.
func (a *MapArea) Map(table PageTable, allocFn FrameAllocatorFn) *kernel.Error {
	for i := 0; i < a.pageCount; i++ {
		page := a.startPage + Page(i)

		var frame pmm.Frame
		switch a.kind {
		case Identical:
			frame = a.physBase + pmm.Frame(i)
		case Framed:
			var err *kernel.Error
			frame, err = allocFn()
			if err != nil {
				return err
			}
			a.framesOwned = append(a.framesOwned, frame)
		}

		if err := table.Map(page, frame, a.flags, allocFn); err != nil {
			return err
		}
	}

	return nil
}

// CopyData copies data into the area starting at its first page, page by
// page, through the mapped virtual addresses. Used to load ELF segment
// contents and to seed a task's initial user stack.
func (a *MapArea) CopyData(table PageTable, data []byte) *kernel.Error {
	written := 0
	for i := 0; i < a.pageCount && written < len(data); i++ {
		page := a.startPage + Page(i)
		dst := page.Address()

		n := int(mem.PageSize)
		if remaining := len(data) - written; remaining < n {
			n = remaining
		}

		copy((*[1 << 30]byte)(unsafe.Pointer(dst))[:n:n], data[written:written+n])
		written += n
	}

	if written < len(data) {
		return errAreaTooSmall
	}

	return nil
}

// Unmap removes every page of this area from table and releases any frames
// it owns back to the supplied free function.
func (a *MapArea) Unmap(table PageTable, freeFn func(pmm.Frame)) *kernel.Error {
	for i := 0; i < a.pageCount; i++ {
		if err := table.Unmap(a.startPage + Page(i)); err != nil {
			return err
		}
	}

	if a.kind == Framed {
		for _, f := range a.framesOwned {
			freeFn(f)
		}
		a.framesOwned = nil
	}

	return nil
}
