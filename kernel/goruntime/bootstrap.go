// Package goruntime bootstraps the Go runtime's own low-level memory hooks
// so its allocator can grow a heap with no host OS underneath it. It is
// ambient infrastructure the kernel needs regardless of spec.md's scope:
// the runtime executing the rest of this kernel still needs somewhere to
// allocate from.
//
// The three //go:redirect-from pragmas below are inputs to
// tools/redirects: after the kernel image is linked, that tool locates each
// pragma's source/destination symbol pair in the built ELF and patches the
// image's .goredirectstbl section so the runtime's own loader can apply the
// redirects at boot. `go generate` runs it in counting mode to confirm the
// pragmas it will need to resolve once an image exists to patch.
//
//go:generate sh -c "cd ../.. && go run ./tools/redirects count"
package goruntime

import (
	"unsafe"

	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
)

// heapArenaBase is the fixed virtual address the Go runtime's heap grows
// from. It sits well clear of every other fixed region this kernel uses
// (the identity-mapped RAM range below kernelRangeEnd, the per-task kernel
// stacks counting down from vmm.TrapContextVirtAddr, and the trampoline
// page itself), so sysReserve never has to negotiate with them.
const heapArenaBase = uintptr(0x2000000000)

// heapArenaLimit bounds how far the runtime's heap may grow. Chosen
// generously for a single-hart teaching kernel; reaching it panics, the
// same failure mode as real physical-memory exhaustion (spec.md §7,
// "Resource exhaustion").
const heapArenaLimit = heapArenaBase + uintptr(256*mem.Mb)

var errHeapArenaExhausted = &kernel.Error{Module: "goruntime", Message: "Go runtime heap arena exhausted"}

// heapArenaNext is the next unreserved address in the arena. sysReserve
// only ever grows it; nothing in this kernel ever returns runtime heap
// back to the frame allocator.
var heapArenaNext = heapArenaBase

//go:linkname mSysStatInc runtime.mSysStatInc
func mSysStatInc(*uint64, uintptr)

// sysReserve reserves address space without allocating any memory or
// establishing any page mappings.
//
// This function replaces runtime.sysReserve and is required for
// initializing the Go allocator.
//
//go:redirect-from runtime.sysReserve
//go:nosplit
func sysReserve(_ unsafe.Pointer, size uintptr, reserved *bool) unsafe.Pointer {
	regionSize := pageRound(size)

	if heapArenaNext+regionSize > heapArenaLimit {
		panic(errHeapArenaExhausted)
	}

	regionStart := heapArenaNext
	heapArenaNext += regionSize

	*reserved = true
	return unsafe.Pointer(regionStart)
}

// sysMap establishes a page mapping for a region previously reserved via
// sysReserve, backed by real physical frames mapped eagerly: unlike the
// teacher's copy-on-write zero-page trick, this kernel has no demand-paging
// path to service a later write fault against a shared page, so every page
// sysMap touches is allocated and mapped up front.
//
// This function replaces runtime.sysMap and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysMap
//go:nosplit
func sysMap(virtAddr unsafe.Pointer, size uintptr, reserved bool, sysStat *uint64) unsafe.Pointer {
	if !reserved {
		panic("sysMap should only be called with reserved=true")
	}

	regionStart := pageRound(uintptr(virtAddr))
	regionSize := pageRound(size)

	if err := mapRegion(regionStart, regionSize); err != nil {
		return unsafe.Pointer(uintptr(0))
	}

	mSysStatInc(sysStat, uintptr(regionSize))
	return unsafe.Pointer(regionStart)
}

// sysAlloc reserves and maps a fresh region in one step: the path the Go
// allocator takes the very first time it needs memory, before any
// sysReserve call has carved out space for it.
//
// This function replaces runtime.sysAlloc and is required for initializing
// the Go allocator.
//
//go:redirect-from runtime.sysAlloc
//go:nosplit
func sysAlloc(size uintptr, sysStat *uint64) unsafe.Pointer {
	var reserved bool
	ptr := sysReserve(nil, size, &reserved)
	if ptr == nil {
		return unsafe.Pointer(uintptr(0))
	}

	return sysMap(ptr, size, reserved, sysStat)
}

// mapRegion allocates and maps one physical frame per page in
// [regionStart, regionStart+regionSize), pushing the freshly built area
// into the kernel memory set so it tears down the same way every other
// kernel-owned region does.
func mapRegion(regionStart, regionSize uintptr) *kernel.Error {
	area := vmm.NewFramedArea(regionStart, mem.Size(regionSize), vmm.FlagRead|vmm.FlagWrite)
	return vmm.KernelSpace.PushArea(area, vmm.AllocFrame, nil)
}

func pageRound(size uintptr) uintptr {
	return (size + uintptr(mem.PageSize) - 1) &^ (uintptr(mem.PageSize) - 1)
}

func init() {
	// Dummy calls so the compiler does not eliminate these functions: the
	// real call sites are wired in by the runtime itself via go:linkname,
	// invisible to the compiler's own reachability analysis.
	var (
		reserved bool
		stat     uint64
	)

	sysReserve(nil, 0, &reserved)
	sysMap(nil, 0, reserved, &stat)
	sysAlloc(0, &stat)
}
