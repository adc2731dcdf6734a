// Package allocator implements the kernel's physical frame allocator
// (spec.md §3, "Physical page frame").
package allocator

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/kfmt/early"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

// maxRecycled bounds the number of freed-but-not-yet-reused frames the
// allocator can remember at once. It is sized generously for a
// single-hart, cooperative kernel with no demand paging: every framed area
// this kernel ever builds is torn down in one pass (task exit, spawn
// failure), so outstanding frees never come close to this bound.
const maxRecycled = 8192

var (
	// FrameAllocator is the kernel's single physical frame pool. It is
	// sourced from one contiguous region of RAM (spec.md §4.1, "simplified
	// to a single pool" per the address-space manager's design) rather
	// than the teacher's multi-region bitmap, since the platform this
	// kernel targets has one contiguous block of RAM reported by the boot
	// environment instead of a multiboot-style memory map.
	FrameAllocator StackAllocator

	errOutOfMemory = &kernel.Error{Module: "pmm_alloc", Message: "out of physical memory"}
)

// StackAllocator hands out frames from [start, end) in increasing order,
// preferring previously freed frames over never-touched ones so a tight
// alloc/free loop (fork/exec/exit) never grows past the pool ceiling.
//
// Recycled frames are tracked in a fixed-size array rather than a slice:
// this allocator is what ultimately backs the Go runtime's own heap
// (kernel/goruntime hooks sysAlloc into it), so it must not itself depend
// on a working heap.
type StackAllocator struct {
	start, end, current pmm.Frame

	recycled    [maxRecycled]pmm.Frame
	recycledLen int
}

// Init prepares the allocator to serve frames from the physical range
// [start, end), reserving nothing further: the caller is responsible for
// excluding the kernel image and any early-boot allocations before calling
// Init (see kmain's boot sequence).
func (a *StackAllocator) Init(start, end uintptr) {
	a.start = pmm.Frame(start >> mem.PageShift)
	a.end = pmm.Frame(end >> mem.PageShift)
	a.current = a.start
	a.recycledLen = 0

	early.Printf("[pmm_alloc] managing frames [%d, %d) (%d pages)\n", uint64(a.start), uint64(a.end), uint64(a.end-a.start))
}

// AllocFrame reserves and returns a single physical frame.
func (a *StackAllocator) AllocFrame() (pmm.Frame, *kernel.Error) {
	if a.recycledLen > 0 {
		a.recycledLen--
		return a.recycled[a.recycledLen], nil
	}

	if a.current >= a.end {
		return pmm.InvalidFrame, errOutOfMemory
	}

	f := a.current
	a.current++
	return f, nil
}

// FreeFrame returns frame to the pool so it can be reused by a subsequent
// AllocFrame call. Freeing more frames than maxRecycled leaks the excess
// rather than ever growing past the fixed backing array.
func (a *StackAllocator) FreeFrame(frame pmm.Frame) {
	if a.recycledLen >= len(a.recycled) {
		return
	}

	a.recycled[a.recycledLen] = frame
	a.recycledLen++
}

// AllocFrame is a package-level convenience that delegates to
// FrameAllocator, matching the function signature vmm.FrameAllocatorFn
// expects.
func AllocFrame() (pmm.Frame, *kernel.Error) {
	return FrameAllocator.AllocFrame()
}

// FreeFrame is the package-level counterpart to AllocFrame.
func FreeFrame(frame pmm.Frame) {
	FrameAllocator.FreeFrame(frame)
}

// Init sets up the kernel's physical memory allocation subsystem for the
// range [ramStart, ramEnd). It does not register the allocator with vmm;
// the boot sequence does that separately via vmm.SetFrameAllocator.
func Init(ramStart, ramEnd uintptr) {
	FrameAllocator.Init(ramStart, ramEnd)
}
