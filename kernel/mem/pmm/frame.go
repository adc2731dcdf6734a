// Package pmm contains code that manages physical memory frame allocations.
package pmm

import (
	"math"

	"github.com/xiaomo-xty/xux-core/kernel/mem"
)

// Frame describes a physical memory page index.
type Frame uint64

const (
	// InvalidFrame is returned by page allocators when
	// they fail to reserve the requested frame.
	InvalidFrame = Frame(math.MaxUint64)
)

// Valid returns true if this is a valid frame.
func (f Frame) Valid() bool {
	return f != InvalidFrame
}

// Address returns a pointer to the physical memory address pointed to by this Frame.
func (f Frame) Address() uintptr {
	return uintptr(f << mem.PageShift)
}

// Size returns the size of this frame. The allocator only ever hands out
// single, PageSize-sized frames (spec.md's address-space manager has no
// buddy/order concept).
func (f Frame) Size() mem.Size {
	return mem.PageSize
}
