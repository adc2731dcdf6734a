// Package vmm implements the kernel's address-space manager: page table
// construction, mutation and activation, kernel/user memory set
// construction, and the translation primitives the rest of the kernel
// needs to reach across a privilege boundary (spec.md §4.1).
package vmm

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

var (
	// frameAllocator is registered via SetFrameAllocator and used whenever
	// the vmm package itself needs to allocate a physical frame (e.g. for
	// a newly discovered page table level).
	frameAllocator FrameAllocatorFn

	// KernelSpace is the single process-wide kernel address space built
	// by Init. It is activated once at boot and remains active whenever
	// the hart is not running on behalf of a user task's own page table.
	KernelSpace *MemorySet
)

// SetFrameAllocator registers the allocator function that vmm uses to
// obtain new physical frames.
func SetFrameAllocator(allocFn FrameAllocatorFn) {
	frameAllocator = allocFn
}

// AllocFrame proxies to the registered frame allocator. Exposed so other
// mem subpackages (e.g. the task package, carving out kernel stacks) can
// share the same physical pool without importing pmm's allocator package
// directly.
func AllocFrame() (pmm.Frame, *kernel.Error) {
	return frameAllocator()
}

// Init builds and activates the kernel address space (spec.md §4.1
// new_kernel() followed by activate()). It must run once, early in boot,
// after SetFrameAllocator and SetKernelRangeEnd.
func Init(layout KernelLayout) *kernel.Error {
	ms, err := NewKernelSpace(layout, frameAllocator)
	if err != nil {
		return err
	}

	KernelSpace = ms
	KernelSpace.Activate()
	return nil
}
