package task

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
)

// KernelStackSize is the size of each task's private kernel stack.
const KernelStackSize = 2 * mem.PageSize

// kernelStackGuard separates adjacent tasks' kernel stacks so one task
// overrunning its stack faults instead of corrupting its neighbor's.
const kernelStackGuard = mem.PageSize

// kernelStack identifies one task's slot within the kernel memory set's
// per-task kernel-stack region (spec.md §3, "Kernel memory set").
type kernelStack struct {
	top uintptr
}

// kernelStackSlot computes the virtual address range for task index id,
// counting down from just below the trampoline/trap-context pair so every
// slot sits in the high, non-identity-mapped half of the kernel address
// space regardless of how much physical RAM is installed.
func kernelStackSlot(id int) (low, high uintptr) {
	stride := uintptr(KernelStackSize) + uintptr(kernelStackGuard)
	high = vmm.TrapContextVirtAddr - uintptr(id)*stride
	low = high - uintptr(KernelStackSize)
	return low, high
}

// newKernelStack maps task id's kernel-stack slot into the kernel memory
// set as an R|W framed area and returns a handle holding its top address
// (the initial stack pointer for Context.SP).
func newKernelStack(id int, allocFn vmm.FrameAllocatorFn) (kernelStack, *kernel.Error) {
	low, high := kernelStackSlot(id)

	area := vmm.NewFramedArea(low, mem.Size(high-low), vmm.FlagRead|vmm.FlagWrite)
	if err := vmm.KernelSpace.PushArea(area, allocFn, nil); err != nil {
		return kernelStack{}, err
	}

	return kernelStack{top: high}, nil
}
