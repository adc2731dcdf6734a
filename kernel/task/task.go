package task

import (
	"unsafe"

	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
	"github.com/xiaomo-xty/xux-core/kernel/trampoline"
)

// Status is one of the three states a Task's lifecycle passes through
// (spec.md §3, "Task").
type Status uint8

const (
	// Ready means the task is eligible for dispatch.
	Ready Status = iota
	// Running means the task currently owns the hart.
	Running
	// Exited means the task has terminated; it is never dispatched
	// again. Its memory set and kernel stack are not released.
	Exited
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// Task is the runtime representation of one application instance (spec.md
// §3, "Task"). Lifecycle: created by spawn from an ELF image, enters Ready,
// transitions to Running on dispatch, back to Ready on voluntary yield, to
// Exited on exit or a fatal fault.
type Task struct {
	Status Status

	// MemSet is this task's owned address space.
	MemSet *vmm.MemorySet

	// TrapContextAddr is the user virtual address of this task's
	// trap-context page, used as the first argument to
	// trampoline.TrapReturn.
	TrapContextAddr uintptr

	// trapContextPhys is the kernel-reachable physical address of the
	// same page, so the kernel can read/write it without activating the
	// task's own page table (spec.md §9, "Cyclic ownership in task
	// state").
	trapContextPhys uintptr

	// kernelStack is this task's private kernel stack, carved out of the
	// kernel memory set (see kernelstack.go).
	kernelStack kernelStack

	// Context is the callee-saved register set Switch reads from and
	// writes into; it lives logically at the bottom of the task's kernel
	// stack (spec.md §3, "Task context").
	Context Context

	// ExitCode is only meaningful once Status == Exited.
	ExitCode int32
}

// TrapContext returns a pointer to this task's trap context through the
// kernel's own identity map, valid regardless of which address space is
// currently active.
func (t *Task) TrapContext() *trampoline.TrapContext {
	return (*trampoline.TrapContext)(unsafe.Pointer(t.trapContextPhys))
}
