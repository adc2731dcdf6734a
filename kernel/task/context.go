// Package task represents each application instance as a schedulable unit
// and performs the voluntary kernel-to-kernel register-file swap between two
// tasks' kernel stacks (spec.md §4.3).
package task

// Context is the fixed-layout callee-saved register subset swapped by
// Switch (spec.md §3, "Task context"). It lives at the bottom of each
// task's kernel stack.
//
// Field order is load-bearing: switch_riscv64.s addresses every field by
// its byte offset from the start of the struct. Changing this layout
// requires updating the offsets there to match.
type Context struct {
	RA uint64
	SP uint64
	S  [12]uint64
}

// NewContext builds the context a freshly spawned task's first dispatch
// resumes from: RA points at goEntry (the Go-side trampoline-return helper
// in switch.go), SP is the top of the task's own kernel stack, and every
// callee-saved register starts at zero (spec.md §4.3, "Task-context
// layout").
func NewContext(kernelSP uintptr) Context {
	return Context{
		RA: uint64(goEntryAddr()),
		SP: uint64(kernelSP),
	}
}
