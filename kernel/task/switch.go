package task

import "github.com/xiaomo-xty/xux-core/kernel/trampoline"

// Switch saves the callee-saved register subset into *current, loads the
// same fields from *next, and returns into whatever the caller was doing
// when *next was last switched away from (spec.md §4.3, switch()). Its
// implementation lives in switch_riscv64.s; this operation cannot fail.
//
// Switch never returns to Go code a second time while a task keeps running:
// the calling goroutine (the scheduler's run loop) only continues once some
// other call to Switch brings control back to it.
func Switch(current, next *Context)

// goEntryAddr resolves the kernel virtual address of goEntry. Implemented
// in switch_riscv64.s alongside Switch, using the same linker-symbol trick
// as trampoline.dispatchAddr so Context.RA can be seeded without going
// through reflection.
func goEntryAddr() uintptr

// goEntry is where control lands the first time a freshly spawned task is
// switched onto: NewContext seeds Context.RA with its address instead of a
// real suspended call site, since the task has never run before (spec.md
// §4.3, "Freshly constructed so that ra points at the return-to-user
// trampoline helper"). It looks up the task that was just marked Running
// and jumps into user mode through the trampoline's return path.
func goEntry() {
	t := CurrentTask()
	trampoline.TrapReturn(t.TrapContextAddr, t.MemSet.Token())
}
