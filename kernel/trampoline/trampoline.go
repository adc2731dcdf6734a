// Package trampoline implements the single code page that is mapped at the
// identical virtual address in every address space so the program counter
// stays valid across the address-space switch a trap performs (spec.md
// §4.2).
package trampoline

// TrapEntry is the trampoline's entry path (__alltraps). It is never called
// using the Go calling convention: stvec is pointed directly at its address,
// and the hart jumps to it on every trap taken from user mode. Its
// implementation lives in trampoline_riscv64.s and follows spec.md §4.2's
// entry-path steps exactly.
func TrapEntry()

// TrapReturn is the trampoline's return path (__restore). The kernel calls
// it (from the scheduler's resume hook and from a new task's first
// dispatch) once it has decided to resume a task; it never returns to its
// caller, since sret leaves supervisor mode. trapCtxAddr is the user virtual
// address of the trap-context page for the task being resumed; userToken is
// that task's address-space token.
func TrapReturn(trapCtxAddr, userToken uintptr)

// This package does not resolve the trampoline page's own address. The boot
// entry reads the linker-provided start of the trampoline's dedicated
// 4 KiB-aligned section (spec.md §6, `strampoline`) through
// kmain.trampolineStart, alongside the other section bounds, and passes the
// resulting physical address into vmm.KernelLayout.
