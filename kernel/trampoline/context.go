// Package trampoline implements the single code page that is mapped at the
// identical virtual address in every address space so the program counter
// stays valid across the address-space switch a trap performs (spec.md
// §4.2).
package trampoline

// TrapContext is the fixed-layout snapshot of a task's user-visible
// register file plus the handoff fields the trampoline's entry path needs
// to dispatch into the kernel trap handler (spec.md §4.2 steps 1-7).
//
// Field order and size are load-bearing: TrapEntry and TrapReturn address
// every field by its byte offset from the start of the struct, not by
// Go's struct-tag reflection. Changing this layout requires updating the
// offsets in trampoline_riscv64.s to match.
type TrapContext struct {
	// X holds general-purpose registers x0-x31 as RISC-V numbers them.
	// X[0] (the hard-wired zero register) and X[2] (sp) are never
	// meaningfully read back by TrapReturn on their own account: sp is
	// restored from this same slot, and x0 is never saved or restored
	// since it is always zero.
	X [32]uint64

	Sstatus uint64
	Sepc    uint64

	// KernelSatp is the token written to satp before the trap handler
	// runs, so the handler executes against the kernel's own address
	// space instead of the faulting task's.
	KernelSatp uint64

	// KernelSP is the top of this task's kernel stack; TrapEntry loads
	// it into sp immediately before jumping to TrapHandler.
	KernelSP uint64

	// TrapHandler is the kernel virtual address of Dispatch (handler.go).
	// TrapEntry calls it directly with the trap-context address as its
	// sole argument, following the riscv64 Go ABI's first-argument
	// register convention.
	TrapHandler uint64
}

const (
	// Byte offsets of TrapContext's trailing handoff fields, mirrored in
	// trampoline_riscv64.s. 32 general registers * 8 bytes precede them.
	trapCtxXBytes          = 32 * 8
	trapCtxSstatusOffset   = trapCtxXBytes
	trapCtxSepcOffset      = trapCtxSstatusOffset + 8
	trapCtxKernelSatpOffset = trapCtxSepcOffset + 8
	trapCtxKernelSPOffset   = trapCtxKernelSatpOffset + 8
	trapCtxTrapHandlerOffset = trapCtxKernelSPOffset + 8
)
