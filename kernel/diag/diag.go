// Package diag turns a fatal user-mode trap into a human-readable report:
// the scause/stval pair, the faulting sepc, and a disassembly of the
// offending instruction, logged before the kernel terminates the task
// (spec.md §7). The rest of the register file is not printed.
package diag

import (
	"unsafe"

	"golang.org/x/arch/riscv64/riscv64asm"

	"github.com/xiaomo-xty/xux-core/kernel/kfmt/early"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
	"github.com/xiaomo-xty/xux-core/kernel/trampoline"
)

// ReportUserFault logs a terminated task's fault in the style this
// kernel's panic path already uses for kernel faults: cause, faulting
// address, and (when the instruction bytes are reachable) its
// disassembly.
func ReportUserFault(taskName string, ms *vmm.MemorySet, ctx *trampoline.TrapContext, scause, stval uint64) {
	early.Printf("fault: task %s scause=0x%x stval=0x%x sepc=0x%x\n", taskName, scause, stval, ctx.Sepc)

	text, err := disassembleAt(ms, uintptr(ctx.Sepc))
	if err != nil {
		early.Printf("fault: could not disassemble faulting instruction: %s\n", err.Error())
		return
	}
	early.Printf("fault: %s\n", text)
}

// disassembleAt reads the 4 bytes at vaddr through ms's page table and
// decodes them as a single riscv64 instruction. Only the 32-bit
// non-compressed encoding is attempted; a 16-bit compressed instruction at
// this address decodes as garbage, which is acceptable for a best-effort
// diagnostic.
func disassembleAt(ms *vmm.MemorySet, vaddr uintptr) (string, error) {
	phys, kerr := ms.Translate(vaddr)
	if kerr != nil {
		return "", kerr
	}

	raw := (*[4]byte)(unsafe.Pointer(phys))
	inst, err := riscv64asm.Decode(raw[:])
	if err != nil {
		return "", err
	}

	return inst.String(), nil
}
