// Package kmain is the kernel's language-level entry point: the point
// where control passes from the riscv64 boot assembly (entry_riscv64.s)
// into Go, and where every subsystem is brought up in dependency order
// (spec.md §6, "Boot entry").
package kmain

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/kfmt/early"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm/allocator"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
	"github.com/xiaomo-xty/xux-core/kernel/sched"
	"github.com/xiaomo-xty/xux-core/kernel/task"
)

var errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}

// Layout carries the link-time section boundaries and early-boot physical
// RAM range that loadLayout reads from the linker-provided symbols
// (spec.md §6, "Link-time layout") when Kmain starts. It exists separately
// from vmm.KernelLayout so this package can add the RAM range vmm doesn't
// itself need to know the source of.
type Layout struct {
	vmm.KernelLayout

	// RAMStart and RAMEnd bound the physical RAM the frame allocator may
	// hand out. RAMStart is expected to sit at or after Layout.BssEnd so
	// the allocator never hands out a frame the kernel image itself
	// occupies.
	RAMStart, RAMEnd uintptr
}

// Kmain is the only Go symbol the boot assembly calls. It is invoked once,
// on the single supported hart, with sp already pointed at the top of the
// reserved boot stack (spec.md §6). Kmain is not expected to return; if
// every subsystem comes up cleanly it hands off to sched.Run, which itself
// only returns by requesting a firmware shutdown.
//
//go:noinline
func Kmain() {
	early.Printf("booting\n")

	layout := loadLayout()

	allocator.Init(layout.RAMStart, layout.RAMEnd)
	vmm.SetFrameAllocator(allocator.AllocFrame)
	vmm.SetKernelRangeEnd(layout.RAMEnd)

	if err := vmm.Init(layout.KernelLayout); err != nil {
		kernel.Panic(err)
	}

	if err := task.Init(allocator.AllocFrame, allocator.FreeFrame); err != nil {
		kernel.Panic(err)
	}

	sched.Init()
	sched.Run()

	// sched.Run never returns in practice (it shuts the machine down via
	// SBI once every task has exited); reaching here is a kernel bug.
	kernel.Panic(errKmainReturned)
}
