package main

import (
	_ "github.com/xiaomo-xty/xux-core/kernel/kmain"
)

// main exists only so this package satisfies the ordinary Go toolchain's
// requirement that package main define it. The kernel image's actual ELF
// entry point is _start (kernel/kmain/entry_riscv64.s), installed by the
// build's linker script via an ENTRY(_start) directive that overrides the
// Go linker's default runtime.rt0_go entry; main is never called. The
// blank import keeps kernel/kmain's Kmain and _start reachable from this
// package's dependency graph so the linker does not discard them.
func main() {}
