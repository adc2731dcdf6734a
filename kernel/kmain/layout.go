package kmain

import (
	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
)

// physRAMSize bounds how much physical RAM past the end of the kernel
// image the frame allocator may hand out. Real RAM discovery belongs to the
// platform's device-tree, which spec.md §6 does not list among this
// kernel's external interfaces; a fixed ceiling keeps the boot path
// self-contained until that collaborator exists.
const physRAMSize = 128 * mem.Mb

// Each of these resolves the address of one linker-provided symbol;
// implemented in linksyms_riscv64.s.
func textStart() uintptr
func textEnd() uintptr
func rodataStart() uintptr
func rodataEnd() uintptr
func dataStart() uintptr
func bssEnd() uintptr
func kernelEnd() uintptr
func trampolineStart() uintptr

// loadLayout reads the kernel's own link-time section boundaries and
// derives the physical RAM range and trampoline location Kmain needs
// (spec.md §6, "Link-time layout").
func loadLayout() Layout {
	ekernel := kernelEnd()

	return Layout{
		KernelLayout: vmm.KernelLayout{
			TextStart:          textStart(),
			TextEnd:            textEnd(),
			RodataStart:        rodataStart(),
			RodataEnd:          rodataEnd(),
			DataStart:          dataStart(),
			BssEnd:             bssEnd(),
			TrampolinePhysAddr: trampolineStart(),
		},
		RAMStart: ekernel,
		RAMEnd:   ekernel + uintptr(physRAMSize),
	}
}
