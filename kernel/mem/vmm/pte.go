package vmm

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

// ErrInvalidMapping is returned when trying to look up a virtual memory
// address that is not yet mapped.
var ErrInvalidMapping = &kernel.Error{Module: "vmm", Message: "virtual address does not point to a mapped physical page"}

// PageTableEntryFlag describes one of the flag bits of a RISC-V page table
// entry (RISC-V privileged spec §4.3/§4.4).
type PageTableEntryFlag uint64

// Page table entry flag bits, in the order they appear in a Sv39/Sv48 PTE.
const (
	FlagPresent  PageTableEntryFlag = 1 << iota // V: entry is valid
	FlagRead                                    // R: page is readable
	FlagWrite                                   // W: page is writable
	FlagExec                                    // X: page is executable
	FlagUser                                    // U: page is accessible from U-mode
	FlagGlobal                                  // G: mapping is present in all address spaces
	FlagAccessed                                // A: page has been read, written or fetched from
	FlagDirty                                   // D: page has been written to
)

const (
	// pteFlagsMask covers the 8 flag bits (bits 0-7) of a PTE.
	pteFlagsMask = 0xFF

	// ptePPNShift is the bit offset of the PPN field within a PTE.
	ptePPNShift = 10
)

// pageTableEntry is a single RISC-V Sv39/Sv48 page table entry.
type pageTableEntry uint64

// HasFlags returns true if this entry has all the input flags set.
func (pte pageTableEntry) HasFlags(flags PageTableEntryFlag) bool {
	return (uint64(pte) & uint64(flags)) == uint64(flags)
}

// HasAnyFlag returns true if this entry has at least one of the input flags set.
func (pte pageTableEntry) HasAnyFlag(flags PageTableEntryFlag) bool {
	return (uint64(pte) & uint64(flags)) != 0
}

// SetFlags sets the input list of flags on the page table entry.
func (pte *pageTableEntry) SetFlags(flags PageTableEntryFlag) {
	*pte = pageTableEntry(uint64(*pte) | uint64(flags))
}

// ClearFlags unsets the input list of flags from the page table entry.
func (pte *pageTableEntry) ClearFlags(flags PageTableEntryFlag) {
	*pte = pageTableEntry(uint64(*pte) &^ uint64(flags))
}

// Frame returns the physical page frame that this page table entry points to.
func (pte pageTableEntry) Frame() pmm.Frame {
	return pmm.Frame(uint64(pte) >> ptePPNShift)
}

// SetFrame updates the page table entry to point at the given physical
// frame, leaving its flag bits untouched.
func (pte *pageTableEntry) SetFrame(frame pmm.Frame) {
	*pte = pageTableEntry((uint64(*pte) & pteFlagsMask) | (uint64(frame) << ptePPNShift))
}

// pteForAddress returns the final-level page table entry that corresponds
// to virtAddr within the supplied root table, or ErrInvalidMapping if any
// level of the walk is not present.
func pteForAddress(root pmm.Frame, virtAddr uintptr) (*pageTableEntry, *kernel.Error) {
	var (
		err   *kernel.Error
		entry *pageTableEntry
	)

	walk(root, virtAddr, func(pteLevel uint8, pte *pageTableEntry) bool {
		if !pte.HasFlags(FlagPresent) {
			entry = nil
			err = ErrInvalidMapping
			return false
		}

		entry = pte
		return true
	})

	return entry, err
}
