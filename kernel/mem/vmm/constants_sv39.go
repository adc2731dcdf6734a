// +build !sv48

// Package vmm implements the Sv39 variant of the RISC-V paging scheme by
// default. Building with the sv48 tag switches every file in this package
// that carries a matching build constraint to the four-level Sv48 layout
// instead; the two constant sets are mutually exclusive (spec.md §9, Open
// Question: page table depth).
package vmm

// pageLevels is the number of levels in the Sv39 page table radix tree.
const pageLevels = 3

// pageLevelBits holds the number of VPN bits consumed at each level,
// outermost level first.
var pageLevelBits = [pageLevels]uint8{9, 9, 9}

// pageLevelShifts holds the bit offset of the VPN field for each level.
var pageLevelShifts = [pageLevels]uint8{30, 21, 12}

// satpModeSv39 is the value of the satp.MODE field that selects Sv39
// translation (RISC-V privileged spec table 4.3).
const satpModeSv39 uintptr = 8

const satpMode = satpModeSv39
