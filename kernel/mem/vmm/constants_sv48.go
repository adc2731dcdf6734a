// +build sv48

package vmm

// pageLevels is the number of levels in the Sv48 page table radix tree.
const pageLevels = 4

// pageLevelBits holds the number of VPN bits consumed at each level,
// outermost level first.
var pageLevelBits = [pageLevels]uint8{9, 9, 9, 9}

// pageLevelShifts holds the bit offset of the VPN field for each level.
var pageLevelShifts = [pageLevels]uint8{39, 30, 21, 12}

// satpModeSv48 is the value of the satp.MODE field that selects Sv48
// translation (RISC-V privileged spec table 4.3).
const satpModeSv48 uintptr = 9

const satpMode = satpModeSv48
