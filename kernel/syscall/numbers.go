// Package syscall implements the kernel-side half of the user/kernel ABI
// (spec.md §6): decoding a trap context's ecall arguments, dispatching to
// the matching handler, and writing the result back where the caller reads
// its return value.
package syscall

// Syscall numbers, matching the Linux riscv64 ABI the spec borrows so user
// programs built against ordinary libc calling conventions need no
// translation layer (spec.md §6, "Syscall table").
const (
	SysGetCwd  = 17
	SysClose   = 57
	SysOpen    = 56
	SysRead    = 63
	SysWrite   = 64
	SysExit    = 93
	SysYield   = 124
	SysGetTime = 169
	SysGetPID  = 172
	SysFork    = 220
	SysExec    = 221
	SysWaitPID = 260
)
