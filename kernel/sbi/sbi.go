// Package sbi implements the supervisor-mode side of the calls this kernel
// makes into SBI firmware: console I/O, the next-timer-interrupt request,
// and machine shutdown. The SBI firmware itself, along with the console and
// timer services it exposes, is an external collaborator (spec.md §1); this
// package is only the calling convention used to reach it.
//
// Extension and function IDs follow the SBI spec numbering also used by
// tinyrange-cc's riscv64 hypervisor (internal/hv/riscv/rv64/sbi.go) on the
// other side of the same calling convention.
package sbi

// Extension IDs.
const (
	extLegacyPutChar = 0x01
	extLegacyGetChar = 0x02
	extTimer         = 0x54494D45 // "TIME"
	extSRST          = 0x53525354 // "SRST"
)

// Timer extension function IDs.
const (
	fidTimerSetTimer = 0
)

// System-reset extension function IDs and parameters.
const (
	fidSRSTReset     = 0
	srstTypeShutdown = 0
	srstReasonNone   = 0
)

// ecallFn issues the actual `ecall` instruction with the SBI calling
// convention (a7 = extension ID, a6 = function ID, a0..a5 = arguments,
// returns a0 = error code, a1 = value). It is declared without a body here;
// the riscv64 implementation lives in sbi_riscv64.s. Tests substitute
// ecallFn to avoid trapping into firmware that does not exist on the host
// running `go test`.
var ecallFn = ecall

// ecall is the riscv64 assembly trampoline around the `ecall` instruction.
// Declared here, implemented in sbi_riscv64.s.
func ecall(ext, fid, a0, a1, a2, a3, a4, a5 uint64) (errno int64, value uint64)

// ConsolePutChar writes a single byte to the SBI console using the legacy
// console-putchar extension.
func ConsolePutChar(ch byte) {
	ecallFn(extLegacyPutChar, 0, uint64(ch), 0, 0, 0, 0, 0)
}

// ConsoleGetChar reads a single byte from the SBI console using the legacy
// console-getchar extension. ok is false when no byte was available.
func ConsoleGetChar() (ch byte, ok bool) {
	errno, _ := ecallFn(extLegacyGetChar, 0, 0, 0, 0, 0, 0, 0)
	if errno < 0 {
		return 0, false
	}
	return byte(errno), true
}

// SetTimer arms the next timer interrupt to fire at the supplied absolute
// time value (in the platform's timer-tick units).
func SetTimer(stimeValue uint64) {
	ecallFn(extTimer, fidTimerSetTimer, stimeValue, 0, 0, 0, 0, 0)
}

// Shutdown requests an orderly power-off from the firmware. Used by the
// scheduler's run loop once every task has exited, and by the kernel's
// top-level panic path on an unrecoverable kernel fault (spec.md §7).
//
// Shutdown does not return.
func Shutdown() {
	ecallFn(extSRST, fidSRSTReset, srstTypeShutdown, srstReasonNone, 0, 0, 0, 0)

	// Should be unreachable; if firmware declines to reset, spin rather
	// than fall back into whatever undefined state called us.
	for {
	}
}
