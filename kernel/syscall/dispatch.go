package syscall

import "github.com/xiaomo-xty/xux-core/kernel/trampoline"

// Register-file indices the riscv64 syscall convention uses: a7 carries the
// syscall number, a0-a5 the first six arguments, and the result is written
// back into a0 (the same registers libc's syscall() wrapper expects).
const (
	regA0 = 10
	regA7 = 17
)

func init() {
	trampoline.HandleSyscall = Dispatch
}

// Dispatch decodes the ecall arguments TrapEntry captured into ctx, runs
// the matching handler, and writes its result back into a0 (spec.md §6,
// dispatch path). trampoline.Dispatch already advanced Sepc past the ecall
// instruction before calling this function through HandleSyscall, which is
// why this function never touches Sepc itself.
func Dispatch(ctx *trampoline.TrapContext) {
	number := int64(ctx.X[regA7])

	var args [6]uint64
	copy(args[:], ctx.X[regA0:regA0+6])

	ctx.X[regA0] = uint64(dispatchTable(number, args))
}
