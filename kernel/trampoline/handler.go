package trampoline

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/cpu"
)

// Standard scause values this kernel's Dispatch recognizes (RISC-V
// privileged spec, table of standard trap causes). The interrupt bit
// distinguishes asynchronous interrupts from synchronous exceptions.
const (
	scauseInterruptBit = uint64(1) << 63

	causeIllegalInstruction   = 2
	causeUserEcall            = 8
	causeInstructionPageFault = 12
	causeLoadPageFault        = 13
	causeStoreAMOPageFault    = 15

	causeSupervisorTimer = scauseInterruptBit | 5
)

// sstatusSPP is sstatus's SPP bit: 1 if the trapped privilege mode was
// supervisor, 0 if it was user (RISC-V privileged spec §4.1.1).
const sstatusSPP = uint64(1) << 8

var errKernelFault = &kernel.Error{Module: "trampoline", Message: "trap taken from supervisor mode"}

var (
	// readScauseFn and readStvalFn are overridden by tests so Dispatch can
	// be exercised without a real supervisor trap having occurred.
	// Automatically inlined by the compiler when building the kernel.
	readScauseFn = cpu.ReadScause
	readStvalFn  = cpu.ReadStval

	// panicFn is overridden by tests to observe the kernel-fault path
	// without actually requesting a firmware shutdown.
	panicFn = kernel.Panic
)

// Hooks populated by kernel/syscall and kernel/sched at init time. Dispatch
// lives in kernel/trampoline so TrapEntry can call it directly with the Go
// ABI's argument register, but the syscall table and the scheduler both
// need *TrapContext, so this package cannot import them back without a
// cycle; they register themselves here instead.
var (
	// HandleSyscall services a trap caused by `ecall` from user mode.
	HandleSyscall func(ctx *TrapContext)

	// HandleTimerTick services a supervisor timer interrupt. It is
	// responsible for resuming some task (the same one or another) before
	// returning; Dispatch does not resume on its behalf.
	HandleTimerTick func()

	// TerminateCurrent is invoked when Dispatch classifies the trap as
	// fatal to the currently running task (spec.md §7, "User fault"). It
	// receives the raw cause/value pair alongside the encoded exit code so
	// the scheduler can log a diagnostic before tearing the task down. It
	// must mark the task Exited and re-enter the scheduler; Dispatch does
	// not resume on its behalf.
	TerminateCurrent func(ctx *TrapContext, cause, stval uint64, exitCode int32)

	// ResumeCurrent re-activates the current task's user memory set and
	// calls TrapReturn against its trap context. Dispatch invokes it
	// after a syscall trap that the same task should resume from.
	ResumeCurrent func()
)

// dispatchAddr resolves the kernel virtual address of Dispatch. Implemented
// in trampoline_riscv64.s rather than via reflection, since boxing a func
// value into an interface could allocate before the kernel heap exists.
func dispatchAddr() uintptr

// DispatchAddr returns the value a freshly built trap context should store
// in its TrapHandler field (spec.md §3, "Trap context").
func DispatchAddr() uintptr {
	return dispatchAddr()
}

// Dispatch is the kernel's trap handler entry point: TrapEntry calls it
// directly, passing the trapping task's TrapContext. It classifies the
// trap by scause and either services it (syscall, timer) or terminates the
// offending task, per spec.md §7's error taxonomy.
func Dispatch(ctx *TrapContext) {
	cause := readScauseFn()

	switch cause {
	case causeUserEcall:
		// Skip over the 4-byte ecall instruction so re-dispatching this
		// task does not retrigger the same syscall.
		ctx.Sepc += 4
		if HandleSyscall != nil {
			HandleSyscall(ctx)
		}
		if ResumeCurrent != nil {
			ResumeCurrent()
		}

	case causeSupervisorTimer:
		if HandleTimerTick != nil {
			HandleTimerTick()
		}

	default:
		if ctx.Sstatus&sstatusSPP != 0 {
			// The trapped privilege mode was already supervisor: this is
			// a kernel fault, not a user fault, and is always fatal
			// (spec.md §7, "Kernel fault").
			panicFn(errKernelFault)
			return
		}

		stval := readStvalFn()
		exitCode := classifyFault(cause, stval)
		if TerminateCurrent != nil {
			TerminateCurrent(ctx, cause, stval, exitCode)
		}
	}
}
