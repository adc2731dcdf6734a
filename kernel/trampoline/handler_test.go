package trampoline

import (
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/cpu"
)

func TestDispatchServicesSyscall(t *testing.T) {
	defer func() {
		readScauseFn = cpu.ReadScause
		HandleSyscall = nil
		ResumeCurrent = nil
	}()

	readScauseFn = func() uint64 { return causeUserEcall }

	var gotCtx *TrapContext
	HandleSyscall = func(ctx *TrapContext) { gotCtx = ctx }

	resumed := false
	ResumeCurrent = func() { resumed = true }

	ctx := &TrapContext{Sepc: 0x1000}
	Dispatch(ctx)

	if gotCtx != ctx {
		t.Fatal("expected HandleSyscall to receive the dispatched trap context")
	}
	if ctx.Sepc != 0x1004 {
		t.Fatalf("expected sepc to advance past the ecall instruction; got %#x", ctx.Sepc)
	}
	if !resumed {
		t.Fatal("expected ResumeCurrent to be called after a syscall trap")
	}
}

func TestDispatchServicesTimerTick(t *testing.T) {
	defer func() {
		readScauseFn = cpu.ReadScause
		HandleTimerTick = nil
	}()

	readScauseFn = func() uint64 { return causeSupervisorTimer }

	ticked := false
	HandleTimerTick = func() { ticked = true }

	Dispatch(&TrapContext{})

	if !ticked {
		t.Fatal("expected HandleTimerTick to be called on a timer trap")
	}
}

func TestDispatchTerminatesFatalUserFault(t *testing.T) {
	defer func() {
		readScauseFn = cpu.ReadScause
		readStvalFn = cpu.ReadStval
		TerminateCurrent = nil
	}()

	readScauseFn = func() uint64 { return causeLoadPageFault }
	readStvalFn = func() uint64 { return 0 }

	var gotCode int32
	TerminateCurrent = func(ctx *TrapContext, cause, stval uint64, exitCode int32) { gotCode = exitCode }

	// SPP clear: trap was taken from user mode.
	Dispatch(&TrapContext{Sstatus: 0})

	if gotCode != ExitBadAddress {
		t.Fatalf("expected exit code %d; got %d", ExitBadAddress, gotCode)
	}
}

func TestDispatchPanicsOnKernelFault(t *testing.T) {
	defer func() {
		readScauseFn = cpu.ReadScause
		panicFn = kernel.Panic
	}()

	readScauseFn = func() uint64 { return causeIllegalInstruction }

	var gotErr interface{}
	panicFn = func(e interface{}) { gotErr = e }

	// SPP set: trap was taken from supervisor mode.
	Dispatch(&TrapContext{Sstatus: sstatusSPP})

	if gotErr != errKernelFault {
		t.Fatalf("expected Dispatch to panic with errKernelFault; got %v", gotErr)
	}
}
