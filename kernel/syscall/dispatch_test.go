package syscall

import (
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel/trampoline"
)

func TestDispatchDecodesArgsAndWritesResult(t *testing.T) {
	defer delete(External, SysWrite)

	var gotArgs [6]uint64
	External[SysWrite] = func(args [6]uint64) int64 {
		gotArgs = args
		return 7
	}

	ctx := &trampoline.TrapContext{}
	ctx.X[regA7] = SysWrite
	ctx.X[regA0] = 1  // fd
	ctx.X[regA0+1] = 0x1000 // buf
	ctx.X[regA0+2] = 13 // len

	Dispatch(ctx)

	if gotArgs[0] != 1 || gotArgs[1] != 0x1000 || gotArgs[2] != 13 {
		t.Fatalf("expected args to carry a0-a2 from the trap context; got %+v", gotArgs)
	}
	if ctx.X[regA0] != 7 {
		t.Fatalf("expected the handler's result written back into a0; got %d", ctx.X[regA0])
	}
}
