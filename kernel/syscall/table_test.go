package syscall

import "testing"

func TestDispatchTableUnregisteredReturnsENOSYS(t *testing.T) {
	if got := dispatchTable(0xffff, [6]uint64{}); got != errNoSys {
		t.Fatalf("expected errNoSys for an unknown syscall number; got %d", got)
	}
}

func TestDispatchTableUnsetExternalHandlerReturnsENOSYS(t *testing.T) {
	if got := dispatchTable(SysWrite, [6]uint64{}); got != errNoSys {
		t.Fatalf("expected errNoSys while External[SysWrite] is nil; got %d", got)
	}
}

func TestDispatchTableUsesExternalHandlerOnceSet(t *testing.T) {
	defer delete(External, SysWrite)

	External[SysWrite] = func(args [6]uint64) int64 {
		return int64(args[2]) // echo back the write length argument
	}

	if got := dispatchTable(SysWrite, [6]uint64{0, 0, 42}); got != 42 {
		t.Fatalf("expected the registered external handler's result; got %d", got)
	}
}
