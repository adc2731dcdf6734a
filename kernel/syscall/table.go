package syscall

import (
	"github.com/xiaomo-xty/xux-core/kernel/cpu"
	"github.com/xiaomo-xty/xux-core/kernel/sched"
	"github.com/xiaomo-xty/xux-core/kernel/task"
)

// Handler services one syscall number. args mirrors a0-a5 as the trap
// context held them at the point of the ecall; the returned value is
// written back into a0. A handler that needs to stop the task's forward
// progress (exit, a fatal error) may simply not return in the ordinary
// sense, since sched.Exit never comes back to its caller.
type Handler func(args [6]uint64) int64

// Table is the syscall registry. Only entry/exit and dispatch are part of
// the core (spec.md §6, "Only the entry/exit and dispatch path are part of
// the core; individual handler bodies are external collaborators"): write,
// read, open, close, fork, exec and waitpid are registered as injection
// points (nil until a collaborator sets them, matching the pattern
// kernel/manifest and kernel/mem/vmm already use), while exit, yield,
// get_time and getpid are simple enough to live directly in the kernel
// since they only touch kernel/task and kernel/sched state.
//
// spec.md §9 leaves open whether the registry should be a build-time
// linker section (`__syscall_registry_start/_end`, spec.md §6) or a plain
// runtime map; this kernel uses a runtime map; see DESIGN.md.
var Table = map[int64]Handler{
	SysExit:    handleExit,
	SysYield:   handleYield,
	SysGetTime: handleGetTime,
	SysGetPID:  handleGetPID,
}

// External holds the collaborator-supplied handlers for the syscalls this
// core only registers a slot for: a file system and a process-duplication
// facility are both out of scope (spec.md §6, non-goals on swapping/CoW
// apply equally to fork's memory-set duplication), so these stay nil until
// a build-specific package sets them, mirroring manifest.LoadFn.
var External = map[int64]Handler{
	SysWrite:   nil,
	SysRead:    nil,
	SysOpen:    nil,
	SysClose:   nil,
	SysFork:    nil,
	SysExec:    nil,
	SysWaitPID: nil,
}

// errNoSys is ENOSYS under the Linux errno numbering the rest of this ABI
// borrows, returned for any syscall number with no registered handler,
// including an External entry nothing has set yet.
const errNoSys = -38

func dispatchTable(number int64, args [6]uint64) int64 {
	if h, ok := Table[number]; ok {
		return h(args)
	}
	if h, ok := External[number]; ok && h != nil {
		return h(args)
	}
	return errNoSys
}

func handleExit(args [6]uint64) int64 {
	sched.Exit(int32(args[0]))
	return 0
}

func handleYield(args [6]uint64) int64 {
	sched.Yield()
	return 0
}

func handleGetTime(args [6]uint64) int64 {
	return int64(cpu.ReadTime())
}

func handleGetPID(args [6]uint64) int64 {
	return int64(task.CurrentIndex())
}
