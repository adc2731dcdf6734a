// Package sched implements the kernel's single-hart, cooperative run loop
// (spec.md §4.4): it picks the next Ready task in round-robin order, drives
// the per-task state machine, and is the only caller of task.Switch that
// crosses the scheduler/task boundary in both directions.
package sched

import (
	"strconv"

	"github.com/xiaomo-xty/xux-core/kernel/cpu"
	"github.com/xiaomo-xty/xux-core/kernel/diag"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
	"github.com/xiaomo-xty/xux-core/kernel/sbi"
	"github.com/xiaomo-xty/xux-core/kernel/task"
	"github.com/xiaomo-xty/xux-core/kernel/trampoline"
)

// idleContext is the run loop's own callee-saved state: task.Switch treats
// it exactly like a task context, so the run loop can "yield" into a task
// and be "resumed" later using the same primitive, with no special case.
var idleContext task.Context

// TimerIntervalTicks is the spacing, in hart timer-register units, between
// successive timer rearms.
const TimerIntervalTicks = 100000

// tickCount counts every supervisor timer interrupt serviced so far. It is
// recorded but never forces a switch: this kernel does not preempt
// (spec.md §4.4, "Cancellation & timeouts").
var tickCount uint64

// writeStvecFn, writeSscratchFn, enableInterruptsFn and setTimerFn are
// overridden by tests so Init can be exercised without issuing privileged
// CSR writes or firmware calls on a host that isn't running in supervisor
// mode, matching the function-variable seam kernel/trampoline and kernel/sbi
// already use for the same reason.
var (
	writeStvecFn       = cpu.WriteStvec
	writeSscratchFn    = cpu.WriteSscratch
	enableInterruptsFn = cpu.EnableInterrupts
	setTimerFn         = sbi.SetTimer
)

func init() {
	trampoline.HandleTimerTick = handleTimerTick
	trampoline.TerminateCurrent = terminateCurrent
	trampoline.ResumeCurrent = resumeCurrent
}

// Init arms the trap path and the timer, then enables interrupts. Called
// once by the boot entry after the task list has been built.
//
// stvec is pointed at the trampoline's fixed mapping address, not at
// TrapEntry's own kernel-linked address: a trap taken from user mode is
// still running under the trapping task's own page table when the hart
// reads stvec, and only vmm.TrampolineVirtAddr is guaranteed to be mapped
// there (every memory set, kernel or user, maps the trampoline page at that
// same address — spec.md §4.2). sscratch is seeded with
// vmm.TrapContextVirtAddr here: that address is likewise fixed across every
// user memory set, so the scheduler never rewrites it on dispatch.
// trampoline.TrapReturn re-arms it with the same address on every return to
// user mode, since TrapEntry's swap leaves the user sp in it.
func Init() {
	writeStvecFn(vmm.TrampolineVirtAddr)
	writeSscratchFn(vmm.TrapContextVirtAddr)

	setTimerFn(cpu.ReadTime() + TimerIntervalTicks)
	enableInterruptsFn()
}

// Run is the scheduler's run_loop() (spec.md §4.4): forever, search the
// task ring starting after the current index for the first Ready task; if
// none exists, shut down if every task has Exited, otherwise halt the hart
// via cpu.Halt, which loops on wfi and does not return, so the search is
// not repeated; otherwise dispatch the chosen task and wait for it to
// yield, exit, or fault back to the idle context.
func Run() {
	for {
		idx, ok := nextReady()
		if !ok {
			if allExited() {
				sbi.Shutdown()
			}
			cpu.Halt()
			continue
		}

		dispatch(idx)
	}
}

// Ticks returns the number of timer interrupts serviced so far, used by the
// get_time syscall's companion accounting.
func Ticks() uint64 {
	return tickCount
}

// nextReady scans the task ring starting just after the current index,
// wrapping around, for the first task in task.Ready.
func nextReady() (int, bool) {
	tasks := task.Tasks()
	n := len(tasks)
	if n == 0 {
		return 0, false
	}

	start := task.CurrentIndex()
	for i := 1; i <= n; i++ {
		idx := (start + i) % n
		if tasks[idx].Status == task.Ready {
			return idx, true
		}
	}
	return 0, false
}

func allExited() bool {
	for _, t := range task.Tasks() {
		if t.Status != task.Exited {
			return false
		}
	}
	return true
}

// dispatch marks task idx Running, records it as current, and switches the
// hart onto its kernel stack. Control returns to the statement following
// Switch only once that task (or the trap handler acting on its behalf)
// switches back into idleContext.
func dispatch(idx int) {
	t := task.Tasks()[idx]
	t.Status = task.Running
	task.SetCurrentIndex(idx)
	task.Switch(&idleContext, &t.Context)
}

// Yield services the yield syscall: the current task gives up the hart
// voluntarily and returns to Ready (spec.md §4.4, "Running → Ready on
// yield").
func Yield() {
	t := task.CurrentTask()
	t.Status = task.Ready
	task.Switch(&t.Context, &idleContext)
}

// Exit services the exit syscall: the current task records its exit code
// and never runs again (spec.md §4.4, "Running → Exited on exit").
func Exit(exitCode int32) {
	t := task.CurrentTask()
	t.Status = task.Exited
	t.ExitCode = exitCode
	task.Switch(&t.Context, &idleContext)
}

// terminateCurrent is trampoline.TerminateCurrent: the trap handler
// classified the current task's trap as a fatal user fault and hands
// control back to the scheduler (spec.md §4.4, "Running → Exited ... on a
// fault classified as fatal to the task").
func terminateCurrent(ctx *trampoline.TrapContext, cause, stval uint64, exitCode int32) {
	t := task.CurrentTask()
	diag.ReportUserFault("task"+strconv.Itoa(task.CurrentIndex()), t.MemSet, ctx, cause, stval)
	Exit(exitCode)
}

// resumeCurrent is trampoline.ResumeCurrent: the trap handler finished
// servicing a trap the same task should resume from (a syscall that
// returned normally, or a timer tick, which never preempts).
func resumeCurrent() {
	t := task.CurrentTask()
	trampoline.TrapReturn(t.TrapContextAddr, t.MemSet.Token())
}

// handleTimerTick is trampoline.HandleTimerTick. It records the tick, rearms
// the next one, and resumes whichever task was running: this kernel never
// preempts on a timer (spec.md §4.4).
func handleTimerTick() {
	tickCount++
	sbi.SetTimer(cpu.ReadTime() + TimerIntervalTicks)
	resumeCurrent()
}
