package task

import (
	"github.com/xiaomo-xty/xux-core/kernel"
	"github.com/xiaomo-xty/xux-core/kernel/manifest"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
	"github.com/xiaomo-xty/xux-core/kernel/trampoline"
)

// MaxTasks bounds the fixed-size task list (spec.md §3, "Task manager /
// scheduler state"). There is no dynamic task creation beyond the manifest
// loaded at boot (fork is the only way to grow a running task count, and
// this kernel's scope caps the total at this ceiling).
const MaxTasks = 16

var (
	// tasks is the fixed-size ordered sequence of tasks seeded at boot
	// from the embedded application manifest.
	tasks []*Task

	// currentIdx is the index into tasks of the task presently Running,
	// or -1 if none is.
	currentIdx = -1

	errManifestTooLarge = &kernel.Error{Module: "task", Message: "application manifest exceeds MaxTasks"}
)

// CurrentTask returns the task presently marked Running. Only valid to call
// while some task is running (i.e. from trap/syscall context or from
// goEntry); the scheduler never calls it while no task is dispatched.
func CurrentTask() *Task {
	return tasks[currentIdx]
}

// SetCurrentIndex records which task index is now Running. Called by
// kernel/sched immediately before Switch so goEntry and trap handling agree
// on which task owns the hart.
func SetCurrentIndex(idx int) {
	currentIdx = idx
}

// CurrentIndex returns the index last recorded by SetCurrentIndex.
func CurrentIndex() int {
	return currentIdx
}

// Tasks returns the fixed task list in manifest order. The scheduler reads
// it to sweep for Ready tasks; nothing ever appends to or removes from the
// backing slice after Init.
func Tasks() []*Task {
	return tasks
}

// Init builds the task list from the application manifest, spawning one
// Task per image in order (spec.md §3, "seeded at boot from the embedded
// application manifest").
func Init(allocFn vmm.FrameAllocatorFn, freeFn func(pmm.Frame)) *kernel.Error {
	images := manifest.LoadFn()
	if len(images) > MaxTasks {
		return errManifestTooLarge
	}

	tasks = make([]*Task, 0, len(images))
	for i, img := range images {
		t, err := spawn(i, img, allocFn, freeFn)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}

	return nil
}

// spawn builds the Task at manifest index id from img: a fresh user memory
// set from its ELF image, a dedicated kernel-stack slot, and an initial
// Context that resumes through goEntry on first dispatch (spec.md §4.1
// new_user_from_elf() composed with spec.md §4.3's task-context
// construction). Any failure tears the partially built memory set down
// completely before returning, per spec.md §8 scenario 5.
func spawn(id int, img manifest.AppImage, allocFn vmm.FrameAllocatorFn, freeFn func(pmm.Frame)) (*Task, *kernel.Error) {
	ms, entry, userSP, err := vmm.NewUserFromELF(img.ELF, allocFn, freeFn)
	if err != nil {
		return nil, err
	}

	stack, err := newKernelStack(id, allocFn)
	if err != nil {
		ms.Teardown(freeFn)
		return nil, err
	}

	trapCtxPhys, err := ms.Translate(vmm.TrapContextVirtAddr)
	if err != nil {
		ms.Teardown(freeFn)
		return nil, err
	}

	t := &Task{
		Status:          Ready,
		MemSet:          ms,
		TrapContextAddr: vmm.TrapContextVirtAddr,
		trapContextPhys: trapCtxPhys,
		kernelStack:     stack,
		Context:         NewContext(stack.top),
	}

	*t.TrapContext() = trampoline.TrapContext{
		Sepc:        uint64(entry),
		KernelSatp:  uint64(vmm.KernelSpace.Token()),
		KernelSP:    uint64(stack.top),
		TrapHandler: uint64(trampoline.DispatchAddr()),
	}
	t.TrapContext().X[2] = uint64(userSP) // x2 is sp

	return t, nil
}
