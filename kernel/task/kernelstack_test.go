package task

import (
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
)

func TestKernelStackSlotsDoNotOverlap(t *testing.T) {
	type span struct{ low, high uintptr }
	var spans []span

	for id := 0; id < 8; id++ {
		low, high := kernelStackSlot(id)

		if high <= low {
			t.Fatalf("task %d: expected high > low; got low=%#x high=%#x", id, low, high)
		}
		if high-low != uintptr(KernelStackSize) {
			t.Fatalf("task %d: expected stack size %d; got %d", id, KernelStackSize, high-low)
		}

		for _, s := range spans {
			if low < s.high && s.low < high {
				t.Fatalf("task %d: slot [%#x, %#x) overlaps an earlier slot [%#x, %#x)", id, low, high, s.low, s.high)
			}
		}
		spans = append(spans, span{low, high})
	}
}

func TestKernelStackSlotsStayBelowTrapContext(t *testing.T) {
	for id := 0; id < MaxTasks; id++ {
		_, high := kernelStackSlot(id)
		if high > vmm.TrapContextVirtAddr {
			t.Fatalf("task %d: kernel stack slot reaches into the trap-context/trampoline region", id)
		}
	}
}
