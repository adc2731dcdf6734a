package sched

import (
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel/mem/vmm"
)

func TestInitArmsTrapVectorAndScratchBeforeEnablingInterrupts(t *testing.T) {
	origWriteStvec, origWriteSscratch := writeStvecFn, writeSscratchFn
	origEnableInterrupts, origSetTimer := enableInterruptsFn, setTimerFn
	defer func() {
		writeStvecFn, writeSscratchFn = origWriteStvec, origWriteSscratch
		enableInterruptsFn, setTimerFn = origEnableInterrupts, origSetTimer
	}()

	var gotStvec, gotSscratch uintptr
	var order []string

	writeStvecFn = func(addr uintptr) {
		gotStvec = addr
		order = append(order, "stvec")
	}
	writeSscratchFn = func(addr uintptr) {
		gotSscratch = addr
		order = append(order, "sscratch")
	}
	setTimerFn = func(uint64) { order = append(order, "timer") }
	enableInterruptsFn = func() { order = append(order, "interrupts") }

	Init()

	if gotStvec != vmm.TrampolineVirtAddr {
		t.Fatalf("expected stvec to be armed with the trampoline's mapping address %#x; got %#x", vmm.TrampolineVirtAddr, gotStvec)
	}
	if gotSscratch != vmm.TrapContextVirtAddr {
		t.Fatalf("expected sscratch to be seeded with the trap-context address %#x; got %#x", vmm.TrapContextVirtAddr, gotSscratch)
	}

	if len(order) != 4 || order[3] != "interrupts" {
		t.Fatalf("expected interrupts to be enabled last, after the trap path was armed; got order %v", order)
	}
	for _, must := range []string{"stvec", "sscratch"} {
		found := false
		for _, s := range order[:3] {
			if s == must {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %q to run before interrupts were enabled; order was %v", must, order)
		}
	}
}
