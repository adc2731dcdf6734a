package allocator

import (
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel/mem"
	"github.com/xiaomo-xty/xux-core/kernel/mem/pmm"
)

func TestStackAllocatorAllocUntilExhausted(t *testing.T) {
	var alloc StackAllocator
	alloc.Init(0, uintptr(4*mem.PageSize))

	var got []pmm.Frame
	for {
		f, err := alloc.AllocFrame()
		if err != nil {
			break
		}
		got = append(got, f)
	}

	if len(got) != 4 {
		t.Fatalf("expected to allocate 4 frames; got %d", len(got))
	}

	for i, f := range got {
		if uint64(f) != uint64(i) {
			t.Errorf("expected frame %d to be %d; got %d", i, i, f)
		}
	}

	if _, err := alloc.AllocFrame(); err == nil {
		t.Fatal("expected allocator to report out of memory")
	}
}

func TestStackAllocatorRecyclesFreedFrames(t *testing.T) {
	var alloc StackAllocator
	alloc.Init(0, uintptr(2*mem.PageSize))

	f0, _ := alloc.AllocFrame()
	f1, _ := alloc.AllocFrame()

	if _, err := alloc.AllocFrame(); err == nil {
		t.Fatal("expected pool of 2 frames to be exhausted")
	}

	alloc.FreeFrame(f0)
	alloc.FreeFrame(f1)

	got1, err := alloc.AllocFrame()
	if err != nil {
		t.Fatalf("unexpected error reusing freed frame: %v", err)
	}
	got2, err := alloc.AllocFrame()
	if err != nil {
		t.Fatalf("unexpected error reusing freed frame: %v", err)
	}

	if got1 != f1 || got2 != f0 {
		t.Fatalf("expected LIFO reuse order [%d %d]; got [%d %d]", f1, f0, got1, got2)
	}
}
