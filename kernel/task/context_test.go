package task

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewContextSeedsStackAndEntry(t *testing.T) {
	const kernelSP = uintptr(0xdeadbeef000)

	want := Context{RA: uint64(goEntryAddr()), SP: uint64(kernelSP)}
	got := NewContext(kernelSP)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewContext(%#x) mismatch (-want +got):\n%s", kernelSP, diff)
	}
}
