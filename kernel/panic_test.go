package kernel

import (
	"bytes"
	"testing"

	"github.com/xiaomo-xty/xux-core/kernel/sbi"
	"github.com/xiaomo-xty/xux-core/kernel/kfmt/early"
)

func TestPanic(t *testing.T) {
	defer func() {
		shutdownFn = sbi.Shutdown
	}()

	var shutdownCalled bool
	shutdownFn = func() {
		shutdownCalled = true
	}

	t.Run("with error", func(t *testing.T) {
		shutdownCalled = false
		buf := mockConsole(t)
		err := &Error{Module: "test", Message: "panic test"}

		Panic(err)

		exp := "\n-----------------------------------\n[test] unrecoverable error: panic test\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !shutdownCalled {
			t.Fatal("expected sbi.Shutdown to be called by Panic")
		}
	})

	t.Run("without error", func(t *testing.T) {
		shutdownCalled = false
		buf := mockConsole(t)

		Panic(nil)

		exp := "\n-----------------------------------\n*** kernel panic: system halted ***\n-----------------------------------\n"

		if got := buf.String(); got != exp {
			t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
		}

		if !shutdownCalled {
			t.Fatal("expected sbi.Shutdown to be called by Panic")
		}
	})
}

func mockConsole(t *testing.T) *bytes.Buffer {
	buf := new(bytes.Buffer)
	restore := early.SetOutputForTesting(func(b byte) { buf.WriteByte(b) })
	t.Cleanup(restore)
	return buf
}
