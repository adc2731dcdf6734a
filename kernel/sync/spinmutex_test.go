package sync

import "testing"

func TestSpinMutexLockUnlock(t *testing.T) {
	var m SpinMutex

	m.Lock()
	if m.TryLock() {
		t.Fatal("expected TryLock to fail while already locked")
	}
	m.Unlock()

	if !m.TryLock() {
		t.Fatal("expected TryLock to succeed once unlocked")
	}
	m.Unlock()
}

func TestSpinMutexConcurrentAccess(t *testing.T) {
	var m SpinMutex
	counter := 0

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 1000; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}

	if counter != 8000 {
		t.Fatalf("expected counter to reach 8000 under lock protection; got %d", counter)
	}
}
