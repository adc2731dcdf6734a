// Package sync provides the spinning mutual-exclusion wrapper the kernel's
// shared state (task list, frame allocator, kernel heap) is guarded by
// (spec.md §5, "Shared resources"). Under the single-hart invariant
// contention never occurs, so every lock attempt here succeeds
// immediately; the type exists so those call sites already read correctly
// if the kernel is ever extended to SMP.
package sync

import "sync/atomic"

// SpinMutex busy-waits on a single CAS-guarded flag rather than parking the
// calling goroutine the way sync.Mutex does, since there is no scheduler
// capable of waking a parked kernel control flow on this hart (spec.md §5).
type SpinMutex struct {
	locked uint32
}

// Lock spins until it acquires the mutex.
func (m *SpinMutex) Lock() {
	for !atomic.CompareAndSwapUint32(&m.locked, 0, 1) {
	}
}

// Unlock releases the mutex. Calling it while unlocked is a caller bug, not
// something this type detects.
func (m *SpinMutex) Unlock() {
	atomic.StoreUint32(&m.locked, 0)
}

// TryLock attempts to acquire the mutex without spinning, reporting whether
// it succeeded.
func (m *SpinMutex) TryLock() bool {
	return atomic.CompareAndSwapUint32(&m.locked, 0, 1)
}
