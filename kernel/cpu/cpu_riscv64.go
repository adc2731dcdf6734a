// Package cpu provides the minimal set of privileged-CSR and hart-control
// primitives the rest of the kernel needs (TLB maintenance, interrupt
// masking, the address-translation token, and the scratch register used by
// the trampoline). A full register-bit abstraction for every privileged CSR
// is an external collaborator (spec.md §1); this package only exposes the
// handful of operations actually consumed by the Address-Space Manager,
// the trampoline, and the scheduler.
package cpu

// EnableInterrupts sets sstatus.SIE, allowing supervisor-mode interrupts
// (currently just the timer) to be taken.
func EnableInterrupts()

// DisableInterrupts clears sstatus.SIE.
func DisableInterrupts()

// Halt executes wfi in a loop. Used while the run queue has no Ready task.
func Halt()

// SfenceVMA flushes all address-translation caches. Required after any
// write to satp and after editing a page table entry that may already be
// cached (spec.md §4.1, §5).
func SfenceVMA()

// ReadSatp returns the currently active address-translation token.
func ReadSatp() uintptr

// WriteSatp installs a new address-translation token. Callers must follow
// this with SfenceVMA before relying on the new mapping.
func WriteSatp(token uintptr)

// WriteStvec points the supervisor trap vector at addr, direct mode (the
// hart jumps straight to addr on every trap, never indexed by cause). Must
// be set once at boot, before interrupts are enabled, to the trampoline's
// fixed mapping address (spec.md §4.2) so the very first trap has somewhere
// valid to land.
func WriteStvec(addr uintptr)

// WriteSscratch sets the hart-private scratch register. While a task is
// running this must hold the virtual address of that task's trap-context
// page (spec.md §4.2). The kernel seeds it with that address at boot and
// does not clear it while no task is running.
func WriteSscratch(value uintptr)

// ReadTime returns the hart's free-running timer register, used to answer
// the get_time syscall.
func ReadTime() uint64

// ReadScause returns the supervisor trap cause register, read by the trap
// handler to classify the trap it was just handed (spec.md §4.2/§7).
func ReadScause() uint64

// ReadStval returns the supervisor trap value register: the faulting
// virtual address for a page fault, or the offending instruction bits for
// an illegal-instruction trap.
func ReadStval() uint64
