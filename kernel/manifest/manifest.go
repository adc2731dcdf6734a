// Package manifest describes the embedded application images the kernel
// seeds its task list from at boot (spec.md §3, "Task manager / scheduler
// state": "a fixed-size ordered sequence of tasks seeded at boot from the
// embedded application manifest"). Producing the manifest — embedding ELF
// images into the kernel binary and building the syscall table user code
// links against — is an external, per-build collaborator (spec.md §1); this
// package only defines the shape that collaborator must produce.
package manifest

// AppImage is one application's raw ELF bytes plus the name the scheduler
// and diagnostics report it under.
type AppImage struct {
	Name string
	ELF  []byte
}

// LoadFn is populated by the build-specific collaborator that embeds
// application images (e.g. via go:embed in a generated file). The kernel's
// boot entry calls it once to obtain the fixed task list; it is nil until
// that collaborator sets it, matching the injection-point pattern
// kernel/mem/vmm uses for SetFrameAllocator.
var LoadFn func() []AppImage
