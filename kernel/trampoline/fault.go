package trampoline

// Exit codes a fatal user fault encodes into the terminated task's exit
// status (spec.md §7, "User fault"). Negative and distinct from any
// well-formed `exit` syscall argument so a waiting parent can tell a fault
// apart from a voluntary exit code.
const (
	ExitBadInstruction = -10 - iota
	ExitBadAddress
	ExitUnknownFault
)

// classifyFault maps a synchronous exception's scause/stval pair to the
// exit code recorded against the task that caused it. Only the causes
// spec.md §4.4 names as fatal-to-the-task are distinguished; anything else
// collapses to ExitUnknownFault.
func classifyFault(cause, faultAddr uint64) int32 {
	switch cause {
	case causeIllegalInstruction:
		return ExitBadInstruction
	case causeInstructionPageFault, causeLoadPageFault, causeStoreAMOPageFault:
		return ExitBadAddress
	default:
		return ExitUnknownFault
	}
}
