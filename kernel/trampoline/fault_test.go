package trampoline

import "testing"

func TestClassifyFault(t *testing.T) {
	tests := []struct {
		name  string
		cause uint64
		want  int32
	}{
		{"illegal instruction", causeIllegalInstruction, ExitBadInstruction},
		{"instruction page fault", causeInstructionPageFault, ExitBadAddress},
		{"load page fault", causeLoadPageFault, ExitBadAddress},
		{"store/amo page fault", causeStoreAMOPageFault, ExitBadAddress},
		{"unrecognized cause", 0xff, ExitUnknownFault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyFault(tt.cause, 0); got != tt.want {
				t.Fatalf("expected %d; got %d", tt.want, got)
			}
		})
	}
}
