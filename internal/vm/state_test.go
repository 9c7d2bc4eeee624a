package vm

import (
	"testing"
)

func TestStateFromCode(t *testing.T) {
	tests := []struct {
		code int32
		want State
	}{
		{1, StateRunning},
		{2, StateBlocked},
		{3, StatePaused},
		{4, StateShutdown},
		{5, StateShutoff},
		{6, StateCrashed},
	}

	for _, tt := range tests {
		if got := StateFromCode(tt.code); got != tt.want {
			t.Errorf("StateFromCode(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestStateFromCode_UnrecognizedIsUnknown(t *testing.T) {
	// The mapping is total: any code outside the known set classifies as
	// Unknown, never an error.
	for _, code := range []int32{0, 7, 8, 42, -1, 255} {
		if got := StateFromCode(code); got != StateUnknown {
			t.Errorf("StateFromCode(%d) = %s, want Unknown", code, got)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateRunning, "Running"},
		{StateBlocked, "Blocked"},
		{StatePaused, "Paused"},
		{StateShutdown, "Shutdown"},
		{StateShutoff, "Shutoff"},
		{StateCrashed, "Crashed"},
		{StateUnknown, "Unknown"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestStateMarshalText(t *testing.T) {
	text, err := StateRunning.MarshalText()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(text) != "Running" {
		t.Errorf("expected 'Running', got %q", string(text))
	}
}
