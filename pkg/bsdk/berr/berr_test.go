package berr

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	if New(CodeInitFailed, nil) != nil {
		t.Error("wrapping nil should return nil")
	}

	base := errors.New("boom")
	err := New(CodeInitFailed, base)
	if !IsCode(err, CodeInitFailed) {
		t.Errorf("expected code %s", CodeInitFailed)
	}
	if IsCode(err, CodeSubmitFailed) {
		t.Error("wrong code should not match")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to the original")
	}
	if ExitCodeOf(err) != -1 {
		t.Errorf("ExitCodeOf without a process = %d, want -1", ExitCodeOf(err))
	}
}

func TestNewExit(t *testing.T) {
	err := NewExit(CodeTaskFailed, 3, errors.New("task exited"))
	if ExitCodeOf(err) != 3 {
		t.Errorf("ExitCodeOf = %d, want 3", ExitCodeOf(err))
	}
	if ExitCodeOf(errors.New("plain")) != -1 {
		t.Error("plain errors carry no exit code")
	}
}
