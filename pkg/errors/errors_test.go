package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidValue, "value %g outside [0,1]", 1.5)
	if err.Code != ErrCodeInvalidValue {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidValue)
	}
	want := "INVALID_VALUE: value 1.5 outside [0,1]"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeSolver, cause, "solve model")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not match cause via errors.Is")
	}
	want := "SOLVER_ERROR: solve model: connection refused"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeTimeout, "deadline expired")
	if !Is(err, ErrCodeTimeout) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeSolver) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeTimeout) {
		t.Error("Is() = true for a plain error")
	}
	if Is(nil, ErrCodeTimeout) {
		t.Error("Is() = true for nil")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeInvalidConfig, "equal band out of range")
	outer := fmt.Errorf("invalid options: %w", inner)
	if !Is(outer, ErrCodeInvalidConfig) {
		t.Error("Is() did not find the code through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodeInvalidConfig {
		t.Errorf("GetCode() = %s, want %s", GetCode(outer), ErrCodeInvalidConfig)
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInternal, "boom")); got != ErrCodeInternal {
		t.Errorf("GetCode() = %s, want %s", got, ErrCodeInternal)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "unsupported file extension")
	if got := UserMessage(err); got != "unsupported file extension" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
