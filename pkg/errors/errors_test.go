package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestError_Format(t *testing.T) {
	err := New(KindNotFound, "User not found")
	if got := err.Error(); got != "NOT_FOUND: User not found" {
		t.Errorf("Error() = %q", got)
	}

	wrapped := Wrap(KindFetchFailed, io.ErrUnexpectedEOF, "Failed to fetch profile")
	if got := wrapped.Error(); got != "FETCH_FAILED: Failed to fetch profile: unexpected EOF" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, io.ErrUnexpectedEOF) {
		t.Error("wrapped error should unwrap to its cause")
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"plain error", io.EOF, ""},
		{"direct", New(KindRateLimited, "slow down"), KindRateLimited},
		{"wrapped by fmt", fmt.Errorf("listing repos: %w", New(KindAccessDenied, "nope")), KindAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%v, %q) = false", tt.err, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
	if got := UserMessage(New(KindNotFound, "User not found").WithStatus(404)); got != "User not found" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(io.EOF); got != "EOF" {
		t.Errorf("UserMessage(io.EOF) = %q", got)
	}
}
