package domainerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestHasCode(t *testing.T) {
	t.Run("matches direct error", func(t *testing.T) {
		err := New(CodeNotFound, "item not found")
		if !HasCode(err, CodeNotFound) {
			t.Fatalf("expected CodeNotFound on %v", err)
		}
		if HasCode(err, CodeConflict) {
			t.Fatalf("did not expect CodeConflict on %v", err)
		}
	})

	t.Run("matches through wrapping", func(t *testing.T) {
		inner := New(CodeForbidden, "moderator role required")
		err := fmt.Errorf("approve item: %w", inner)
		if !HasCode(err, CodeForbidden) {
			t.Fatalf("expected CodeForbidden through wrap on %v", err)
		}
	})

	t.Run("uncoded error matches nothing", func(t *testing.T) {
		err := errors.New("boom")
		if HasCode(err, CodeInternal) {
			t.Fatalf("uncoded errors should not match any code")
		}
	})
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeBadRequest, "reason is required")); got != CodeBadRequest {
		t.Fatalf("expected CodeBadRequest, got %q", got)
	}
	if got := CodeOf(errors.New("boom")); got != CodeInternal {
		t.Fatalf("uncoded errors default to CodeInternal, got %q", got)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "user service unreachable")

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause to survive errors.Is")
	}
	if MessageOf(err) != "user service unreachable" {
		t.Fatalf("unexpected message %q", MessageOf(err))
	}
}
