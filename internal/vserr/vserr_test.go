package vserr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := New(KindNotFound, "value set with key '%s' not found", "priority")
	want := "value set with key 'priority' not found"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
}

func TestInvalidJoinsViolations(t *testing.T) {
	err := Invalid([]string{"key must not be empty", "duplicate item codes: HIGH"})
	want := "value set failed validation: key must not be empty; duplicate item codes: HIGH"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if err.Kind != KindInvalidAggregate {
		t.Fatalf("expected invalid_aggregate, got %s", err.Kind)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := New(KindConcurrentModification, "lost the race")
	wrapped := fmt.Errorf("replace failed: %w", inner)
	if KindOf(wrapped) != KindConcurrentModification {
		t.Fatalf("kind must survive wrapping, got %q", KindOf(wrapped))
	}
}

func TestKindOfUntyped(t *testing.T) {
	if KindOf(errors.New("boom")) != "" {
		t.Fatalf("untyped errors must report empty kind")
	}
	if KindOf(nil) != "" {
		t.Fatalf("nil must report empty kind")
	}
}

func TestIsKind(t *testing.T) {
	err := New(KindCapacityExceeded, "full")
	if !IsKind(err, KindCapacityExceeded) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(err, KindNotFound) {
		t.Fatalf("IsKind must not match other kinds")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("driver broke")
	err := Wrap(KindConcurrentModification, cause, "replace failed")
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped cause must be reachable via errors.Is")
	}
}
