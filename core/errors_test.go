package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundError_WithExactError(t *testing.T) {
	if !IsNotFoundError(ErrNotFound) {
		t.Error("expected true for ErrNotFound")
	}
}

func TestIsNotFoundError_WithWrappedError(t *testing.T) {
	err := fmt.Errorf("loading page: %w", ErrNotFound)
	if !IsNotFoundError(err) {
		t.Error("expected true for wrapped ErrNotFound")
	}
}

func TestIsNotFoundError_WithSameMessage(t *testing.T) {
	err := errors.New("hello: not found")
	if IsNotFoundError(err) {
		t.Error("expected false for a distinct error that only shares the message")
	}
}

func TestIsNotFoundError_WithDifferentError(t *testing.T) {
	if IsNotFoundError(errors.New("some other error")) {
		t.Error("expected false for unrelated error")
	}
}

func TestIsNotFoundError_WithNil(t *testing.T) {
	if IsNotFoundError(nil) {
		t.Error("expected false for nil error")
	}
}
