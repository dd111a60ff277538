package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorString(t *testing.T) {
	err := New(CategorySubmission, "form rejected")
	if err.Error() != "submission: form rejected" {
		t.Errorf("Unexpected error string %q", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	inner := stderrors.New("connection refused")
	err := Wrap(CategoryTransport, "submit failed", inner)

	if !stderrors.Is(err, inner) {
		t.Error("Expected errors.Is to find the wrapped error")
	}
	if CategoryOf(err) != CategoryTransport {
		t.Errorf("Expected transport category, got %q", CategoryOf(err))
	}
}

func TestIsCategory(t *testing.T) {
	err := Newf(CategoryConfig, "document already enhanced")
	if !Is(err, CategoryConfig) {
		t.Error("Expected Is to match config category")
	}
	if Is(err, CategoryTransport) {
		t.Error("Expected Is to reject other categories")
	}
	if Is(stderrors.New("plain"), CategoryConfig) {
		t.Error("Expected plain errors to have no category")
	}
}
