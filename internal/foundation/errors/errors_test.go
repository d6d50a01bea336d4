package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "ndocs.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "ndocs.yaml" {
			t.Errorf("expected context file=ndocs.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NavigationError("cannot open listed file").Build())

		if _, ok := AsClassified(err); !ok {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(err, CategoryNavigation) {
			t.Error("expected error to have navigation category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected plain error to map to internal category")
		}
	})

	t.Run("WithContext does not mutate original", func(t *testing.T) {
		base := FileSystemError("read failed").Build()
		derived := base.WithContext("path", "a.md")

		if _, ok := base.Context().Get("path"); ok {
			t.Error("original error context was mutated")
		}
		if p, _ := derived.Context().GetString("path"); p != "a.md" {
			t.Errorf("expected derived path a.md, got %q", p)
		}
	})
}

func TestErrorBuilder_Wrap(t *testing.T) {
	original := errors.New("permission denied")
	err := WrapError(original, CategoryFileSystem, "cannot open source document").
		WithSeverity(SeverityWarning).
		WithContext("path", "DiskArc/Arc/Zip-notes.md").
		Build()

	if !errors.Is(err, original) {
		t.Error("expected error to wrap original error")
	}
	if err.IsFatal() {
		t.Error("warning severity must not be fatal")
	}
	want := "[filesystem:warning] cannot open source document: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
