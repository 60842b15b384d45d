package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "crop not found")
		if err.Error() != "[NOT_FOUND] crop not found" {
			t.Errorf("expected [NOT_FOUND] crop not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("read failed")
		err := Wrap(original, CodeInternal, "load image")
		expected := "[INTERNAL_ERROR] load image: read failed"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
		if !errors.Is(err, original) {
			t.Error("expected wrapped error to unwrap to original")
		}
	})

	t.Run("ContextRendersSorted", func(t *testing.T) {
		err := Precondition("select", "select a crop type first").WithContext(CtxCrop, "banana")
		expected := "[PRECONDITION_FAILED] select a crop type first {crop=banana operation=select}"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("SentinelsMatchByCode", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeValidationError, "bad crop"))
		if !errors.Is(err, ErrValidation) {
			t.Error("expected errors.Is to match the validation sentinel")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("did not expect a not-found match")
		}
	})

	t.Run("IsCodeUsesOutermostCode", func(t *testing.T) {
		inner := New(CodeValidationError, "confidence out of range")
		err := Wrap(inner, CodePreconditionFailed, "cannot save an invalid result")
		if !IsCode(err, CodePreconditionFailed) {
			t.Errorf("expected PRECONDITION_FAILED, got %s", CodeOf(err))
		}
		if IsCode(err, CodeValidationError) {
			t.Error("inner code must not leak through IsCode")
		}
		if !errors.Is(err, ErrValidation) {
			t.Error("errors.Is still sees the inner code")
		}
		if IsCode(nil, CodeInternal) {
			t.Error("nil has no code")
		}
	})

	t.Run("CodeOfForeignError", func(t *testing.T) {
		if got := CodeOf(errors.New("plain")); got != CodeInternal {
			t.Errorf("expected CodeInternal, got %s", got)
		}
		if got := CodeOf(New(CodeRateLimited, "slow down")); got != CodeRateLimited {
			t.Errorf("expected CodeRateLimited, got %s", got)
		}
	})

	t.Run("AddContextKeepsChain", func(t *testing.T) {
		base := New(CodeNotFound, "image file not found")
		err := AddContext(fmt.Errorf("load: %w", base), CtxImage, "leaf.png")
		var de *DomainError
		if !errors.As(err, &de) || de.Context[CtxImage] != "leaf.png" {
			t.Fatalf("expected context on the domain error, got %v", err)
		}
		if err.Error() != "load: [NOT_FOUND] image file not found {image=leaf.png}" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, ErrNotFound) || CodeOf(err) != CodeNotFound {
			t.Errorf("expected NOT_FOUND to survive annotation, got %v", err)
		}
		if base.Error() != "[NOT_FOUND] image file not found" {
			t.Errorf("base error was mutated: %q", base.Error())
		}
	})

	t.Run("AddContextCopiesDomainError", func(t *testing.T) {
		base := Precondition("save", "nothing to save")
		err := AddContext(base, CtxScreen, "history")
		var de *DomainError
		if !errors.As(err, &de) || de == base {
			t.Fatalf("expected a copy, got %v", err)
		}
		if de.Context[CtxScreen] != "history" || de.Context[CtxOperation] != "save" {
			t.Errorf("expected merged context, got %v", de.Context)
		}
		if _, ok := base.Context[CtxScreen]; ok {
			t.Errorf("base context was mutated: %v", base.Context)
		}
	})

	t.Run("ContextValueWalksChain", func(t *testing.T) {
		err := fmt.Errorf("upload: %w", AddContext(New(CodeValidationError, "too big"), CtxReason, "too_large"))
		if got := ContextValue(err, CtxReason); got != "too_large" {
			t.Errorf("expected too_large, got %q", got)
		}
		if got := ContextValue(err, CtxCrop); got != "" {
			t.Errorf("expected empty value, got %q", got)
		}
		if got := ContextValue(nil, CtxReason); got != "" {
			t.Errorf("expected empty value for nil, got %q", got)
		}
	})

	t.Run("AddContextToForeignError", func(t *testing.T) {
		err := AddContext(errors.New("boom"), CtxCrop, "rice")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatalf("expected DomainError, got %T", err)
		}
		if de.Code != CodeInternal || de.Context[CtxCrop] != "rice" {
			t.Errorf("unexpected error shape: %+v", de)
		}
	})
}
