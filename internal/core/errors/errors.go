// Package errors defines the coded error every layer returns. Adapters
// switch on the code, never on message text.
package errors

import (
	"errors"
	"sort"
	"strings"
)

type ErrorCode string

const (
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
	CodeRateLimited        ErrorCode = "RATE_LIMITED"
)

// Context keys.
const (
	CtxCrop      = "crop"
	CtxImage     = "image"
	CtxOperation = "operation"
	CtxReason    = "reason"
	CtxScreen    = "screen"
)

// Sentinels for errors.Is; only the code is compared.
var (
	ErrNotFound     = &DomainError{Code: CodeNotFound}
	ErrValidation   = &DomainError{Code: CodeValidationError}
	ErrPrecondition = &DomainError{Code: CodePreconditionFailed}
	ErrRateLimited  = &DomainError{Code: CodeRateLimited}
)

type DomainError struct {
	Code    ErrorCode
	Message string
	Err     error
	Context map[string]string
}

func (e *DomainError) WithContext(key, value string) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// Error renders "[CODE] message: cause {k=v ...}" with context keys sorted.
// An annotation without a message renders as its cause plus the context.
func (e *DomainError) Error() string {
	var b strings.Builder
	switch {
	case e.Message == "" && e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString("[")
		b.WriteString(string(e.Code))
		b.WriteString("] ")
		b.WriteString(e.Message)
		if e.Err != nil {
			b.WriteString(": ")
			b.WriteString(e.Err.Error())
		}
	}
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(e.Context[k])
		}
		b.WriteString("}")
	}
	return b.String()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func New(code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg}
}

func Wrap(err error, code ErrorCode, msg string) error {
	return &DomainError{Code: code, Message: msg, Err: err}
}

// Precondition reports a caller bug such as a missing image or an unknown crop.
func Precondition(operation, msg string) *DomainError {
	de := &DomainError{Code: CodePreconditionFailed, Message: msg}
	return de.WithContext(CtxOperation, operation)
}

// AddContext returns err annotated with key=value and never mutates err. A
// DomainError is copied with the merged context. A chain that only contains
// one deeper down gets a message-less wrapper carrying the same code. Foreign
// errors are wrapped as internal.
func AddContext(err error, key, value string) error {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DomainError); ok {
		cp := *de
		cp.Context = make(map[string]string, len(de.Context)+1)
		for k, v := range de.Context {
			cp.Context[k] = v
		}
		return cp.WithContext(key, value)
	}
	var inner *DomainError
	if errors.As(err, &inner) {
		return (&DomainError{Code: inner.Code, Err: err}).WithContext(key, value)
	}
	return (&DomainError{Code: CodeInternal, Message: "unexpected error", Err: err}).WithContext(key, value)
}

// ContextValue returns the first value recorded under key along err's chain.
func ContextValue(err error, key string) string {
	for err != nil {
		if de, ok := err.(*DomainError); ok {
			if v, ok := de.Context[key]; ok {
				return v
			}
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// CodeOf returns the code of the outermost DomainError in the chain, or
// CodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsCode compares against the outermost code only, so a validation error
// wrapped as a precondition failure reports as the latter.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
