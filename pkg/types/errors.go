package types

import (
	"errors"
	"fmt"
	"strings"
)

// Format errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrMalformed         = errors.New("malformed input")
)

// Capability errors.
var (
	ErrUnsupportedType = errors.New("unsupported target type")
	ErrNotCastable     = errors.New("resource is not castable")
	ErrNotDecomposable = errors.New("resource is not decomposable")
	ErrEmpty           = errors.New("nothing to decompose")
	ErrPackMismatch    = errors.New("sub-resources do not match decomposition")
)

// Registry errors.
var (
	ErrUnknownType    = errors.New("unknown resource type")
	ErrDuplicateType  = errors.New("resource type already registered")
	ErrRegistryFrozen = errors.New("registry is frozen")
	ErrNotFound       = errors.New("resource not found")
	ErrAmbiguousName  = errors.New("resource name is ambiguous")
	ErrInvalidName    = errors.New("invalid resource name")
	ErrUnknownFile    = errors.New("no resource type for file extension")
)

// PackError describes why Pack rejected a set of sub-resources.
type PackError struct {
	Target   string   // Type being packed.
	Expected string   // Human-readable expected composition.
	Given    []string // Tags of the sub-resources actually supplied.

	// Index and Cause are set when a sub-resource has the right type but
	// invalid content.
	Index int
	Cause error
}

// NewPackError builds a PackError from the supplied sub-resources.
func NewPackError(target, expected string, subs []Resource) *PackError {
	given := make([]string, len(subs))
	for i, s := range subs {
		given[i] = s.Type()
	}
	return &PackError{Target: target, Expected: expected, Given: given}
}

func (e *PackError) Error() string {
	given := "nothing"
	if len(e.Given) > 0 {
		given = strings.Join(e.Given, ", ")
	}
	msg := fmt.Sprintf("pack %s: expected %s, given %s", e.Target, e.Expected, given)
	if e.Cause != nil {
		msg += fmt.Sprintf(": element %d: %v", e.Index, e.Cause)
	}
	return msg
}

// Unwrap lets errors.Is match ErrPackMismatch and the cause, if any.
func (e *PackError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrPackMismatch, e.Cause}
	}
	return []error{ErrPackMismatch}
}

// InvalidElement records that sub-resource i failed validation with cause.
func (e *PackError) InvalidElement(i int, cause error) *PackError {
	e.Index, e.Cause = i, cause
	return e
}

// Malformed wraps ErrMalformed with a description of the bad input.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
