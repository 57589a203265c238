package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStartupLoad       = errors.New("corpus load failed")
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	ErrMisaligned        = errors.New("paragraphs and vectors are not aligned")
	ErrEmptyResult       = errors.New("no relevant paragraphs found")
	ErrInvalidInput      = errors.New("invalid input")
)

// StartupLoadError reports a missing or corrupt corpus file.
type StartupLoadError struct {
	Path string
	Err  error
}

func (e *StartupLoadError) Error() string {
	return fmt.Sprintf("load corpus %s: %v", e.Path, e.Err)
}

func (e *StartupLoadError) Unwrap() []error {
	return []error{ErrStartupLoad, e.Err}
}

// DimensionMismatchError reports vectors of the wrong length.
type DimensionMismatchError struct {
	Expected int
	Got      int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: expected %d, got %d", e.Expected, e.Got)
}

func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
