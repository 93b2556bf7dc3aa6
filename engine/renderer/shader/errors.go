package shader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks a shader whose source could not be pre-processed, parsed or lowered.
	ErrParse = errors.New("shader parse failed")

	// ErrValidation marks a parsed shader that is incompatible with the engine's pipeline contract.
	ErrValidation = errors.New("shader validation failed")
)

// ParseError reports a failure to turn WGSL text into a module.
type ParseError struct {
	Key string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("shader %s: parse: %v", e.Key, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// ValidationError lists every problem found while checking a parsed shader.
type ValidationError struct {
	Key      string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("shader %s: validate: %s", e.Key, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
