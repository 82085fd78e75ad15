package safejson

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
//
// Faults inside the input graph are never reported through these errors;
// they are written into the output as markers.
var (
	// ErrInvalidOption indicates an option was given an unusable value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrUndefined indicates the root value has no JSON representation,
	// either because of its kind or because a Replacer discarded it.
	ErrUndefined = errors.New("value is undefined")

	// ErrCircular indicates a tree given to the encoder contains itself.
	// Sanitized trees never do; the tree came from Encode or a Replacer.
	ErrCircular = errors.New("circular structure")

	// ErrNesting indicates a tree given to the encoder is nested deeper than
	// the encoder will write.
	ErrNesting = errors.New("nesting too deep")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")
)

// ConfigError represents an option configuration error.
// It wraps a sentinel error with the offending option and value.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrInvalidOption)
	Option string // Option that was rejected
	Value  string // Rejected value, rendered for humans
}

func (e *ConfigError) Error() string {
	if e.Option != "" && e.Value != "" {
		return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Option, e.Value)
	}
	if e.Option != "" {
		return fmt.Sprintf("%s %s", e.Err.Error(), e.Option)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for a rejected option value.
func newConfigError(option string, value any) error {
	return &ConfigError{
		Err:    ErrInvalidOption,
		Option: option,
		Value:  fmt.Sprint(value),
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
