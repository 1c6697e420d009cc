package validate

import (
	"errors"
	"fmt"
)

// Kind categorizes validation failures.
type Kind string

const (
	// KindMissingArgument: a formal parameter has no available value.
	KindMissingArgument Kind = "MissingArgument"

	// KindUnexpectedArgument: an available value has no formal parameter.
	KindUnexpectedArgument Kind = "UnexpectedArgument"

	// KindMissingReadySentinel: no ReadyToTest action is reachable.
	KindMissingReadySentinel Kind = "MissingReadySentinel"

	// KindGeneratorError: the generator returned an error or no tree.
	KindGeneratorError Kind = "GeneratorError"
)

// Validation error codes (E201-E209)
const (
	ErrCodeMissingArgument      = "E201"
	ErrCodeUnexpectedArgument   = "E202"
	ErrCodeMissingReadySentinel = "E203"
	ErrCodeGeneratorError       = "E204"
)

// SentinelName is the Name reported by a MissingReadySentinel failure.
const SentinelName = "missing sentinel"

// Failure is a terminal validation result for one test run.
type Failure struct {
	Kind Kind
	Code string

	// Name is the offending identifier: a parameter name, or SentinelName.
	Name string

	// Message is the user-facing diagnosis. It always contains Name.
	Message string

	// Err is the underlying generator error, if any.
	Err error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newMissingArgument(generator, param string) *Failure {
	return &Failure{
		Kind:    KindMissingArgument,
		Code:    ErrCodeMissingArgument,
		Name:    param,
		Message: fmt.Sprintf("generator %q has unexpected extra argument '%s' with no value available", generator, param),
	}
}

func newUnexpectedArgument(generator, param string) *Failure {
	return &Failure{
		Kind:    KindUnexpectedArgument,
		Code:    ErrCodeUnexpectedArgument,
		Name:    param,
		Message: fmt.Sprintf("Could not find an argument '%s' in generator %q signature", param, generator),
	}
}

func newMissingReadySentinel() *Failure {
	return &Failure{
		Kind:    KindMissingReadySentinel,
		Code:    ErrCodeMissingReadySentinel,
		Name:    SentinelName,
		Message: "generate_test_description must return a description containing a ReadyToTest action (directly or nested at any depth): " + SentinelName,
	}
}

func newGeneratorError(generator string, err error) *Failure {
	msg := fmt.Sprintf("generator %q returned no description", generator)
	if err != nil {
		msg = fmt.Sprintf("generator %q failed: %v", generator, err)
	}
	return &Failure{
		Kind:    KindGeneratorError,
		Code:    ErrCodeGeneratorError,
		Name:    generator,
		Message: msg,
		Err:     err,
	}
}

// KindOf returns the failure kind of err, or "" if err is not a *Failure.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// IsMissingArgument reports whether err is a MissingArgument failure.
func IsMissingArgument(err error) bool { return KindOf(err) == KindMissingArgument }

// IsUnexpectedArgument reports whether err is an UnexpectedArgument failure.
func IsUnexpectedArgument(err error) bool { return KindOf(err) == KindUnexpectedArgument }

// IsMissingReadySentinel reports whether err is a MissingReadySentinel failure.
func IsMissingReadySentinel(err error) bool { return KindOf(err) == KindMissingReadySentinel }
