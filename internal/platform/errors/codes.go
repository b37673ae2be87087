// Package errors provides structured, code-matched errors.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Distribution errors
	CodeInvalidParameter Code = "INVALID_PARAMETER"
	CodeEmptyInput       Code = "EMPTY_INPUT"
	CodeDivisionByZero   Code = "DIVISION_BY_ZERO"

	// Storage errors
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
)

// Fatal reports whether an error with this code must stop the caller.
// Division by zero is recovered per sample and only surfaces when no
// sample survives, so callers may report it and continue with other work.
func (c Code) Fatal() bool {
	switch c {
	case CodeInvalidParameter, CodeEmptyInput:
		return true
	default:
		return false
	}
}
