package uncertain

import (
	"strconv"

	apperrors "github.com/louisbranch/airfoil/internal/platform/errors"
)

// ErrInvalidParameter indicates distribution parameters that describe no
// valid distribution (negative stddev, low > high, non-finite values).
var ErrInvalidParameter = apperrors.New(apperrors.CodeInvalidParameter, "invalid distribution parameter")

// ErrEmptyInput indicates an empirical distribution was requested without samples.
var ErrEmptyInput = apperrors.New(apperrors.CodeEmptyInput, "at least one sample must be provided")

// ErrDivisionByZero indicates every divisor sample of a division was zero.
var ErrDivisionByZero = apperrors.New(apperrors.CodeDivisionByZero, "division by zero")

func invalidParameter(message string, params ...float64) error {
	metadata := make(map[string]string, len(params))
	for i, p := range params {
		metadata["arg"+strconv.Itoa(i)] = strconv.FormatFloat(p, 'g', -1, 64)
	}
	return apperrors.WithMetadata(apperrors.CodeInvalidParameter, message, metadata)
}
