package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData matches every *InsufficientDataError through errors.Is.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNonPositiveSeries is returned by the exponential method when a value is <= 0.
	ErrNonPositiveSeries = errors.New("exponential forecast requires strictly positive values")
	ErrUnknownMethod     = errors.New("unknown forecast method")
	ErrConfidenceLevel   = errors.New("unsupported confidence level")
)

// InsufficientDataError reports a series shorter than the method minimum.
type InsufficientDataError struct {
	Method   string
	Required int
	Actual   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s forecast: need at least %d points, got %d",
		e.Method, e.Required, e.Actual)
}

func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

func insufficient[M ~string](method M, required, actual int) error {
	return &InsufficientDataError{Method: string(method), Required: required, Actual: actual}
}

var _ error = (*InsufficientDataError)(nil)
