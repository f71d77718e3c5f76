package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
)

// NumericalInstabilityError reports NaN or Inf values found in an input
// that must be finite, such as a feature matrix handed to Train.
type NumericalInstabilityError struct {
	Operation string    // where the values were found, e.g. "tree.Train"
	Values    []float64 // offending values, at most maxReportedValues
	Index     int       // flat index of the first offending value
}

const maxReportedValues = 10

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("dtree: non-finite values detected in %s starting at index %d. Values: [%s]",
		e.Operation, e.Index, valStr)
}

// NewNumericalInstabilityError creates a NumericalInstabilityError with a stack trace.
func NewNumericalInstabilityError(operation string, values []float64, index int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Index:     index,
	}
	return errors.WithStack(err)
}

// CheckNumericalStability checks if values contain NaN or Inf
// and returns an error if any are found.
func CheckNumericalStability(operation string, values []float64) error {
	first := -1
	var unstable []float64
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if first < 0 {
				first = i
			}
			unstable = append(unstable, v)
			if len(unstable) >= maxReportedValues {
				break
			}
		}
	}
	if first >= 0 {
		return NewNumericalInstabilityError(operation, unstable, first)
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
