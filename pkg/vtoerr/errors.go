// Package vtoerr defines the error kinds returned by the calculation core.
//
// The core only fails on contract violations such as an unknown enumeration
// key. Numeric edge cases (zero discrepancy, zero growth, out-of-range
// durations) are never errors.
//
//	if errors.Is(err, vtoerr.ErrInvalidArgument) {
//	    // reject the request as a client error
//	}
package vtoerr

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a caller supplies a value outside a
// closed set (growth stage, sex, percentile, treatment goal) or a negative
// custom growth rate.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgument wraps ErrInvalidArgument with a formatted message.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
