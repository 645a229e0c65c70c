package lti

import "errors"

var (
	// ErrImproper indicates a transfer function whose numerator degree
	// exceeds its denominator degree; such systems have no state-space
	// realization.
	ErrImproper = errors.New("lti: improper transfer function (numerator degree exceeds denominator)")
)
