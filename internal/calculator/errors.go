package calculator

import "errors"

var (
	// ErrInsufficientData is returned when a price series has fewer than two points.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPrice is returned for a non-positive or non-finite price.
	ErrInvalidPrice = errors.New("invalid price")
	// ErrMisalignedSeries is returned when two return series share fewer than two days.
	ErrMisalignedSeries = errors.New("misaligned series")
	// ErrUndefinedCorrelation is returned when either series has zero variance.
	ErrUndefinedCorrelation = errors.New("undefined correlation")
)
