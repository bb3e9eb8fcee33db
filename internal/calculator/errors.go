package calculator

import "errors"

var (
	ErrInsufficientData    = errors.New("not enough data points")
	ErrInvalidPriceData    = errors.New("invalid price data")
	ErrInsufficientOverlap = errors.New("fewer than 2 overlapping dates")
	ErrDegenerateVariance  = errors.New("degenerate variance")
)

// VarianceEpsilon is the variance at or below which a series is treated as constant.
const VarianceEpsilon = 1e-18
