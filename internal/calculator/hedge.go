package calculator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"FxHedger/internal/model"
)

// HedgeRatio returns cov(commodity, forex) / var(forex).
// Both moments use the sample (n-1) normalization so it cancels in the ratio.
func HedgeRatio(pair model.AlignedPair) (float64, error) {
	if err := checkPair(pair); err != nil {
		return 0, err
	}
	variance := stat.Variance(pair.Forex, nil)
	if err := checkVariance("forex", variance); err != nil {
		return 0, err
	}
	ratio := stat.Covariance(pair.Commodity, pair.Forex, nil) / variance
	if !finite(ratio) {
		return 0, fmt.Errorf("%w: hedge ratio is not finite", ErrDegenerateVariance)
	}
	return ratio, nil
}

// Correlation returns the Pearson correlation of the two return sequences.
func Correlation(pair model.AlignedPair) (float64, error) {
	if err := checkPair(pair); err != nil {
		return 0, err
	}
	varC := stat.Variance(pair.Commodity, nil)
	if err := checkVariance("commodity", varC); err != nil {
		return 0, err
	}
	varF := stat.Variance(pair.Forex, nil)
	if err := checkVariance("forex", varF); err != nil {
		return 0, err
	}

	r := stat.Covariance(pair.Commodity, pair.Forex, nil) / (math.Sqrt(varC) * math.Sqrt(varF))
	if math.IsNaN(r) {
		return 0, fmt.Errorf("%w: correlation is not finite", ErrDegenerateVariance)
	}
	return math.Max(-1, math.Min(1, r)), nil
}

// checkVariance rejects constant legs and moments that overflowed.
func checkVariance(leg string, v float64) error {
	if !finite(v) {
		return fmt.Errorf("%w: %s return variance is not finite", ErrDegenerateVariance, leg)
	}
	if v <= VarianceEpsilon {
		return fmt.Errorf("%w: %s returns are constant", ErrDegenerateVariance, leg)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func checkPair(pair model.AlignedPair) error {
	if len(pair.Commodity) != len(pair.Forex) {
		return fmt.Errorf("%w: length mismatch %d vs %d", ErrInsufficientOverlap, len(pair.Commodity), len(pair.Forex))
	}
	if len(pair.Forex) < 2 {
		return fmt.Errorf("%w: %d observations", ErrInsufficientOverlap, len(pair.Forex))
	}
	return nil
}
