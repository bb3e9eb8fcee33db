package calculator

import (
	"fmt"
	"math"

	"FxHedger/internal/model"
)

// ComputeReturns converts a price series into simple returns.
// The first timestamp has no prior price and is dropped.
func ComputeReturns(prices model.TimeSeries[float64]) (model.TimeSeries[float64], error) {
	if prices.Len() < 2 {
		return model.TimeSeries[float64]{}, fmt.Errorf("%w: need at least 2 prices, got %d", ErrInsufficientData, prices.Len())
	}
	for _, p := range prices.Points {
		if !(p.Value > 0) || math.IsInf(p.Value, 1) {
			return model.TimeSeries[float64]{}, fmt.Errorf("%w: price %v on %s", ErrInvalidPriceData, p.Value, p.Time.Format(model.DateLayout))
		}
	}

	returns := make([]model.Point[float64], 0, prices.Len()-1)
	for i := 1; i < prices.Len(); i++ {
		prev, cur := prices.Points[i-1].Value, prices.Points[i].Value
		r := (cur - prev) / prev
		if math.IsInf(r, 0) || math.IsNaN(r) {
			return model.TimeSeries[float64]{}, fmt.Errorf("%w: return from %v to %v on %s overflows",
				ErrInvalidPriceData, prev, cur, prices.Points[i].Time.Format(model.DateLayout))
		}
		returns = append(returns, model.Point[float64]{Time: prices.Points[i].Time, Value: r})
	}
	return model.TimeSeries[float64]{Points: returns}, nil
}
