package calculator

import (
	"fmt"
	"sort"
	"time"

	"FxHedger/internal/model"
)

// Align restricts both return series to the dates they share, in ascending
// date order. At least two shared dates are required.
func Align(commodity, forex model.TimeSeries[float64]) (model.AlignedPair, error) {
	forexByDate := make(map[time.Time]float64, forex.Len())
	for _, p := range forex.Points {
		forexByDate[dateKey(p.Time)] = p.Value
	}

	type row struct {
		date      time.Time
		commodity float64
		forex     float64
	}
	seen := make(map[time.Time]bool, commodity.Len())
	rows := make([]row, 0, min(commodity.Len(), forex.Len()))
	for _, p := range commodity.Points {
		key := dateKey(p.Time)
		fx, ok := forexByDate[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		rows = append(rows, row{date: key, commodity: p.Value, forex: fx})
	}

	if len(rows) < 2 {
		return model.AlignedPair{}, fmt.Errorf("%w: %d shared", ErrInsufficientOverlap, len(rows))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].date.Before(rows[j].date) })

	pair := model.AlignedPair{
		Dates:     make([]time.Time, len(rows)),
		Commodity: make([]float64, len(rows)),
		Forex:     make([]float64, len(rows)),
	}
	for i, r := range rows {
		pair.Dates[i] = r.date
		pair.Commodity[i] = r.commodity
		pair.Forex[i] = r.forex
	}
	return pair, nil
}

// dateKey strips location and monotonic reading so equal instants compare equal as map keys.
func dateKey(t time.Time) time.Time {
	return t.UTC().Round(0)
}
