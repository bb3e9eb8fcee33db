package model

import "time"

// DateLayout is the ISO calendar date format used on the command line and in exports.
const DateLayout = "2006-01-02"

// AlignedPair holds two return sequences restricted to their common dates.
// Element i of Commodity and Forex belong to Dates[i].
type AlignedPair struct {
	Dates     []time.Time
	Commodity []float64
	Forex     []float64
}

func (p AlignedPair) Len() int { return len(p.Dates) }

// HedgeResult is the outcome of one hedging session.
type HedgeResult struct {
	CommodityTicker     string
	ForexTicker         string
	Start               time.Time
	End                 time.Time
	Exposure            float64
	HedgeRatio          float64
	Correlation         float64 // -1.0 ~ 1.0
	RecommendedExposure float64
	Pair                AlignedPair
}
