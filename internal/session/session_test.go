package session

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FxHedger/internal/calculator"
	"FxHedger/internal/collector"
	"FxHedger/internal/model"
)

var start = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func prices(values ...float64) model.TimeSeries[float64] {
	points := make([]model.Point[float64], len(values))
	for i, v := range values {
		points[i] = model.Point[float64]{Time: start.AddDate(0, 0, i), Value: v}
	}
	return model.TimeSeries[float64]{Points: points}
}

func newTestSession(series map[string]model.TimeSeries[float64], errs map[string]error) *Session {
	return NewSession(collector.NewCollector(&collector.MockFetcher{Series: series, Errors: errs}))
}

func request(exposure float64) Request {
	return Request{
		Exposure:        exposure,
		CommodityTicker: "CL=F",
		ForexTicker:     "EURUSD=X",
		Start:           start,
		End:             start.AddDate(0, 0, 3),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	s := newTestSession(map[string]model.TimeSeries[float64]{
		"CL=F":     prices(100, 101, 99, 102),
		"EURUSD=X": prices(1.10, 1.11, 1.09, 1.12),
	}, nil)

	res, err := s.Run(context.Background(), request(10000))
	require.NoError(t, err)

	assert.Equal(t, "CL=F", res.CommodityTicker)
	assert.Equal(t, "EURUSD=X", res.ForexTicker)
	assert.Equal(t, 3, res.Pair.Len())
	assert.InDelta(t, 0.01, res.Pair.Commodity[0], 1e-12)
	assert.InDelta(t, 0.00909, res.Pair.Forex[0], 1e-5)
	assert.InDelta(t, 1.1002, res.HedgeRatio, 1e-4)
	assert.InDelta(t, 0.9999, res.Correlation, 1e-4)
	assert.InDelta(t, 11001.53, res.RecommendedExposure, 0.01)
	assert.Equal(t, res.Exposure*res.HedgeRatio, res.RecommendedExposure)
}

func TestRun_ShortExposure(t *testing.T) {
	s := newTestSession(map[string]model.TimeSeries[float64]{
		"CL=F":     prices(100, 101, 99, 102),
		"EURUSD=X": prices(1.10, 1.11, 1.09, 1.12),
	}, nil)

	res, err := s.Run(context.Background(), request(-5000))
	require.NoError(t, err)
	assert.Less(t, res.RecommendedExposure, 0.0)
}

func TestRun_InvalidRequest(t *testing.T) {
	s := newTestSession(nil, nil)
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"nan exposure", func(r *Request) { r.Exposure = math.NaN() }},
		{"inf exposure", func(r *Request) { r.Exposure = math.Inf(-1) }},
		{"blank commodity", func(r *Request) { r.CommodityTicker = "  " }},
		{"blank forex", func(r *Request) { r.ForexTicker = "" }},
		{"reversed dates", func(r *Request) { r.Start, r.End = r.End, r.Start }},
		{"equal dates", func(r *Request) { r.End = r.Start }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request(1000)
			tt.mutate(&req)
			_, err := s.Run(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRun_DataSourceErrorPropagatesUnchanged(t *testing.T) {
	dsErr := &collector.DataSourceError{Source: "mock", Ticker: "EURUSD=X", Reason: collector.ReasonNotFound}
	s := newTestSession(map[string]model.TimeSeries[float64]{
		"CL=F": prices(100, 101, 99, 102),
	}, map[string]error{"EURUSD=X": dsErr})

	res, err := s.Run(context.Background(), request(10000))
	assert.Nil(t, res)
	assert.Same(t, dsErr, err)
}

func TestRun_PipelineErrors(t *testing.T) {
	tests := []struct {
		name      string
		commodity model.TimeSeries[float64]
		forex     model.TimeSeries[float64]
		want      error
	}{
		{"zero price", prices(100, 0, 99, 102), prices(1.10, 1.11, 1.09, 1.12), calculator.ErrInvalidPriceData},
		{"overflowing return", prices(1e-200, 1e150, 2e-200, 3e150), prices(1.10, 1.11, 1.09, 1.12), calculator.ErrInvalidPriceData},
		{"single price", prices(100), prices(1.10, 1.11, 1.09, 1.12), calculator.ErrInsufficientData},
		{"flat forex", prices(100, 101, 99, 102), prices(1.10, 1.10, 1.10, 1.10), calculator.ErrDegenerateVariance},
		{"flat commodity", prices(100, 100, 100, 100), prices(1.10, 1.11, 1.09, 1.12), calculator.ErrDegenerateVariance},
		{
			"one shared date",
			prices(100, 101, 99),
			model.TimeSeries[float64]{Points: []model.Point[float64]{
				{Time: start.AddDate(0, 0, 1), Value: 1.10},
				{Time: start.AddDate(0, 0, 2), Value: 1.11},
				{Time: start.AddDate(0, 0, 9), Value: 1.09},
			}},
			calculator.ErrInsufficientOverlap,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(map[string]model.TimeSeries[float64]{"CL=F": tt.commodity, "EURUSD=X": tt.forex}, nil)
			res, err := s.Run(context.Background(), request(10000))
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
