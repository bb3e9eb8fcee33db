package collector

import (
	"context"
	"fmt"
	"time"

	"FxHedger/internal/model"
)

// Fetcher is a source of daily closing prices.
// FetchPrices returns adjusted closes (raw closes when no adjusted series
// exists) for every trading day in [start, end], both ends inclusive.
type Fetcher interface {
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.TimeSeries[float64], error)
	Name() string
}

// Reasons reported in DataSourceError.
const (
	ReasonNotFound  = "ticker not found"
	ReasonNoData    = "no data in range"
	ReasonTransport = "request failed"
	ReasonStatus    = "unexpected status"
	ReasonDecode    = "malformed response"
)

// DataSourceError is returned by fetchers for any failure to obtain prices.
type DataSourceError struct {
	Source string
	Ticker string
	Reason string
	Err    error
}

func (e *DataSourceError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", e.Source, e.Ticker, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// inRange keeps bars whose session date lies within [start, end].
func inRange(bars []model.Bar, start, end time.Time) []model.Bar {
	from := model.SessionDate(start, 0)
	to := model.SessionDate(end, 0)
	out := bars[:0]
	for _, b := range bars {
		if b.Time.Before(from) || b.Time.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
