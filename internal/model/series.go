package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrDuplicateTimestamp = errors.New("duplicate timestamp in series")

// Point is a single timestamped observation.
type Point[T any] struct {
	Time  time.Time
	Value T
}

// TimeSeries is an ordered sequence of points with strictly increasing,
// unique timestamps.
type TimeSeries[T any] struct {
	Points []Point[T]
}

// NewTimeSeries sorts points by time and rejects duplicate timestamps.
// The input slice is not modified.
func NewTimeSeries[T any](points []Point[T]) (TimeSeries[T], error) {
	sorted := make([]Point[T], len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Time.Equal(sorted[i-1].Time) {
			return TimeSeries[T]{}, fmt.Errorf("%w: %s", ErrDuplicateTimestamp, sorted[i].Time.Format(DateLayout))
		}
	}
	return TimeSeries[T]{Points: sorted}, nil
}

// FromBars builds a price series from daily bars, one point per bar.
func FromBars(bars []Bar) (TimeSeries[float64], error) {
	points := make([]Point[float64], len(bars))
	for i, b := range bars {
		points[i] = Point[float64]{Time: b.Time, Value: b.Price()}
	}
	return NewTimeSeries(points)
}

func (s TimeSeries[T]) Len() int { return len(s.Points) }

// Times returns the timestamps in series order.
func (s TimeSeries[T]) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// Values returns the values in series order.
func (s TimeSeries[T]) Values() []T {
	out := make([]T, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}
