package model

import "time"

// Bar represents a single daily closing observation from a data source.
type Bar struct {
	Time     time.Time
	Close    float64
	AdjClose float64 // 0 when the source has no adjusted series
}

// Price returns the adjusted close, falling back to the raw close.
func (b Bar) Price() float64 {
	if b.AdjClose > 0 {
		return b.AdjClose
	}
	return b.Close
}

// SessionDate truncates t to the calendar date it falls on at the given
// UTC offset (seconds), expressed as midnight UTC.
func SessionDate(t time.Time, gmtOffset int) time.Time {
	local := t.UTC().Add(time.Duration(gmtOffset) * time.Second)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
