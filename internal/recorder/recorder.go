package recorder

import (
	"time"

	"FxHedger/internal/model"
)

// RunRecord is one journal entry. Failed runs carry Error and zero statistics.
type RunRecord struct {
	ID                  int64
	At                  time.Time
	Source              string
	CommodityTicker     string
	ForexTicker         string
	Start               time.Time
	End                 time.Time
	Exposure            float64
	HedgeRatio          float64
	Correlation         float64
	RecommendedExposure float64
	Observations        int
	Error               string
}

// Failed reports whether the run aborted.
func (r RunRecord) Failed() bool { return r.Error != "" }

// FromResult builds a journal entry for a successful run.
func FromResult(res *model.HedgeResult, source string) *RunRecord {
	return &RunRecord{
		At:                  time.Now(),
		Source:              source,
		CommodityTicker:     res.CommodityTicker,
		ForexTicker:         res.ForexTicker,
		Start:               res.Start,
		End:                 res.End,
		Exposure:            res.Exposure,
		HedgeRatio:          res.HedgeRatio,
		Correlation:         res.Correlation,
		RecommendedExposure: res.RecommendedExposure,
		Observations:        res.Pair.Len(),
	}
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	ListRuns(limit int) ([]RunRecord, error)
	Close() error
}
