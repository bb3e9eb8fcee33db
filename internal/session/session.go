package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"FxHedger/internal/calculator"
	"FxHedger/internal/collector"
	"FxHedger/internal/model"
)

var ErrInvalidRequest = errors.New("invalid request")

// Request describes one hedge estimation.
type Request struct {
	Exposure        float64 // commodity exposure in currency units; negative for short
	CommodityTicker string
	ForexTicker     string
	Start           time.Time
	End             time.Time
}

// Validate checks the request before any data is fetched.
func (r Request) Validate() error {
	if math.IsNaN(r.Exposure) || math.IsInf(r.Exposure, 0) {
		return fmt.Errorf("%w: exposure must be finite", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.CommodityTicker) == "" {
		return fmt.Errorf("%w: commodity ticker is required", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.ForexTicker) == "" {
		return fmt.Errorf("%w: forex ticker is required", ErrInvalidRequest)
	}
	if !r.Start.Before(r.End) {
		return fmt.Errorf("%w: start date %s must be before end date %s",
			ErrInvalidRequest, r.Start.Format(model.DateLayout), r.End.Format(model.DateLayout))
	}
	return nil
}

// Session runs the hedge pipeline against a price source.
type Session struct {
	Collector *collector.Collector
}

// NewSession creates a new Session.
func NewSession(col *collector.Collector) *Session {
	return &Session{Collector: col}
}

// Run fetches both legs, estimates the hedge ratio and correlation of their
// returns and sizes the offsetting forex exposure. Any failure aborts the run.
// Data source errors are returned unwrapped.
func (s *Session) Run(ctx context.Context, req Request) (*model.HedgeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	commodityTicker := strings.TrimSpace(req.CommodityTicker)
	forexTicker := strings.TrimSpace(req.ForexTicker)

	commodityPrices, forexPrices, err := s.Collector.FetchPair(ctx, commodityTicker, forexTicker, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	commodityReturns, err := calculator.ComputeReturns(commodityPrices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", commodityTicker, err)
	}
	forexReturns, err := calculator.ComputeReturns(forexPrices)
	if err != nil {
		return nil, fmt.Errorf("%s returns: %w", forexTicker, err)
	}

	pair, err := calculator.Align(commodityReturns, forexReturns)
	if err != nil {
		return nil, fmt.Errorf("align %s/%s: %w", commodityTicker, forexTicker, err)
	}

	ratio, err := calculator.HedgeRatio(pair)
	if err != nil {
		return nil, fmt.Errorf("hedge ratio: %w", err)
	}
	corr, err := calculator.Correlation(pair)
	if err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}

	log.Info().
		Int("observations", pair.Len()).
		Float64("hedge_ratio", ratio).
		Float64("correlation", corr).
		Msg("hedge estimated")

	return &model.HedgeResult{
		CommodityTicker:     commodityTicker,
		ForexTicker:         forexTicker,
		Start:               req.Start,
		End:                 req.End,
		Exposure:            req.Exposure,
		HedgeRatio:          ratio,
		Correlation:         corr,
		RecommendedExposure: req.Exposure * ratio,
		Pair:                pair,
	}, nil
}
