package collector

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"FxHedger/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Tickers without an entry in Series get a generated price path.
type MockFetcher struct {
	Price  float64
	Series map[string]model.TimeSeries[float64]
	Errors map[string]error
	Calls  []string

	mu sync.Mutex
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPrices(_ context.Context, ticker string, start, end time.Time) (model.TimeSeries[float64], error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, ticker)
	m.mu.Unlock()
	if err, ok := m.Errors[ticker]; ok {
		return model.TimeSeries[float64]{}, err
	}
	if s, ok := m.Series[ticker]; ok {
		return s, nil
	}
	base := m.Price
	if base <= 0 {
		base = 100
	}
	return generateMockSeries(ticker, base, start, end), nil
}

// generateMockSeries produces a weekday price path whose phase depends on the ticker.
func generateMockSeries(ticker string, basePrice float64, start, end time.Time) model.TimeSeries[float64] {
	h := fnv.New32a()
	h.Write([]byte(ticker))
	phase := float64(h.Sum32()%360) * math.Pi / 180

	var points []model.Point[float64]
	to := model.SessionDate(end, 0)
	for day, i := model.SessionDate(start, 0), 0; !day.After(to); day = day.AddDate(0, 0, 1) {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + 0.02*math.Sin(float64(i)*0.7+phase) + float64(i)*0.0005)
		points = append(points, model.Point[float64]{Time: day, Value: p})
		i++
	}
	return model.TimeSeries[float64]{Points: points}
}

// Collector fetches the commodity and forex legs of a hedge.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// FetchPair fetches both tickers concurrently. Both fetches run to completion;
// when both fail the commodity error is reported regardless of which failed
// first. Errors are returned as the fetcher produced them.
func (c *Collector) FetchPair(ctx context.Context, commodityTicker, forexTicker string, start, end time.Time) (commodity, forex model.TimeSeries[float64], err error) {
	var commodityErr, forexErr error
	var g errgroup.Group
	g.Go(func() error {
		commodity, commodityErr = c.Fetcher.FetchPrices(ctx, commodityTicker, start, end)
		return commodityErr
	})
	g.Go(func() error {
		forex, forexErr = c.Fetcher.FetchPrices(ctx, forexTicker, start, end)
		return forexErr
	})
	if err := g.Wait(); err != nil {
		if commodityErr != nil {
			err = commodityErr
		}
		return model.TimeSeries[float64]{}, model.TimeSeries[float64]{}, err
	}

	log.Info().
		Str("source", c.Fetcher.Name()).
		Str("commodity", commodityTicker).
		Int("commodity_prices", commodity.Len()).
		Str("forex", forexTicker).
		Int("forex_prices", forex.Len()).
		Msg("prices collected")
	return commodity, forex, nil
}
