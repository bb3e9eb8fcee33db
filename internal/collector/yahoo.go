package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"FxHedger/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Limiter   *rate.Limiter
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. rps <= 0 disables pacing.
func NewYahooFetcher(proxyURL string, rps float64, aliases map[string]string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	symbols := map[string]string{
		"WTI":    "CL=F",
		"BRENT":  "BZ=F",
		"GOLD":   "GC=F",
		"SILVER": "SI=F",
		"NATGAS": "NG=F",
		"COPPER": "HG=F",
	}
	for k, v := range aliases {
		symbols[strings.ToUpper(k)] = v
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter:   limiter,
		SymbolMap: symbols,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int    `json:"gmtoffset"`
				Timezone  string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func valueAt(vals []*float64, i int) float64 {
	if i >= len(vals) || vals[i] == nil {
		return 0
	}
	return *vals[i]
}

// FetchPrices downloads daily bars for ticker and returns the closing series.
func (f *YahooFetcher) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.TimeSeries[float64], error) {
	fail := func(reason string, err error) (model.TimeSeries[float64], error) {
		return model.TimeSeries[float64]{}, &DataSourceError{Source: f.Name(), Ticker: ticker, Reason: reason, Err: err}
	}

	if err := f.Limiter.Wait(ctx); err != nil {
		return fail(ReasonTransport, err)
	}

	// period2 is exclusive on Yahoo's side; push it past the end date.
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div%%2Csplits&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(f.yahooSymbol(ticker)),
		model.SessionDate(start, 0).Unix(), model.SessionDate(end, 0).AddDate(0, 0, 1).Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(ReasonTransport, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fail(ReasonTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(ReasonTransport, err)
	}

	var chart yahooChart
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		reason := ReasonStatus
		if resp.StatusCode == http.StatusNotFound || chart.Chart.Error.Code == "Not Found" {
			reason = ReasonNotFound
		}
		return fail(reason, errors.New(chart.Chart.Error.Description))
	}
	if resp.StatusCode == http.StatusNotFound {
		return fail(ReasonNotFound, fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return fail(ReasonStatus, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}
	if decodeErr != nil {
		return fail(ReasonDecode, decodeErr)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return fail(ReasonNoData, nil)
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	var adjCloses []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjCloses = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make([]model.Bar, 0, len(result.Timestamp))
	sessionDate := sessionDater(result.Meta.Timezone, result.Meta.GMTOffset)
	index := make(map[time.Time]int, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := valueAt(closes, i)
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		date := sessionDate(ts)
		bar := model.Bar{Time: date, Close: c, AdjClose: valueAt(adjCloses, i)}
		// Yahoo may append a live intraday bar sharing the last session date; the later one wins.
		if j, ok := index[date]; ok {
			bars[j] = bar
			continue
		}
		index[date] = len(bars)
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	bars = inRange(bars, start, end)
	if len(bars) == 0 {
		return fail(ReasonNoData, nil)
	}

	log.Debug().
		Str("ticker", ticker).
		Str("symbol", f.yahooSymbol(ticker)).
		Str("timezone", result.Meta.Timezone).
		Int("bars", len(bars)).
		Msg("yahoo prices fetched")

	series, err := model.FromBars(bars)
	if err != nil {
		return fail(ReasonDecode, err)
	}
	return series, nil
}

// sessionDater dates bars in the exchange's time zone so each bar gets the
// offset in force on its own day. gmtoffset is the offset at request time and
// is only used when the zone is unknown.
func sessionDater(zone string, gmtOffset int) func(ts int64) time.Time {
	loc, err := time.LoadLocation(zone)
	if zone == "" || err != nil {
		if zone != "" {
			log.Warn().Err(err).Str("timezone", zone).Msg("unknown exchange timezone, using gmtoffset")
		}
		return func(ts int64) time.Time { return model.SessionDate(time.Unix(ts, 0), gmtOffset) }
	}
	return func(ts int64) time.Time {
		local := time.Unix(ts, 0).In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	}
}
