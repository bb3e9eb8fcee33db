package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"FxHedger/internal/model"
)

// RESTFetcher implements Fetcher against a generic daily-bar REST API.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bar API.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
	AdjClose  float64 `json:"adj_close"`
}

func (f *RESTFetcher) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (model.TimeSeries[float64], error) {
	fail := func(reason string, err error) (model.TimeSeries[float64], error) {
		return model.TimeSeries[float64]{}, &DataSourceError{Source: f.Name(), Ticker: ticker, Reason: reason, Err: err}
	}

	q := url.Values{}
	q.Set("symbol", ticker)
	q.Set("from", start.Format(model.DateLayout))
	q.Set("to", end.Format(model.DateLayout))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fail(ReasonTransport, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fail(ReasonTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fail(ReasonNotFound, nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return fail(ReasonStatus, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return fail(ReasonDecode, err)
	}
	bars := make([]model.Bar, 0, len(raw))
	for _, rb := range raw {
		if rb.Close == 0 && rb.AdjClose == 0 {
			continue
		}
		bars = append(bars, model.Bar{
			Time:     model.SessionDate(time.Unix(rb.Timestamp, 0), 0),
			Close:    rb.Close,
			AdjClose: rb.AdjClose,
		})
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	bars = inRange(bars, start, end)
	if len(bars) == 0 {
		return fail(ReasonNoData, nil)
	}

	log.Debug().Str("ticker", ticker).Int("bars", len(bars)).Msg("rest prices fetched")

	series, err := model.FromBars(bars)
	if err != nil {
		return fail(ReasonDecode, err)
	}
	return series, nil
}
