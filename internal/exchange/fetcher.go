package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPFetcher pulls rates from a JSON endpoint shaped like the common
// exchange-rate APIs: {"date": "2026-08-30", "rates": {"USD": 1, ...}}.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given endpoint.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type ratesPayload struct {
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Fetch retrieves and decodes the rate table.
func (f *HTTPFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to build rates request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to decode rates payload: %w", err)
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		// Some providers omit or reformat the date; the table is still usable.
		date = time.Now().UTC()
	}

	rates := make(map[string]decimal.Decimal, len(payload.Rates))
	for code, rate := range payload.Rates {
		rates[code] = decimal.NewFromFloat(rate)
	}

	return rates, date, nil
}
