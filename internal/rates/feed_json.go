package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultJSONFeedURL is the CNB REST endpoint serving the same daily table
// as JSON.
const DefaultJSONFeedURL = "https://api.cnb.cz/cnbapi/exrates/daily"

// JSONFeed fetches the JSON variant of the daily publication. The text feed
// is the canonical format; this client exists for deployments that prefer
// the REST endpoint and is selected via configuration.
type JSONFeed struct {
	baseURL string
	client  *http.Client
}

func NewJSONFeed(rawURL string, timeout time.Duration) *JSONFeed {
	if rawURL == "" {
		rawURL = DefaultJSONFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &JSONFeed{
		baseURL: rawURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type jsonRate struct {
	ValidFor     string  `json:"validFor"`
	Country      string  `json:"country"`
	Currency     string  `json:"currency"`
	Amount       int     `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	Rate         float64 `json:"rate"`
}

type jsonDocument struct {
	Rates []jsonRate `json:"rates"`
}

func (f *JSONFeed) Daily(ctx context.Context, date time.Time) (*Table, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("date", date.Format("2006-01-02"))
	u.RawQuery = q.Encode()
	return f.fetch(ctx, u.String())
}

func (f *JSONFeed) Latest(ctx context.Context) (*Table, error) {
	return f.fetch(ctx, f.baseURL)
}

func (f *JSONFeed) fetch(ctx context.Context, fetchURL string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch rate table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch rate table: bad status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}

	var doc jsonDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode rate table: %w", err)
	}
	if len(doc.Rates) == 0 {
		return nil, errEmptyTable
	}

	var tableDate time.Time
	entries := make([]Entry, 0, len(doc.Rates))
	for _, r := range doc.Rates {
		if tableDate.IsZero() && r.ValidFor != "" {
			if d, err := time.Parse("2006-01-02", r.ValidFor); err == nil {
				tableDate = d
			}
		}
		entries = append(entries, Entry{
			Country: r.Country,
			Name:    r.Currency,
			Code:    r.CurrencyCode,
			Amount:  r.Amount,
			Rate:    r.Rate,
		})
	}

	t := NewTable(tableDate, entries)
	if t.Len() == 0 {
		return nil, errEmptyTable
	}
	return t, nil
}
