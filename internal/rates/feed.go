package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Feed retrieves a parsed daily rate table from the publication source.
// Daily asks for the table published for a specific date; Latest asks for
// whatever the source currently publishes, with no date parameter.
type Feed interface {
	Daily(ctx context.Context, date time.Time) (*Table, error)
	Latest(ctx context.Context) (*Table, error)
}

// DefaultTextFeedURL is the CNB pipe-delimited daily publication.
const DefaultTextFeedURL = "https://www.cnb.cz/cs/financni-trhy/devizovy-trh/kurzy-devizoveho-trhu/kurzy-devizoveho-trhu/denni_kurz.txt"

// TextFeed fetches the pipe-delimited text publication. This is the
// canonical wire format; see ParseTable for the line grammar.
type TextFeed struct {
	baseURL string
	client  *http.Client
}

// NewTextFeed creates a text-feed client. An empty url selects the CNB
// endpoint; timeout applies per fetch.
func NewTextFeed(rawURL string, timeout time.Duration) *TextFeed {
	if rawURL == "" {
		rawURL = DefaultTextFeedURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TextFeed{
		baseURL: rawURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *TextFeed) Daily(ctx context.Context, date time.Time) (*Table, error) {
	u, err := url.Parse(f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	q := u.Query()
	q.Set("date", date.Format("02.01.2006"))
	u.RawQuery = q.Encode()
	return f.fetch(ctx, u.String())
}

func (f *TextFeed) Latest(ctx context.Context) (*Table, error) {
	return f.fetch(ctx, f.baseURL)
}

func (f *TextFeed) fetch(ctx context.Context, fetchURL string) (*Table, error) {
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

	// The document is a few KB; cap reads to keep a misbehaving server from
	// holding the walk hostage.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read rate table: %w", err)
	}

	return ParseTable(string(body))
}
