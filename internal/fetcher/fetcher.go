package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/bom-oscars/internal/logger"
)

const (
	DefaultBaseURL   = "http://www.boxofficemojo.com"
	DefaultUserAgent = "bom-oscars/1.0 (github.com/pfrederiksen/bom-oscars)"
)

// HTTPStatusError reports a response with a non-2xx status code.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// Fetcher retrieves pages and parses them into documents.
type Fetcher struct {
	client    *http.Client
	userAgent string
	metrics   *logger.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets a client timeout. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua = strings.TrimSpace(ua); ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithMetrics records page counts and fetch timings on m.
func WithMetrics(m *logger.Metrics) Option {
	return func(f *Fetcher) {
		f.metrics = m
	}
}

// New creates a Fetcher. Without options the client has no timeout.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch GETs url and parses the body as HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, FixURL(url), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	// Decode per the declared charset; pages without one are sniffed.
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if f.metrics != nil {
		f.metrics.IncrCounter("pages.fetched")
		f.metrics.RecordTiming("fetch", time.Since(start))
	}

	return doc, nil
}

// FixURL escapes non-breaking spaces, which appear in some movie paths.
func FixURL(u string) string {
	return strings.ReplaceAll(u, "\u00a0", "%A0")
}

// JoinURL appends path to base without doubling the separating slash.
func JoinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
