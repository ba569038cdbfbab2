// Package universe resolves the list of tickers an analysis run covers.
// The default source is the S&P 500 constituents table on Wikipedia, with a
// built-in fallback list of major components when the page cannot be
// fetched or parsed.
package universe

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultSourceURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// SP500 lists S&P 500 constituents.
type SP500 struct {
	client    *http.Client
	sourceURL string
}

// Option customizes an SP500 universe.
type Option func(*SP500)

// WithSourceURL overrides the constituents page URL.
func WithSourceURL(url string) Option {
	return func(u *SP500) { u.sourceURL = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(u *SP500) { u.client = client }
}

// NewSP500 creates the universe source.
func NewSP500(opts ...Option) *SP500 {
	u := &SP500{
		client:    &http.Client{Timeout: 10 * time.Second},
		sourceURL: defaultSourceURL,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Tickers returns the constituent symbols in page order. It never fails:
// when the source cannot be fetched or parsed it returns the built-in
// fallback list.
func (u *SP500) Tickers(ctx context.Context) []string {
	tickers, err := u.fetch(ctx)
	if err != nil {
		log.Printf("[WARN] S&P 500 universe fetch failed, using fallback list: %v", err)
		return FallbackTickers()
	}
	return tickers
}

func (u *SP500) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.sourceURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("universe source returned status %d", resp.StatusCode)
	}

	return ParseConstituents(resp.Body)
}

// ParseConstituents extracts ticker symbols from the constituents page HTML.
// It reads the first column of the table with id "constituents", falling
// back to the first wikitable on the page. Symbols are normalized for the
// quote provider (class shares use "-" rather than "."), and duplicates are
// dropped preserving first occurrence.
func ParseConstituents(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	table := doc.Find("table#constituents").First()
	if table.Length() == 0 {
		table = doc.Find("table.wikitable").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("no constituents table found")
	}

	seen := make(map[string]bool)
	var tickers []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		if cell.Length() == 0 {
			return // header row
		}
		ticker := NormalizeTicker(cell.Text())
		if ticker == "" || seen[ticker] {
			return
		}
		seen[ticker] = true
		tickers = append(tickers, ticker)
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("constituents table had no ticker rows")
	}
	return tickers, nil
}

// NormalizeTicker trims whitespace and rewrites class-share dots to dashes
// (BRK.B → BRK-B), matching the quote provider's symbol convention.
func NormalizeTicker(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ".", "-")
}
