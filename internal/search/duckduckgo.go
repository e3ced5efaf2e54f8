package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// DefaultDuckDuckGoURL is the HTML-only DuckDuckGo endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo is a Provider backed by the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	// client performs the search requests.
	client *http.Client

	// baseURL is the endpoint queried; overridden in tests.
	baseURL string

	// userAgent is the User-Agent header to use.
	userAgent string

	// region is the "kl" parameter, e.g. "fr-fr". Empty means no region.
	region string

	// maxPages bounds the number of result pages requested per search.
	maxPages int

	// limiter paces result page requests.
	limiter *rate.Limiter

	// logger reports pagination progress and failures.
	logger *slog.Logger
}

// DuckDuckGoOption configures a DuckDuckGo provider.
type DuckDuckGoOption func(*DuckDuckGo)

// WithBaseURL overrides the search endpoint.
func WithBaseURL(u string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.baseURL = u
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithRegion sets the DuckDuckGo region code, such as "fr-fr".
func WithRegion(region string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.region = region
	}
}

// WithMaxPages sets the maximum number of result pages per search.
func WithMaxPages(n int) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if n > 0 {
			d.maxPages = n
		}
	}
}

// WithLimiter replaces the request pacing limiter.
func WithLimiter(l *rate.Limiter) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if l != nil {
			d.limiter = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDuckDuckGo creates a DuckDuckGo provider. Result pages are requested
// at most once every two seconds.
func NewDuckDuckGo(client *http.Client, opts ...DuckDuckGoOption) *DuckDuckGo {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	d := &DuckDuckGo{
		client:    client,
		baseURL:   DefaultDuckDuckGoURL,
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64)",
		maxPages:  5,
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Search requests result pages until limit distinct links are collected,
// a page adds nothing new, or the page budget is spent. An error on the
// first page is returned; later page errors end the search with the
// results gathered so far.
func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results := make([]Result, 0, limit)
	seen := make(map[string]bool)
	offset := 0

	for page := 0; page < d.maxPages && (limit <= 0 || len(results) < limit); page++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return results, err
		}

		pageResults, err := d.fetchResults(ctx, query, offset)
		if err != nil {
			if page == 0 {
				return nil, err
			}
			d.logger.Warn("stopping search pagination", "query", query, "offset", offset, "error", err)
			break
		}

		added := 0
		for _, r := range pageResults {
			if seen[r.Link] {
				continue
			}
			seen[r.Link] = true
			results = append(results, r)
			added++
			if limit > 0 && len(results) >= limit {
				break
			}
		}
		d.logger.Debug("search page fetched", "query", query, "offset", offset, "new", added)

		if added == 0 {
			break
		}
		offset += len(pageResults)
	}

	return results, nil
}

// fetchResults requests one result page starting at offset.
func (d *DuckDuckGo) fetchResults(ctx context.Context, query string, offset int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	if offset > 0 {
		params.Set("s", strconv.Itoa(offset))
	}
	if d.region != "" {
		params.Set("kl", d.region)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	// DuckDuckGo answers 202 with a challenge page when it suspects a bot.
	if resp.StatusCode == http.StatusAccepted {
		return nil, ErrBlocked
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search results: %w", err)
	}
	if doc.Find(".anomaly-modal__modal").Length() > 0 {
		return nil, ErrBlocked
	}

	return parseResults(doc), nil
}

// parseResults extracts organic results, skipping sponsored entries.
func parseResults(doc *goquery.Document) []Result {
	results := make([]Result, 0)
	doc.Find(".result").Not(".result--ad").Find(".result__a").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		results = append(results, Result{
			Link:  resolveRedirect(href),
			Title: strings.Join(strings.Fields(s.Text()), " "),
		})
	})
	return results
}

// resolveRedirect returns the target of a DuckDuckGo redirect link
// ("//duckduckgo.com/l/?uddg=<escaped target>"), or href itself when it is
// not a redirect.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
