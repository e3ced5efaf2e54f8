package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/mailscout/internal/email"
	"github.com/nao1215/mailscout/internal/model"
)

// DefaultUserAgent is a browser-like User-Agent sent with every page request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Scraper visits the candidate pages of a site and collects contact emails.
// It keeps no state between calls to Scrape and visits pages one at a time.
type Scraper struct {
	// client performs the page requests.
	client *http.Client

	// timeout bounds each page request, including the body read.
	timeout time.Duration

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// contactPaths are probed after the built-in ContactPaths.
	contactPaths []string

	// filter drops blacklisted addresses.
	filter *email.Filter

	// logger receives page-level failures at debug level.
	logger *slog.Logger
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithTimeout sets the per-page request timeout.
func WithTimeout(d time.Duration) ScraperOption {
	return func(s *Scraper) {
		s.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) ScraperOption {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) ScraperOption {
	return func(s *Scraper) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// WithContactPaths appends extra candidate paths such as "/equipe".
func WithContactPaths(paths ...string) ScraperOption {
	return func(s *Scraper) {
		s.contactPaths = append(s.contactPaths, paths...)
	}
}

// WithBlacklist adds substrings to the default email blacklist.
func WithBlacklist(extra ...string) ScraperOption {
	return func(s *Scraper) {
		s.filter = email.NewFilter(extra...)
	}
}

// WithLogger sets the logger used for page-level diagnostics.
func WithLogger(logger *slog.Logger) ScraperOption {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScraper creates a Scraper around client. A nil client falls back to
// a plain http.Client; the per-page timeout is applied through the request
// context either way.
func NewScraper(client *http.Client, opts ...ScraperOption) *Scraper {
	if client == nil {
		client = &http.Client{}
	}

	s := &Scraper{
		client:      client,
		timeout:     8 * time.Second,
		userAgent:   DefaultUserAgent,
		maxBodySize: model.MaxPageSize,
		filter:      email.NewFilter(),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scrape visits every candidate page of baseURL in order and returns the
// aggregated result. Page failures are skipped, so Scrape never fails: a
// site where every page fails yields its base URL as title and no emails.
//
// The title is taken from the first page visited that has one. Pages whose
// content hash was already seen (a contact path that serves the home page,
// for instance) still count as fetched but are not parsed twice.
func (s *Scraper) Scrape(ctx context.Context, baseURL string) *model.SiteResult {
	result := &model.SiteResult{URL: baseURL}
	found := email.NewSet()
	seen := make(map[string]bool)

	for _, pageURL := range CandidatePages(baseURL, s.contactPaths...) {
		if ctx.Err() != nil {
			break
		}

		page, err := s.FetchPage(ctx, pageURL)
		if err != nil {
			result.PagesFailed++
			s.logger.Debug("skipping page", "url", pageURL, "error", err)
			continue
		}
		result.PagesFetched++

		if result.Title == "" && page.Title != "" {
			result.Title = page.Title
		}
		if seen[page.Hash] {
			continue
		}
		seen[page.Hash] = true

		for _, addr := range page.Emails {
			found.Add(addr)
		}
	}

	if result.Title == "" {
		result.Title = baseURL
	}
	result.Emails = found.Slice()

	s.logger.Debug("site scraped",
		"url", baseURL,
		"fetched", result.PagesFetched,
		"failed", result.PagesFailed,
		"emails", len(result.Emails))

	return result
}
