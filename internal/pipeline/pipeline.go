package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/search"
)

const (
	// DefaultDailyCap is the number of sites that may be processed per day.
	DefaultDailyCap = 100

	// DefaultMaxResults is the largest site count accepted by Run.
	DefaultMaxResults = 50
)

// SiteScraper scrapes one site. Implementations absorb page-level failures
// and never return nil.
type SiteScraper interface {
	Scrape(ctx context.Context, baseURL string) *model.SiteResult
}

// CounterStore persists the daily request counter.
type CounterStore interface {
	// ReadCounter returns today's count, 0 when nothing was recorded today.
	ReadCounter(ctx context.Context) (int, error)

	// IncrementCounter adds n to today's count.
	IncrementCounter(ctx context.Context, n int) error
}

// ProgressFunc receives progress after each site, denylisted or not.
// done grows by one per call up to total.
type ProgressFunc func(done, total int, siteURL string)

// Pipeline orchestrates a scrape run.
type Pipeline struct {
	// provider finds the candidate sites for a query.
	provider search.Provider

	// scraper visits the contact pages of one site.
	scraper SiteScraper

	// counter holds the daily request count.
	counter CounterStore

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// dailyCap is the number of sites allowed per day.
	dailyCap int

	// maxResults is the largest n accepted by Run.
	maxResults int

	// progress is called after every site.
	progress ProgressFunc

	// denylist rejects directory and social network sites.
	denylist *Denylist

	// clock stamps StartedAt and FinishedAt.
	clock func() time.Time

	// newRunID generates the run identifier.
	newRunID func() string
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithDailyCap sets the daily request cap.
func WithDailyCap(limit int) Option {
	return func(p *Pipeline) {
		p.dailyCap = limit
	}
}

// WithMaxResults sets the largest site count accepted by Run.
func WithMaxResults(n int) Option {
	return func(p *Pipeline) {
		p.maxResults = n
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithDenylist adds fragments to DefaultDenylist.
func WithDenylist(extra ...string) Option {
	return func(p *Pipeline) {
		p.denylist = NewDenylist(extra...)
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) {
		p.clock = clock
	}
}

// WithRunIDGenerator replaces the UUID run ID generator.
func WithRunIDGenerator(fn func() string) Option {
	return func(p *Pipeline) {
		p.newRunID = fn
	}
}

// New creates a Pipeline. The counter store is required; the provider and
// scraper are only called once the quota check has passed.
func New(provider search.Provider, scraper SiteScraper, counter CounterStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		provider:   provider,
		scraper:    scraper,
		counter:    counter,
		dailyCap:   DefaultDailyCap,
		maxResults: DefaultMaxResults,
		denylist:   NewDenylist(),
		clock:      time.Now,
		newRunID:   uuid.NewString,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.progress == nil {
		p.progress = func(int, int, string) {}
	}

	return p
}

// Run scrapes up to n sites found for query and returns the report.
//
// The run is refused with a *QuotaError before any network I/O when the
// counter plus n exceeds the daily cap. When the provider yields no usable
// URL the report is empty, SitesProcessed is 0 and the counter is left
// untouched. Otherwise the counter is incremented by the number of sites
// iterated, denylisted ones included.
//
// Cancellation between sites returns the partial report with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, query string, n int) (*model.ScrapeReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if n < 1 || n > p.maxResults {
		return nil, fmt.Errorf("%w: %d (must be between 1 and %d)", ErrInvalidResultCount, n, p.maxResults)
	}

	if err := CheckQuota(ctx, p.counter, p.dailyCap, n); err != nil {
		return nil, err
	}

	report := model.NewScrapeReport(p.newRunID(), query, n)
	report.StartedAt = p.clock()
	ctx = model.ContextWithRunID(ctx, report.RunID)

	results, err := p.provider.Search(ctx, query, n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	urls := search.Collect(results, n)
	if len(urls) == 0 {
		p.logger.Info("search returned no usable site", "query", query)
		report.FinishedAt = p.clock()
		return report, nil
	}

	p.logger.Info("scraping sites", "run_id", report.RunID, "query", query, "sites", len(urls))

	total := len(urls)
	for i, siteURL := range urls {
		if ctx.Err() != nil {
			break
		}
		report.SitesProcessed++

		if fragment, denied := p.denylist.Match(siteURL); denied {
			report.SitesSkipped++
			p.logger.Debug("skipping denylisted site", "url", siteURL, "fragment", fragment)
		} else if result := p.scrapeSite(ctx, siteURL); result != nil && report.Add(*result) {
			p.logger.Info("emails found", "url", siteURL, "count", len(result.Emails))
		}

		p.progress(i+1, total, siteURL)
	}
	report.FinishedAt = p.clock()

	// Cancelled runs still count the sites they processed.
	if err := p.counter.IncrementCounter(context.WithoutCancel(ctx), report.SitesProcessed); err != nil {
		return report, fmt.Errorf("%w: %w", ErrCounter, err)
	}

	if err := ctx.Err(); err != nil {
		p.logger.Warn("run cancelled", "run_id", report.RunID, "processed", report.SitesProcessed, "total", total)
		return report, err
	}

	p.logger.Info("run completed",
		"run_id", report.RunID,
		"processed", report.SitesProcessed,
		"with_emails", len(report.Results),
		"duration", report.Duration())

	return report, nil
}

// CheckQuota reads today's counter and returns a *QuotaError when n more
// sites would exceed dailyCap. It performs no I/O besides the counter read,
// so callers can run it before setting up a proxy or Tor.
func CheckQuota(ctx context.Context, counter CounterStore, dailyCap, n int) error {
	used, err := counter.ReadCounter(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCounter, err)
	}
	if used+n > dailyCap {
		return &QuotaError{Used: used, Requested: n, Cap: dailyCap}
	}
	return nil
}

// scrapeSite runs the scraper for one site and turns a panic into a
// dropped site.
func (p *Pipeline) scrapeSite(ctx context.Context, siteURL string) (result *model.SiteResult) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("site scrape panicked", "url", siteURL, "panic", r)
			result = nil
		}
	}()
	return p.scraper.Scrape(ctx, siteURL)
}
