// Package crawler fetches the contact-bearing pages of a single site.
//
// # Architecture
//
// The package is built around the Scraper type. For one base URL it walks a
// short, fixed list of candidate pages (the site root, then well-known
// contact and legal-notice paths) and never follows links. Every candidate
// page is fetched sequentially with a bounded timeout.
//
// # Components
//
//   - CandidatePages: derives the ordered list of candidate URLs
//   - Scraper: fetches candidates and aggregates emails and a display title
//   - FetchPage: fetches and parses one page, reporting explicit errors
//
// # Failure handling
//
// FetchPage returns typed errors (ErrUnexpectedStatus, ErrEmptyBody,
// ErrInvalidURL or a wrapped transport error). Scrape absorbs them: a failed
// page is logged at debug level and skipped, never retried.
//
// # Usage
//
//	scraper := crawler.NewScraper(httpClient, crawler.WithTimeout(8*time.Second))
//	result := scraper.Scrape(ctx, "https://example.com")
package crawler
