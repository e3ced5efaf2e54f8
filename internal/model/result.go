package model

import (
	"strings"
	"time"
)

// EmailSeparator joins a site's addresses in flat exports.
const EmailSeparator = ", "

// SiteResult holds what one site yielded after all its candidate pages
// were visited. A SiteResult is only added to a report when Emails is
// non-empty; it is not modified afterwards.
type SiteResult struct {
	// URL is the site URL as returned by the search provider.
	URL string `json:"url"`

	// Title is the display title: the first page title seen, or URL.
	Title string `json:"title"`

	// Emails contains unique, lowercase, non-blacklisted addresses in
	// first-seen order.
	Emails []string `json:"emails"`

	// PagesFetched is the number of candidate pages that returned content.
	PagesFetched int `json:"pages_fetched"`

	// PagesFailed is the number of candidate pages that were skipped.
	PagesFailed int `json:"pages_failed"`
}

// HasEmails reports whether the site yielded at least one address.
func (r *SiteResult) HasEmails() bool {
	return len(r.Emails) > 0
}

// JoinedEmails returns the addresses joined with EmailSeparator.
func (r *SiteResult) JoinedEmails() string {
	return strings.Join(r.Emails, EmailSeparator)
}

// Record is the flat export row of a SiteResult.
type Record struct {
	Site   string `json:"Site"`   //nolint:tagliatelle // export column name
	Nom    string `json:"Nom"`    //nolint:tagliatelle // export column name
	Emails string `json:"Emails"` //nolint:tagliatelle // export column name
}

// RecordHeader returns the export column names in Record field order.
func RecordHeader() []string {
	return []string{"Site", "Nom", "Emails"}
}

// ScrapeReport is the ordered outcome of one pipeline run.
type ScrapeReport struct {
	// RunID identifies the run in the request log.
	RunID string `json:"run_id"`

	// Query is the free-text search query.
	Query string `json:"query"`

	// Requested is the number of sites asked for.
	Requested int `json:"requested"`

	// SitesProcessed is the number of search results iterated, including
	// denylisted ones. Zero means the provider returned nothing usable.
	SitesProcessed int `json:"sites_processed"`

	// SitesSkipped is the number of denylisted results.
	SitesSkipped int `json:"sites_skipped"`

	// Results holds sites with at least one email, in provider order.
	Results []SiteResult `json:"results"`

	// StartedAt is when the run started.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run finished.
	FinishedAt time.Time `json:"finished_at"`
}

// NewScrapeReport creates an empty report for a run.
func NewScrapeReport(runID, query string, requested int) *ScrapeReport {
	return &ScrapeReport{
		RunID:     runID,
		Query:     query,
		Requested: requested,
		Results:   make([]SiteResult, 0),
		StartedAt: time.Now(),
	}
}

// Add appends result when it holds at least one email.
// It returns false when the result was dropped.
func (r *ScrapeReport) Add(result SiteResult) bool {
	if !result.HasEmails() {
		return false
	}
	emails := make([]string, len(result.Emails))
	copy(emails, result.Emails)
	result.Emails = emails
	r.Results = append(r.Results, result)
	return true
}

// ProviderEmpty reports whether the search provider returned no usable URL.
func (r *ScrapeReport) ProviderEmpty() bool {
	return r.SitesProcessed == 0
}

// HasResults reports whether any site yielded emails.
func (r *ScrapeReport) HasResults() bool {
	return len(r.Results) > 0
}

// TotalEmails returns the number of addresses across all sites.
func (r *ScrapeReport) TotalEmails() int {
	total := 0
	for _, res := range r.Results {
		total += len(res.Emails)
	}
	return total
}

// Duration returns how long the run took.
func (r *ScrapeReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Records returns the flat export rows in report order.
func (r *ScrapeReport) Records() []Record {
	records := make([]Record, len(r.Results))
	for i, res := range r.Results {
		records[i] = Record{
			Site:   res.URL,
			Nom:    res.Title,
			Emails: res.JoinedEmails(),
		}
	}
	return records
}
