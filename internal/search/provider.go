package search

import (
	"context"
	"net/url"
	"strings"
)

// Result is one search result record.
type Result struct {
	// Link is the result URL. Records without a usable link are dropped by Collect.
	Link string `json:"link"`

	// Title is the result title as shown by the search engine.
	Title string `json:"title,omitempty"`
}

// Provider searches for sites matching a query.
type Provider interface {
	// Search returns up to limit results for query, in ranking order.
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// Collect turns raw results into the URLs handed to the scraper.
// Records lacking a usable link are skipped, protocol-relative links get an
// https scheme, anything that is not http(s) is dropped, and duplicates
// (exact string) keep their first position. At most limit URLs are
// returned; limit <= 0 means no cap.
func Collect(results []Result, limit int) []string {
	urls := make([]string, 0, len(results))
	seen := make(map[string]bool, len(results))

	for _, r := range results {
		if limit > 0 && len(urls) >= limit {
			break
		}
		link, ok := usableLink(r.Link)
		if !ok || seen[link] {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
	}
	return urls
}

// usableLink qualifies and validates a result link.
func usableLink(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	if strings.HasPrefix(link, "//") {
		link = "https:" + link
	}

	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", false
	}
	return link, true
}
