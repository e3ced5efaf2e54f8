// Package search turns a free-text query into an ordered list of candidate
// site URLs.
//
// A Provider returns raw Result records; Collect normalizes them into
// deduplicated, scheme-qualified URLs. Two providers are included:
//
//   - DuckDuckGo scrapes the HTML endpoint of duckduckgo.com, paging with
//     the result offset and pacing requests with a token bucket.
//   - Static serves a fixed list, typically read from a file.
package search
