package crawler

import "strings"

// ContactPaths are the well-known paths probed after the site root.
var ContactPaths = []string{
	"/contact",
	"/contactez-nous",
	"/mentions-legales",
	"/legal",
	"/impressum",
}

// CandidatePages returns the ordered list of pages to visit for a site:
// the base URL with one trailing slash stripped, then the base joined with
// each of ContactPaths, then any extra paths not already listed.
// Query string and fragment are dropped before a path is appended, so
// "https://x.com/shop?ref=1" yields "https://x.com/shop/contact".
// The result is never empty and depends only on its arguments.
func CandidatePages(base string, extra ...string) []string {
	base = strings.TrimSuffix(base, "/")
	prefix := stripQuery(base)

	pages := make([]string, 0, 1+len(ContactPaths)+len(extra))
	pages = append(pages, base)
	seen := map[string]bool{base: true}

	add := func(path string) {
		path = strings.TrimSpace(path)
		if path == "" || path == "/" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		u := prefix + path
		if seen[u] {
			return
		}
		seen[u] = true
		pages = append(pages, u)
	}

	for _, p := range ContactPaths {
		add(p)
	}
	for _, p := range extra {
		add(p)
	}
	return pages
}

// stripQuery cuts rawURL at the first "#" or "?" and strips one trailing
// slash from what remains.
func stripQuery(rawURL string) string {
	rawURL, _, _ = strings.Cut(rawURL, "#")
	rawURL, _, _ = strings.Cut(rawURL, "?")
	return strings.TrimSuffix(rawURL, "/")
}
