package pipeline

import (
	"net/url"
	"strings"
)

// DefaultDenylist contains directory and social-media domain fragments
// whose pages are never scraped.
var DefaultDenylist = []string{
	"pagesjaunes",
	"yelp",
	"facebook",
	"linkedin",
	"instagram",
	"twitter",
}

// Denylist matches URLs whose host or path contains a known fragment.
type Denylist struct {
	fragments []string
}

// NewDenylist creates a Denylist with DefaultDenylist plus extra fragments.
func NewDenylist(extra ...string) *Denylist {
	fragments := make([]string, 0, len(DefaultDenylist)+len(extra))
	fragments = append(fragments, DefaultDenylist...)
	for _, f := range extra {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			fragments = append(fragments, f)
		}
	}
	return &Denylist{fragments: fragments}
}

// Fragments returns a copy of the fragments matched against.
func (d *Denylist) Fragments() []string {
	out := make([]string, len(d.fragments))
	copy(out, d.fragments)
	return out
}

// Match reports whether rawURL is denylisted and which fragment matched.
// The fragment is searched in the lowercased host and path; a URL that
// does not parse is matched as a whole.
func (d *Denylist) Match(rawURL string) (string, bool) {
	target := strings.ToLower(rawURL)
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		target = strings.ToLower(u.Host + u.Path)
	}
	for _, f := range d.fragments {
		if strings.Contains(target, f) {
			return f, true
		}
	}
	return "", false
}
