package email

import "strings"

// DefaultBlacklist holds the substrings that mark an address as role-based
// or automated. Matching is by substring on the lowercased address, so
// "supportteam@x.com" is excluded as well as "support@x.com".
var DefaultBlacklist = []string{
	"noreply",
	"no-reply",
	"donotreply",
	"admin",
	"support",
	"contactform",
}

// Filter removes blacklisted addresses and deduplicates case-insensitively.
// A Filter is immutable and safe for concurrent use.
type Filter struct {
	blacklist []string
}

// NewFilter creates a Filter using DefaultBlacklist plus any extra substrings.
// Extra substrings are lowercased; empty ones are ignored.
func NewFilter(extra ...string) *Filter {
	blacklist := make([]string, 0, len(DefaultBlacklist)+len(extra))
	blacklist = append(blacklist, DefaultBlacklist...)
	for _, s := range extra {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			blacklist = append(blacklist, s)
		}
	}
	return &Filter{blacklist: blacklist}
}

// Blacklist returns a copy of the substrings this filter rejects.
func (f *Filter) Blacklist() []string {
	out := make([]string, len(f.blacklist))
	copy(out, f.blacklist)
	return out
}

// Allowed reports whether addr survives the blacklist.
// The empty string is never allowed.
func (f *Filter) Allowed(addr string) bool {
	lower := strings.ToLower(strings.TrimSpace(addr))
	if lower == "" {
		return false
	}
	for _, b := range f.blacklist {
		if strings.Contains(lower, b) {
			return false
		}
	}
	return true
}

// Apply returns the lowercased, deduplicated addresses of emails that pass
// the blacklist, in first-seen order. Apply is idempotent.
func (f *Filter) Apply(emails []string) []string {
	set := NewSet()
	for _, addr := range emails {
		if f.Allowed(addr) {
			set.Add(addr)
		}
	}
	return set.Slice()
}

var defaultFilter = NewFilter()

// FilterAddresses applies the default blacklist to emails.
func FilterAddresses(emails []string) []string {
	return defaultFilter.Apply(emails)
}
