package email

import "strings"

// Set is an insertion-ordered set of lowercase email addresses.
type Set struct {
	seen  map[string]struct{}
	order []string
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		seen:  make(map[string]struct{}),
		order: make([]string, 0),
	}
}

// Add lowercases addr and inserts it. It returns false for empty input or
// when the address is already present.
func (s *Set) Add(addr string) bool {
	return s.add(strings.ToLower(strings.TrimSpace(addr)))
}

// add inserts addr as given.
func (s *Set) add(addr string) bool {
	if addr == "" {
		return false
	}
	if _, ok := s.seen[addr]; ok {
		return false
	}
	s.seen[addr] = struct{}{}
	s.order = append(s.order, addr)
	return true
}

// Len returns the number of addresses.
func (s *Set) Len() int {
	return len(s.order)
}

// Slice returns the addresses in insertion order.
func (s *Set) Slice() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
