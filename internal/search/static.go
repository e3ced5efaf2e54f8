package search

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Static is a Provider that returns a fixed list of links regardless of the
// query. It backs "scan --urls" and tests.
type Static struct {
	links []string
}

// NewStatic creates a Static provider serving links in order.
func NewStatic(links ...string) *Static {
	return &Static{links: append([]string(nil), links...)}
}

// ReadStatic reads one link per line. Blank lines and lines starting with
// '#' are ignored.
func ReadStatic(r io.Reader) (*Static, error) {
	var links []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}
	return &Static{links: links}, nil
}

// LoadStatic reads a URL list file with ReadStatic.
func LoadStatic(path string) (*Static, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to open URL list: %w", err)
	}
	defer f.Close()
	return ReadStatic(f)
}

// Len returns the number of links.
func (s *Static) Len() int {
	return len(s.links)
}

// Search returns the first limit links; limit <= 0 returns all of them.
func (s *Static) Search(ctx context.Context, _ string, limit int) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(s.links)
	if limit > 0 && limit < n {
		n = limit
	}
	results := make([]Result, n)
	for i := range n {
		results[i] = Result{Link: s.links[i]}
	}
	return results, nil
}
