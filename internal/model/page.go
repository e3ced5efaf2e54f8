package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Page represents one fetched candidate page of a site.
type Page struct {
	// URL is the candidate URL that was requested.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the value of the Content-Type response header.
	ContentType string `json:"content_type"`

	// Title is the text of the <title> element, whitespace-collapsed.
	// Empty when the page has no title.
	Title string `json:"title,omitempty"`

	// Emails contains the filtered, lowercased addresses found on the page.
	Emails []string `json:"emails,omitempty"`

	// Raw contains the response body decoded to UTF-8.
	// Limited to MaxPageSize bytes.
	Raw []byte `json:"-"`

	// Hash is the SHA-256 hash of Raw. Candidate paths that fall back to
	// the same page share a hash.
	Hash string `json:"hash"`
}

// MaxPageSize is the maximum size of raw page content to keep.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// ComputeHash calculates and sets the SHA-256 hash of the page's raw content.
func (p *Page) ComputeHash() {
	if len(p.Raw) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256(p.Raw)
	p.Hash = hex.EncodeToString(hash[:])
}

// IsHTML returns true if the content type indicates HTML.
// A missing content type is treated as HTML.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(strings.TrimSpace(p.ContentType))
	return ct == "" ||
		strings.HasPrefix(ct, "text/html") ||
		strings.HasPrefix(ct, "application/xhtml+xml")
}

// TruncateRaw ensures the raw content doesn't exceed MaxPageSize.
func (p *Page) TruncateRaw() {
	if len(p.Raw) > MaxPageSize {
		p.Raw = p.Raw[:MaxPageSize]
	}
}
