package crawler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/mailscout/internal/email"
	"github.com/nao1215/mailscout/internal/model"
)

// FetchPage fetches a single candidate page and extracts its title and
// filtered email addresses.
//
// Unlike Scrape, FetchPage reports every failure: a transport error is
// wrapped with the URL, a non-200 answer wraps ErrUnexpectedStatus and an
// empty body returns ErrEmptyBody.
func (s *Scraper) FetchPage(ctx context.Context, pageURL string) (*model.Page, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, pageURL, err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from %s", ErrUnexpectedStatus, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", pageURL, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBody, pageURL)
	}

	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Raw:         decodeBody(body, resp.Header.Get("Content-Type")),
	}
	page.TruncateRaw()
	page.ComputeHash()

	if !page.IsHTML() {
		page.Emails = s.filter.Apply(email.ExtractText(string(page.Raw)))
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Raw))
	if err != nil {
		// The HTML parser accepts almost anything; fall back to plain text.
		page.Emails = s.filter.Apply(email.ExtractText(string(page.Raw)))
		return page, nil
	}

	page.Title = pageTitle(doc)
	page.Emails = s.filter.Apply(email.Extract(doc))
	return page, nil
}

// decodeBody converts body to UTF-8 using the Content-Type header and any
// <meta charset> declaration. Bodies that are already valid UTF-8 are
// returned as is, as are bodies that fail to decode.
func decodeBody(body []byte, contentType string) []byte {
	if utf8.Valid(body) {
		return body
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}

// pageTitle returns the whitespace-collapsed, NFC-normalized <title> text.
func pageTitle(doc *goquery.Document) string {
	title := doc.Find("title").First().Text()
	title = strings.Join(strings.Fields(title), " ")
	return norm.NFC.String(title)
}
