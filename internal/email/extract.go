package email

import (
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// addressRegex matches local-part@domain where the domain holds at least one dot.
var addressRegex = regexp.MustCompile(`[A-Za-z0-9_.+-]+@[A-Za-z0-9-]+\.[A-Za-z0-9.-]+`)

// mailtoPrefix is compared case-insensitively against href values.
const mailtoPrefix = "mailto:"

// invisibleElements holds elements whose text content is never rendered.
var invisibleElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Extract returns the union of email-like strings found in the visible text
// and in mailto: links of doc. Case is preserved and exact duplicates are
// removed, keeping first-seen order. A nil document yields an empty slice.
func Extract(doc *goquery.Document) []string {
	set := NewSet()
	if doc == nil {
		return set.Slice()
	}

	for _, addr := range ExtractText(VisibleText(doc)) {
		set.add(addr)
	}
	for _, addr := range ExtractMailto(doc) {
		set.add(addr)
	}

	return set.Slice()
}

// ExtractHTML parses r as HTML and runs Extract on it.
// A document that cannot be parsed yields an empty slice, never an error.
func ExtractHTML(r io.Reader) []string {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return []string{}
	}
	return Extract(doc)
}

// ExtractText runs the text pass over plain text.
func ExtractText(text string) []string {
	matches := addressRegex.FindAllString(text, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}

// ExtractMailto runs the link pass: every anchor whose href starts with
// "mailto:" contributes the addresses it names. The query string is cut and
// only values containing "@" are kept.
func ExtractMailto(doc *goquery.Document) []string {
	found := make([]string, 0)
	if doc == nil {
		return found
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		found = append(found, mailtoAddresses(href)...)
	})

	return found
}

// mailtoAddresses parses a single href value.
// "mailto:a@x.com,b@x.com?subject=hi" yields both addresses.
func mailtoAddresses(href string) []string {
	href = strings.TrimSpace(href)
	if len(href) < len(mailtoPrefix) || !strings.EqualFold(href[:len(mailtoPrefix)], mailtoPrefix) {
		return nil
	}

	target := href[len(mailtoPrefix):]
	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	if unescaped, err := url.PathUnescape(target); err == nil {
		target = unescaped
	}

	var addrs []string
	for _, part := range strings.Split(target, ",") {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "@") {
			addrs = append(addrs, part)
		}
	}
	return addrs
}

// VisibleText concatenates the text nodes of doc, separated by spaces,
// skipping content that a browser would not render as text.
func VisibleText(doc *goquery.Document) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && invisibleElements[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return sb.String()
}
