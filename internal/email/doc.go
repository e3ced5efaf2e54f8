// Package email extracts contact email addresses from web pages and filters
// out role-based addresses.
//
// Extraction runs two passes over a parsed document:
//   - a text pass over visible text nodes (script, style, noscript and
//     template content is ignored)
//   - a link pass over mailto: hyperlink targets
//
// The text pass uses a liberal pattern. It accepts some syntactically invalid
// addresses (consecutive dots, trailing dots) and leaves them as they are.
//
// Filtering lowercases every address, drops addresses containing a
// blacklisted substring and deduplicates the rest in first-seen order.
//
// # Usage
//
//	doc, _ := goquery.NewDocumentFromReader(body)
//	raw := email.Extract(doc)
//	clean := email.FilterAddresses(raw)
package email
