// Package transport builds the HTTP clients used for searching and scraping.
//
// By default requests go out directly (honouring HTTP_PROXY and friends).
// WithSOCKS5 routes every connection through a SOCKS5 proxy, and
// EmbeddedTor starts a private Tor daemon whose SOCKS port can be used the
// same way.
package transport
