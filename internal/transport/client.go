package transport

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
	"golang.org/x/net/publicsuffix"
)

// DefaultMaxRedirects is the number of redirects followed per request.
const DefaultMaxRedirects = 10

// clientConfig collects Option values.
type clientConfig struct {
	// socksAddr is the SOCKS5 host:port. Empty means a direct connection.
	socksAddr string

	// socksAuth holds the proxy credentials, if any.
	socksAuth *proxy.Auth

	// headers are set on every request.
	headers map[string]string

	// cookie is merged into the Cookie header of every request.
	cookie string

	// maxRedirects is the number of redirects followed per request.
	maxRedirects int

	// err records the first invalid option.
	err error
}

// Option configures NewHTTPClient.
type Option func(*clientConfig)

// WithSOCKS5 routes all connections through the SOCKS5 proxy at address,
// given as "host:port" or "socks5://[user:pass@]host:port".
// An empty address leaves the client direct.
func WithSOCKS5(address string) Option {
	return func(c *clientConfig) {
		if address == "" {
			return
		}
		addr, auth, err := ParseProxyAddress(address)
		if err != nil {
			c.err = err
			return
		}
		c.socksAddr = addr
		c.socksAuth = auth
	}
}

// WithHeaders adds headers to every request, including redirects.
func WithHeaders(headers map[string]string) Option {
	return func(c *clientConfig) {
		c.headers = headers
	}
}

// WithCookie adds a raw cookie string (e.g. "consent=yes") to every request.
func WithCookie(cookie string) Option {
	return func(c *clientConfig) {
		c.cookie = cookie
	}
}

// WithMaxRedirects sets the redirect limit.
func WithMaxRedirects(n int) Option {
	return func(c *clientConfig) {
		c.maxRedirects = n
	}
}

// NewHTTPClient creates an HTTP client whose overall request timeout is
// timeout. Cookies are kept per registrable domain so that consent
// cookies set by a site's root page apply to its contact pages.
func NewHTTPClient(timeout time.Duration, opts ...Option) (*http.Client, error) {
	cfg := &clientConfig{maxRedirects: DefaultMaxRedirects}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.socksAddr != "" {
		socks, err := proxy.SOCKS5("tcp", cfg.socksAddr, cfg.socksAuth, dialer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = contextDialer(socks)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	var rt http.RoundTripper = transport
	if cfg.cookie != "" || len(cfg.headers) > 0 {
		rt = &headerInjectingTransport{
			base:    transport,
			cookie:  cfg.cookie,
			headers: cfg.headers,
		}
	}

	maxRedirects := cfg.maxRedirects
	return &http.Client{
		Transport: rt,
		Timeout:   timeout,
		Jar:       jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// contextDialer adapts a proxy.Dialer to http.Transport.DialContext.
func contextDialer(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := d.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			go func() {
				if r := <-resultCh; r.conn != nil {
					_ = r.conn.Close()
				}
			}()
			return nil, ctx.Err()
		}
	}
}

// ParseProxyAddress validates a SOCKS5 proxy address and extracts
// optional credentials.
func ParseProxyAddress(raw string) (string, *proxy.Auth, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil, ErrInvalidProxyAddress
	}

	if !strings.Contains(raw, "://") {
		if !isValidProxyAddress(raw) {
			return "", nil, ErrInvalidProxyAddress
		}
		return raw, nil, nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "socks5" && u.Scheme != "socks5h") || !isValidProxyAddress(u.Host) {
		return "", nil, ErrInvalidProxyAddress
	}

	var auth *proxy.Auth
	if u.User != nil {
		password, _ := u.User.Password()
		auth = &proxy.Auth{User: u.User.Username(), Password: password}
	}
	return u.Host, auth, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// custom headers and cookies into every request.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
