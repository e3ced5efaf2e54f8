package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/mailscout/internal/crawler"
	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/pipeline"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "mailscout"

	// DefaultTimeout is the per-page fetch timeout.
	DefaultTimeout = 8 * time.Second

	// DefaultResultCount is the number of search results requested per run.
	DefaultResultCount = 10

	// DefaultDailyCap is the number of sites that may be processed per day.
	DefaultDailyCap = pipeline.DefaultDailyCap

	// DefaultMaxResults bounds the result count a single run may ask for.
	DefaultMaxResults = pipeline.DefaultMaxResults

	// DefaultUserAgent is a browser identity; many small business sites
	// refuse obvious bots.
	DefaultUserAgent = crawler.DefaultUserAgent

	// DefaultMaxBodySize limits how much of each page is read.
	DefaultMaxBodySize = model.MaxPageSize

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds every option of a scan. It is populated from defaults, the
// config file, the environment and finally CLI flags, then passed down
// explicitly.
type Config struct {
	// Query is the free-text search query.
	Query string

	// URLFile is a file of site URLs used instead of a search engine.
	URLFile string

	// ResultCount is the number of sites requested (the n of a run).
	ResultCount int

	// Timeout is the per-page fetch timeout.
	Timeout time.Duration

	// DailyCap is the maximum number of sites processed per day.
	DailyCap int

	// MaxResults bounds ResultCount.
	MaxResults int

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// ProxyAddress routes traffic through a SOCKS5 proxy when set.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes traffic through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// DBDir is where the SQLite counter and run history live.
	// Defaults to the XDG data directory.
	DBDir string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is an explicit .mailscout path. When empty the current
	// directory and then the home directory are searched.
	ConfigFilePath string

	// File holds what was loaded from the config file, if any.
	File *File

	// CSVReport, JSONReport and MarkdownReport select the output format.
	// At most one may be set; the text report is the default.
	CSVReport      bool
	JSONReport     bool
	MarkdownReport bool

	// ReportFile is the output path. Empty means stdout.
	ReportFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		ResultCount:       DefaultResultCount,
		Timeout:           DefaultTimeout,
		DailyCap:          DefaultDailyCap,
		MaxResults:        DefaultMaxResults,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for mailscout
// (~/.local/share/mailscout on Linux).
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for mailscout.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Blacklist returns the extra email blacklist substrings from the config file.
func (c *Config) Blacklist() []string {
	if c.File == nil {
		return nil
	}
	return c.File.Blacklist
}

// Denylist returns the extra URL denylist fragments from the config file.
func (c *Config) Denylist() []string {
	if c.File == nil {
		return nil
	}
	return c.File.Denylist
}

// ContactPaths returns the extra candidate paths from the config file.
func (c *Config) ContactPaths() []string {
	if c.File == nil {
		return nil
	}
	return c.File.ContactPaths
}

// Cookie returns the cookie sent with every request, if configured.
func (c *Config) Cookie() string {
	if c.File == nil {
		return ""
	}
	return c.File.Cookie
}

// Headers returns the extra request headers, if configured.
func (c *Config) Headers() map[string]string {
	if c.File == nil {
		return nil
	}
	return c.File.Headers
}

// Validate checks the configuration and returns the first problem found.
// The result count is checked against MaxResults by the pipeline, which
// owns that rule.
func (c *Config) Validate() error {
	if c.Query == "" && c.URLFile == "" {
		return ErrNoQuery
	}
	if c.ResultCount <= 0 {
		return ErrInvalidResultCount
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.DailyCap <= 0 {
		return ErrInvalidDailyCap
	}

	formats := 0
	for _, on := range []bool{c.CSVReport, c.JSONReport, c.MarkdownReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.ProxyAddress != "" && c.UseTor {
		return ErrConflictingTransports
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	return nil
}
