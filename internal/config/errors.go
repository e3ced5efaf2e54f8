package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoQuery is returned when neither a search query nor a URL list is given.
	ErrNoQuery = errors.New("no query specified: provide search terms or use --urls")

	// ErrInvalidResultCount is returned when the requested result count is not positive.
	ErrInvalidResultCount = errors.New("invalid result count: must be positive")

	// ErrInvalidTimeout is returned when the per-page timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDailyCap is returned when the daily cap is not positive.
	ErrInvalidDailyCap = errors.New("invalid daily cap: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --csv, --json and --markdown is given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose one of --csv, --json, --markdown")

	// ErrConflictingTransports is returned when both --proxy and --tor are given.
	ErrConflictingTransports = errors.New("conflicting transports: --proxy and --tor cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEnv is returned when a MAILSCOUT_* variable cannot be parsed.
	ErrInvalidEnv = errors.New("invalid environment variable")
)
