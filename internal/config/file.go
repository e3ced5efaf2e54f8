package config

// File represents the structure of the .mailscout configuration file.
type File struct {
	// Blacklist adds substrings to the built-in email blacklist.
	Blacklist []string `yaml:"blacklist,omitempty"`

	// Denylist adds URL fragments to the built-in directory denylist.
	Denylist []string `yaml:"denylist,omitempty"`

	// ContactPaths are tried after the built-in contact pages.
	ContactPaths []string `yaml:"contactPaths,omitempty"`

	// UserAgent overrides the default browser identity.
	UserAgent string `yaml:"userAgent,omitempty"`

	// DailyCap overrides the default daily cap when positive.
	DailyCap int `yaml:"dailyCap,omitempty"`

	// Cookie is sent with every request, e.g. a consent cookie.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are added to every request.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// Apply copies the file's overrides into cfg.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.DailyCap > 0 {
		cfg.DailyCap = f.DailyCap
	}
	cfg.File = f
}
