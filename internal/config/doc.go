// Package config holds the settings of a mailscout run: defaults, the
// optional .mailscout YAML file, .env and MAILSCOUT_* environment overrides.
// Command-line flags are applied last by the cmd package.
package config
