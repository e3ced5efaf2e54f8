package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/mailscout/internal/config"
	"github.com/nao1215/mailscout/internal/database"
	"github.com/nao1215/mailscout/internal/log"
	"github.com/nao1215/mailscout/internal/report"
	"github.com/spf13/cobra"
)

// reportFormat names an output format.
type reportFormat string

const (
	formatText     reportFormat = "text"
	formatCSV      reportFormat = "csv"
	formatJSON     reportFormat = "json"
	formatMarkdown reportFormat = "markdown"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure logger and installs it as the default.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), getVerboseFlag(cmd))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads the config file and environment, then applies the
// persistent --db-dir flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	return cfg, nil
}

// openStore opens the counter and history database of cfg.
func openStore(cfg *config.Config) (*database.Store, error) {
	store, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// addFormatFlags registers --csv, --json and --markdown.
func addFormatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("csv", false, "Output CSV (Site,Nom,Emails)")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown")
	cmd.MarkFlagsMutuallyExclusive("csv", "json", "markdown")
}

// readFormatFlags copies the format flags into cfg.
func readFormatFlags(cmd *cobra.Command, cfg *config.Config) error {
	var err error
	if cfg.CSVReport, err = cmd.Flags().GetBool("csv"); err != nil {
		return err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return err
	}
	return nil
}

// selectFormat picks the report format from the flags, falling back to
// the output file extension.
func selectFormat(cfg *config.Config) reportFormat {
	switch {
	case cfg.CSVReport:
		return formatCSV
	case cfg.JSONReport:
		return formatJSON
	case cfg.MarkdownReport:
		return formatMarkdown
	}

	switch strings.ToLower(filepath.Ext(cfg.ReportFile)) {
	case ".csv":
		return formatCSV
	case ".json":
		return formatJSON
	case ".md", ".markdown":
		return formatMarkdown
	default:
		return formatText
	}
}

// newFormatWriter creates the report writer for format.
func newFormatWriter(format reportFormat, w io.Writer, verbose bool) report.Writer {
	switch format {
	case formatCSV:
		return report.NewCSVWriter(w)
	case formatJSON:
		return report.NewJSONWriter(w, report.WithPrettyPrint())
	case formatMarkdown:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(verbose))
	}
}

// openOutput opens the report file, creating parent directories.
// Reports hold contact data, so files are owner-readable only.
func openOutput(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // user-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
