package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/mailscout/internal/model"
)

// JSONWriter outputs reports in JSON format.
// By default it writes the flat Site/Nom/Emails records; WithFullReport
// switches to the complete report wrapped with the tool version.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// full writes the whole report instead of the records.
	full bool

	// version is embedded in full reports.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithFullReport writes the complete report with run metadata.
func WithFullReport(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.full = true
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *model.ScrapeReport) (int, error) {
	if w.full {
		return w.writeJSON(NewJSONReport(report, w.version))
	}
	return w.writeJSON(report.Records())
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a full report with output metadata.
type JSONReport struct {
	// Version is the mailscout version that generated this report.
	Version string `json:"version"`

	// Report is the full scrape report.
	Report *model.ScrapeReport `json:"report"`

	// TotalEmails is the number of addresses across all sites.
	TotalEmails int `json:"total_emails"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(report *model.ScrapeReport, version string) *JSONReport {
	return &JSONReport{
		Version:     version,
		Report:      report,
		TotalEmails: report.TotalEmails(),
	}
}
