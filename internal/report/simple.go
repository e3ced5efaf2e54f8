package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/mailscout/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds per-site page statistics.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScrapeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeSites(&sb, report)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         MAILSCOUT REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Query:          %s\n", report.Query)
	fmt.Fprintf(sb, "Run ID:         %s\n", report.RunID)
	fmt.Fprintf(sb, "Date:           %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	if d := report.Duration(); d > 0 {
		fmt.Fprintf(sb, "Duration:       %s\n", d.Round(time.Millisecond))
	}
	sb.WriteString("\n")
}

// writeSummary writes the counts section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Requested:        %d\n", report.Requested)
	fmt.Fprintf(sb, "  Sites processed:  %d\n", report.SitesProcessed)
	fmt.Fprintf(sb, "  Sites skipped:    %d (directories and social networks)\n", report.SitesSkipped)
	fmt.Fprintf(sb, "  Sites with email: %d\n", len(report.Results))
	fmt.Fprintf(sb, "  Emails found:     %d\n", report.TotalEmails())
	sb.WriteString("\n")
}

// writeSites writes one block per site, or the reason there is none.
func (w *SimpleWriter) writeSites(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("RESULTS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	switch {
	case report.ProviderEmpty():
		sb.WriteString("  No sites found for this query.\n\n")
		return
	case !report.HasResults():
		sb.WriteString("  No email addresses found on the processed sites.\n\n")
		return
	}

	for i, site := range report.Results {
		fmt.Fprintf(sb, "[%d] %s\n", i+1, site.Title)
		fmt.Fprintf(sb, "    %s\n", site.URL)
		if w.verbose {
			fmt.Fprintf(sb, "    pages: %d fetched, %d failed\n", site.PagesFetched, site.PagesFailed)
		}
		for _, addr := range site.Emails {
			fmt.Fprintf(sb, "    - %s\n", addr)
		}
		sb.WriteString("\n")
	}
}
