package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nao1215/mailscout/internal/model"
)

// utf8BOM lets spreadsheet software detect UTF-8 accents in titles.
const utf8BOM = "\uFEFF"

// CSVWriter outputs one Site,Nom,Emails row per site, emails joined with
// model.EmailSeparator.
type CSVWriter struct {
	baseWriter

	// comma is the field delimiter.
	comma rune

	// bom prefixes the output with a UTF-8 byte order mark.
	bom bool
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithDelimiter sets the field delimiter, e.g. ';' for French locales.
func WithDelimiter(comma rune) CSVWriterOption {
	return func(w *CSVWriter) {
		w.comma = comma
	}
}

// WithBOM prefixes the output with a UTF-8 byte order mark.
func WithBOM(bom bool) CSVWriterOption {
	return func(w *CSVWriter) {
		w.bom = bom
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		comma:      ',',
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the header and one row per SiteResult. An empty report
// produces the header only.
func (w *CSVWriter) Write(report *model.ScrapeReport) (int, error) {
	cw := &countingWriter{w: w.output}

	if w.bom {
		if _, err := io.WriteString(cw, utf8BOM); err != nil {
			return cw.n, err
		}
	}

	out := csv.NewWriter(cw)
	out.Comma = w.comma

	if err := out.Write(model.RecordHeader()); err != nil {
		return cw.n, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range report.Records() {
		if err := out.Write([]string{rec.Site, rec.Nom, rec.Emails}); err != nil {
			return cw.n, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	out.Flush()
	return cw.n, out.Error()
}
