package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/mailscout/internal/model"
)

// maxChartSlices bounds the pie chart; remaining sites are grouped.
const maxChartSlices = 10

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScrapeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatus(md, report)
	w.writeResults(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H1("Mailscout Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Query", escapeCell(report.Query)},
			{"Run ID", "`" + report.RunID + "`"},
			{"Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Sites Processed", strconv.Itoa(report.SitesProcessed)},
			{"Sites Skipped", strconv.Itoa(report.SitesSkipped)},
			{"Sites With Email", strconv.Itoa(len(report.Results))},
			{"Emails", strconv.Itoa(report.TotalEmails())},
		},
	})
	md.PlainText("")
}

// writeStatus writes an alert describing the outcome.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, report *model.ScrapeReport) {
	switch {
	case report.ProviderEmpty():
		md.Warningf("No sites found for query %q.", report.Query)
	case !report.HasResults():
		md.Note("No email addresses found on the processed sites.")
	default:
		md.Tip("Found " + strconv.Itoa(report.TotalEmails()) + " email address(es) on " +
			strconv.Itoa(len(report.Results)) + " site(s).")
	}
	md.PlainText("")
}

// writeResults writes the results table and the chart.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.ScrapeReport) {
	if !report.HasResults() {
		return
	}

	md.H2("Results")
	md.PlainText("")

	rows := make([][]string, 0, len(report.Results))
	for _, rec := range report.Records() {
		rows = append(rows, []string{
			escapeCell(rec.Site),
			escapeCell(truncateString(rec.Nom, 60)),
			escapeCell(rec.Emails),
		})
	}
	md.Table(markdown.TableSet{
		Header: model.RecordHeader(),
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// writePieChart writes a mermaid pie chart of emails per site.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.ScrapeReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Emails per Site"),
		piechart.WithShowData(true),
	)

	other := 0
	for i, site := range report.Results {
		if i >= maxChartSlices {
			other += len(site.Emails)
			continue
		}
		chart.LabelAndIntValue(chartLabel(site.Title), uint64(len(site.Emails))) //nolint:gosec // lengths are non-negative
	}
	if other > 0 {
		chart.LabelAndIntValue("Other sites", uint64(other)) //nolint:gosec // sum of lengths
	}

	md.H2("Distribution")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [mailscout](https://github.com/nao1215/mailscout)*")
}

// escapeCell keeps pipes and newlines from breaking a table row.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// chartLabel makes a title safe for a quoted mermaid label.
func chartLabel(title string) string {
	title = strings.ReplaceAll(title, `"`, "'")
	return truncateString(title, 40)
}
