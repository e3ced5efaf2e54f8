// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - CSVWriter: Site,Nom,Emails rows for spreadsheets
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Flat records or the full report for tool integration
//   - MarkdownWriter: A shareable summary with a mermaid chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
