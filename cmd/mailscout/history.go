package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/mailscout/internal/database"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// errRunNotFound is returned by history --show for an unknown run ID.
var errRunNotFound = errors.New("run not found")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past runs or show one of them",
		Long: `History lists the runs stored in the local database, newest first.

With --show, the full report of one run is printed again in any format.
A unique prefix of the run ID is enough.

Examples:
  mailscout history
  mailscout history --limit 5 --markdown
  mailscout history --show 3f2a --csv -o plombiers.csv`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit, "Number of runs to list (0 for all)")
	cmd.Flags().StringP("show", "s", "", "Print the report of the run with this ID or ID prefix")
	cmd.Flags().StringP("output", "o", "", "Write the shown report to a file")
	addFormatFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd)

	if err := readFormatFlags(cmd, cfg); err != nil {
		return err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	show, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}
	if show != "" {
		rep, err := store.GetRun(ctx, show)
		if err != nil {
			return err
		}
		if rep == nil {
			return fmt.Errorf("%w: %s", errRunNotFound, show)
		}

		format := selectFormat(cfg)
		if cfg.ReportFile == "" {
			_, err := newFormatWriter(format, cmd.OutOrStdout(), cfg.Verbose).Write(rep)
			return err
		}
		f, err := openOutput(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = newFormatWriter(format, f, cfg.Verbose).Write(rep)
		return err
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}
	if cfg.MarkdownReport {
		return writeRunsMarkdown(out, runs)
	}
	return writeRunsTable(out, runs)
}

// shortID returns the first block of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runRow(run database.RunSummary) []string {
	return []string{
		shortID(run.ID),
		run.StartedAt.Local().Format(time.DateTime),
		run.Query,
		strconv.Itoa(run.Processed),
		strconv.Itoa(run.Skipped),
		strconv.Itoa(run.SitesWithEmails),
		strconv.Itoa(run.Emails),
	}
}

var runHeader = []string{"ID", "Started", "Query", "Processed", "Skipped", "Sites", "Emails"}

// writeRunsTable writes an aligned plain-text table.
func writeRunsTable(w io.Writer, runs []database.RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeTabRow(tw, runHeader)
	for _, run := range runs {
		writeTabRow(tw, runRow(run))
	}
	return tw.Flush()
}

func writeTabRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprintln(w)
}

// writeRunsMarkdown writes the run list as a Markdown table.
func writeRunsMarkdown(w io.Writer, runs []database.RunSummary) error {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, runRow(run))
	}

	md := markdown.NewMarkdown(w)
	md.H2("Run History")
	md.PlainText("")
	md.Table(markdown.TableSet{Header: runHeader, Rows: rows})
	return md.Build()
}
