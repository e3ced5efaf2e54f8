package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// defaultQuotaDays is the history length shown by the quota command.
const defaultQuotaDays = 7

// NewQuotaCmd creates the quota command.
func NewQuotaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quota",
		Short: "Show today's site count against the daily cap",
		Long: `Quota prints how many sites were processed today, the daily cap, how
many remain, and the totals of the last days.

The counter resets at midnight local time.`,
		Args: cobra.NoArgs,
		RunE: runQuotaCmd,
	}

	cmd.Flags().Int("days", defaultQuotaDays, "Number of days of history to show")

	return cmd
}

// runQuotaCmd executes the quota command.
func runQuotaCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cmd)

	days, err := cmd.Flags().GetInt("days")
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	used, err := store.ReadCounter(ctx)
	if err != nil {
		return err
	}
	totals, err := store.DailyTotals(ctx, days)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	remaining := max(cfg.DailyCap-used, 0)

	status := color.New(color.FgGreen)
	if remaining == 0 {
		status = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(out, "Today:      %d / %d sites\n", used, cfg.DailyCap)
	status.Fprintf(out, "Remaining:  %d\n", remaining)

	if len(totals) > 0 {
		fmt.Fprintf(out, "\nLast %d days:\n", len(totals))
		for _, day := range totals {
			fmt.Fprintf(out, "  %s  %4d  %s\n", day.Day, day.Total, usageBar(day.Total, cfg.DailyCap, 20))
		}
	}
	return nil
}

// usageBar renders total/limit as a bar of width cells.
func usageBar(total, limit, width int) string {
	if limit <= 0 || width <= 0 {
		return ""
	}
	filled := min(total*width/limit, width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
