package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mailscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailscout",
		Short: "Collect contact emails of businesses found by a web search",
		Long: `mailscout searches the web for a business category and location
(e.g. "plombier Paris"), fetches the contact and legal pages of every site
found, and reports the email addresses published there.

Each site processed counts against a daily cap (100 by default) stored in
a local database, so repeated runs stay within a polite volume.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .mailscout in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the counter and history database (default: XDG data directory)")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewQuotaCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
