package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for vmassess.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vmassess",
		Short: "Generate reports from VMware security assessment results",
		Long: `vmassess turns VMware security assessment results into reports.

Assessment data is produced by other tools and saved as JSON or YAML.
vmassess renders it as HTML, JSON, Markdown, or PDF, and records each run
in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-file", "",
		"Also write logs to this file, rotated by size")

	cmd.AddCommand(NewReportCmd())
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
