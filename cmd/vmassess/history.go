package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/vmassess/internal/config"
	"github.com/nao1215/vmassess/internal/database"
	"github.com/nao1215/vmassess/internal/model"
	"github.com/nao1215/vmassess/internal/report"
	"github.com/spf13/cobra"
)

const (
	// historyDateFormat is the timestamp layout of history listings.
	historyDateFormat = "2006-01-02 15:04:05"

	// shortDigestLen is the digest prefix shown in listings.
	shortDigestLen = 12

	// summaryKeyLimit is the number of keys named in a summary cell.
	summaryKeyLimit = 4
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [label]",
		Short: "List reports recorded in the history database",
		Long: `History lists the reports recorded by previous report runs.

Each entry has an ID, the time it was recorded, its label (the input file
name), a SHA3-256 digest of the data, and a short summary of its top-level
keys. Pass a label to list only the reports of one input.

Examples:
  # List every recorded report
  vmassess history

  # List the reports of one input as a Markdown table
  vmassess history --markdown esxi01.json

  # Print the stored data of report 12
  vmassess history --show 12

  # List the distinct labels
  vmassess history --labels`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown table (mutually exclusive with --json)")
	cmd.Flags().Int64P("show", "s", 0,
		"Print the stored data of the report with this ID")
	cmd.Flags().BoolP("labels", "L", false,
		"List the distinct labels")
	cmd.Flags().String("history-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	listLabels, err := cmd.Flags().GetBool("labels")
	if err != nil {
		return err
	}

	dir, err := resolveHistoryDir(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	// Validate before opening so a bad invocation never creates a database.
	db, err := database.Open(dir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, database.ErrDatabaseNotFound) {
		fmt.Fprintln(out, "No report history found.")
		fmt.Fprintln(out, "\nUse 'vmassess report <file>' to generate and record a report.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	switch {
	case listLabels:
		return printLabels(ctx, out, db)
	case showID != 0:
		return showReport(ctx, out, db, showID)
	}

	var label string
	if len(args) > 0 {
		label = args[0]
	}

	reports, err := db.ListReports(ctx, label)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(reports)
	case markdownOutput:
		return printHistoryMarkdown(out, label, reports)
	default:
		printHistoryText(out, label, reports)
		return nil
	}
}

// resolveHistoryDir picks the database directory: the flag, then the config
// file's history_dir, then the XDG data directory.
func resolveHistoryDir(cmd *cobra.Command) (string, error) {
	dir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return "", err
	}
	if dir != "" {
		return dir, nil
	}

	cfg := config.NewConfig()
	if path := config.FindConfigFile(""); path != "" {
		cf, err := config.LoadConfigFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to load config file %s: %w", path, err)
		}
		if err := cf.Defaults.Apply(cfg); err != nil {
			return "", fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}
	return cfg.HistoryDir, nil
}

// printLabels lists the distinct labels.
func printLabels(ctx context.Context, out io.Writer, db *database.HistoryDB) error {
	labels, err := db.ListLabels(ctx)
	if err != nil {
		return err
	}

	if len(labels) == 0 {
		fmt.Fprintln(out, "No reports recorded.")
		return nil
	}

	fmt.Fprintf(out, "Recorded labels (%d):\n\n", len(labels))
	for _, label := range labels {
		fmt.Fprintf(out, "  • %s\n", label)
	}
	fmt.Fprintln(out, "\nUse 'vmassess history <label>' to list the reports of one label.")

	return nil
}

// showReport prints the stored data of one report as indented JSON.
func showReport(ctx context.Context, out io.Writer, db *database.HistoryDB, id int64) error {
	stored, err := db.GetReport(ctx, id)
	if err != nil {
		return err
	}

	_, err = report.NewJSONWriter(out, report.WithPrettyPrint()).Write(stored.Data)
	return err
}

// printHistoryText prints reports as an aligned text table.
func printHistoryText(out io.Writer, label string, reports []database.ReportMetadata) {
	if len(reports) == 0 {
		if label != "" {
			fmt.Fprintf(out, "No reports recorded for %s\n", label)
		} else {
			fmt.Fprintln(out, "No reports recorded.")
		}
		return
	}

	if label != "" {
		fmt.Fprintf(out, "Report history for %s (%d reports):\n\n", label, len(reports))
	} else {
		fmt.Fprintf(out, "Report history (%d reports):\n\n", len(reports))
	}
	fmt.Fprintf(out, "  %-6s  %-19s  %-24s  %-12s  %s\n", "ID", "Date", "Label", "Digest", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, meta := range reports {
		fmt.Fprintf(out, "  %-6d  %-19s  %-24s  %-12s  %s\n",
			meta.ID,
			meta.Timestamp.Format(historyDateFormat),
			meta.Label,
			shortDigest(meta.Digest),
			formatSummary(meta.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'vmassess history --show <id>' to print a stored report.")
}

// printHistoryMarkdown prints reports as a Markdown table.
func printHistoryMarkdown(out io.Writer, label string, reports []database.ReportMetadata) error {
	md := markdown.NewMarkdown(out)

	if label != "" {
		md.H1("Report history: " + label)
	} else {
		md.H1("Report history")
	}
	md.PlainText("")

	if len(reports) == 0 {
		md.PlainText("No reports recorded.")
		return md.Build()
	}

	rows := make([][]string, len(reports))
	for i, meta := range reports {
		rows[i] = []string{
			strconv.FormatInt(meta.ID, 10),
			meta.Timestamp.Format(historyDateFormat),
			meta.Label,
			"`" + shortDigest(meta.Digest) + "`",
			formatSummary(meta.Summary),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Label", "Digest", "Summary"},
		Rows:   rows,
	})

	return md.Build()
}

// shortDigest returns the leading characters of a digest.
func shortDigest(digest string) string {
	if len(digest) > shortDigestLen {
		return digest[:shortDigestLen]
	}
	return digest
}

// formatSummary names the top-level keys of a stored report.
func formatSummary(entries []model.Entry) string {
	if len(entries) == 0 {
		return "empty"
	}

	keys := make([]string, 0, summaryKeyLimit)
	for i, e := range entries {
		if i == summaryKeyLimit {
			keys = append(keys, "...")
			break
		}
		keys = append(keys, e.Key)
	}

	noun := "keys"
	if len(entries) == 1 {
		noun = "key"
	}
	return fmt.Sprintf("%d %s: %s", len(entries), noun, strings.Join(keys, ", "))
}
