package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/vmassess/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/vmassess.yaml
var configTemplate embed.FS

// templatePath is the template location inside configTemplate.
const templatePath = "templates/vmassess.yaml"

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new vmassess configuration file",
		Long: `Initialize creates a new .vmassess configuration file in the current directory.

The generated file includes:
- Default report formats, output directory, and batch size
- History and log file settings
- Example profiles selected with --profile

Examples:
  # Create .vmassess in current directory
  vmassess init

  # Create config file at a specific path
  vmassess init -o ~/.config/vmassess/config.yaml

  # Force overwrite existing file
  vmassess init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure settings such as:")
	fmt.Fprintln(out, "  - Report formats and output directory")
	fmt.Fprintln(out, "  - History database and log file locations")
	fmt.Fprintln(out, "  - Named profiles for audits or CI")

	return nil
}
