package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/checkver/internal/domain/commands"
	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{command: command}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Check every tracked application for upstream updates",
		Long: `Resolve the latest upstream version of every variant in the catalog
and print a JSON run report with the update records of outdated applications.

Each update record carries the rendered file changes and a pull request
draft, ready to be handed to the pull request builder. Use --apply to write
the file changes into the workspace instead.`,
	}
}

// Execute runs a check and writes the run report.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	verbose, _ := cmd.Flags().GetBool("verbose")
	apply, _ := cmd.Flags().GetBool("apply")
	color, _ := cmd.Flags().GetBool("color")
	output, _ := cmd.Flags().GetString("output")

	settings, err := loadSettings(ctx, cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("Starting checkver run...")
	report, runErr := it.command.Execute(ctx, settings, commands.CheckOptions{
		Verbose: verbose,
		Apply:   apply,
		Color:   color,
	})
	if report != nil {
		if writeErr := writeReport(cmd.OutOrStdout(), output, report); writeErr != nil {
			return writeErr
		}
	}
	if runErr != nil {
		return fmt.Errorf("check failed: %w", runErr)
	}
	return nil
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	addCatalogFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "Write the JSON report to this file instead of stdout")
	cmd.Flags().Bool("apply", false, "Write the rendered file changes into the workspace")
	cmd.Flags().Bool("color", false, "Colorize application labels in the log")
	cmd.Flags().String("cache-dir", "", "Directory of the upstream clones (default: .git-cache)")
	cmd.Flags().Int("concurrency", 0, "Maximum number of applications checked at once (default: 3)")
}

func writeReport(stdout io.Writer, output string, report *entities.RunReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	if output == "" {
		_, err = stdout.Write(data)
		return err
	}
	if err = os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Infof("Report written to %s", output)
	return nil
}
