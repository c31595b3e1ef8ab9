package controllers

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/checkver/internal/domain/commands"
	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
}

// NewListController creates a new ListController.
func NewListController(command commands.List) *ListController {
	return &ListController{command: command}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the tracked applications and variants",
		Long:  `Print every enabled variant of the catalog with its recorded version and check type.`,
	}
}

// Execute prints the catalog.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd.Context(), cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return it.command.Execute(cmd.Context(), settings, cmd.OutOrStdout())
}

// AddFlags adds the list-specific flags to the given Cobra command.
func (it *ListController) AddFlags(cmd *cobra.Command) {
	addCatalogFlags(cmd)
}
