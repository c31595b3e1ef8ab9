package entities

import "github.com/spf13/cobra"

// ControllerBind holds the Cobra metadata of a controller.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
}

// Controller is a Cobra subcommand backed by a domain command.
type Controller interface {
	GetBind() ControllerBind
	Execute(cmd *cobra.Command, args []string) error
	AddFlags(cmd *cobra.Command)
}
