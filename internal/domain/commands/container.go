package commands

import (
	"github.com/jonboulle/clockwork"
	"go.uber.org/dig"
)

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(clockwork.NewRealClock); err != nil {
		return err
	}

	// Register command constructors
	if err := container.Provide(NewCheckCommand); err != nil {
		return err
	}
	if err := container.Provide(NewListCommand); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *CheckCommand) Check {
		return impl
	}); err != nil {
		return err
	}
	if err := container.Provide(func(impl *ListCommand) List {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
