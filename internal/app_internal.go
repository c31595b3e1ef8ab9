package internal

import (
	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// AppInternal holds the controllers exposed as subcommands.
type AppInternal struct {
	controllers []entities.Controller
}

// NewAppInternal creates the application from the registered controllers.
func NewAppInternal(controllers *[]entities.Controller) *AppInternal {
	return &AppInternal{controllers: *controllers}
}

// GetControllers returns the registered controllers.
func (it *AppInternal) GetControllers() []entities.Controller {
	return it.controllers
}
