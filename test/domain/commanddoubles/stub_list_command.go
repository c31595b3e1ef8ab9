//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"io"

	"github.com/rios0rios0/checkver/internal/domain/commands"
	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// StubListCommand is a stub implementation of commands.List.
type StubListCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
}

var _ commands.List = (*StubListCommand)(nil)

func (s *StubListCommand) Execute(_ context.Context, settings *entities.Settings, _ io.Writer) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	return s.ExecuteErr
}
