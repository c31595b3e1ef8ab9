package commands

import "github.com/rios0rios0/checkver/internal/domain/entities"

// ApplyChanges exports applyChanges for testing.
var ApplyChanges = applyChanges //nolint:gochecknoglobals // test export

// FormatCommitDate exports formatCommitDate for testing.
var FormatCommitDate = formatCommitDate //nolint:gochecknoglobals // test export

// SetApplier replaces the function writing file changes into the workspace.
func (it *CheckCommand) SetApplier(apply func(workspace string, files []entities.FileChange) error) {
	it.apply = apply
}
