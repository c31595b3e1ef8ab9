//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/checkver/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// SettingsBuilder creates settings on top of the defaults.
type SettingsBuilder struct {
	*testkit.BaseBuilder
	workspace   string
	concurrency int
	changelog   bool
	contexts    []string
}

// NewSettingsBuilder creates a settings builder.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
}

// WithWorkspace sets the catalog root.
func (b *SettingsBuilder) WithWorkspace(workspace string) *SettingsBuilder {
	b.workspace = workspace
	return b
}

// WithConcurrency sets the scheduler limit.
func (b *SettingsBuilder) WithConcurrency(concurrency int) *SettingsBuilder {
	b.concurrency = concurrency
	return b
}

// WithChangelog enables changelog entries.
func (b *SettingsBuilder) WithChangelog() *SettingsBuilder {
	b.changelog = true
	return b
}

// WithContexts sets the contexts filter.
func (b *SettingsBuilder) WithContexts(contexts ...string) *SettingsBuilder {
	b.contexts = contexts
	return b
}

// Build creates the settings (satisfies testkit.Builder interface).
func (b *SettingsBuilder) Build() interface{} {
	return b.BuildSettings()
}

// BuildSettings creates the settings with a concrete return type.
func (b *SettingsBuilder) BuildSettings() *entities.Settings {
	settings := entities.DefaultSettings()
	if b.workspace != "" {
		settings.Workspace = b.workspace
	}
	if b.concurrency > 0 {
		settings.Concurrency = b.concurrency
	}
	settings.Changelog = b.changelog
	settings.Contexts = b.contexts
	return settings
}

// Reset clears the builder state, allowing it to be reused.
func (b *SettingsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.workspace = ""
	b.concurrency = 0
	b.changelog = false
	b.contexts = nil
	return b
}

// Clone creates a deep copy of the SettingsBuilder.
func (b *SettingsBuilder) Clone() testkit.Builder {
	return &SettingsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		workspace:   b.workspace,
		concurrency: b.concurrency,
		changelog:   b.changelog,
		contexts:    append([]string(nil), b.contexts...),
	}
}
