//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

func TestInsertChangelogEntries(t *testing.T) {
	t.Parallel()

	t.Run("should insert entry into empty Unreleased section", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- updated `apps/demo` variant `latest` from `1.0.0` to `1.1.0`"}

		// when
		result, ok := entities.InsertChangelogEntries(content, entries)

		// then
		assert.True(t, ok)
		assert.Contains(t, result, "## [Unreleased]\n\n### Changed\n\n- updated `apps/demo`")
		assert.Contains(t, result, "## [1.0.0] - 2026-01-01")
	})

	t.Run("should append entry to existing Changed subsection", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n### Changed\n\n- existing change\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- updated `apps/demo` variant `latest` from `1.0.0` to `1.1.0`"}

		// when
		result, ok := entities.InsertChangelogEntries(content, entries)

		// then
		assert.True(t, ok)
		assert.Contains(t, result, "- existing change\n- updated `apps/demo`")
	})

	t.Run("should insert Changed subsection when other subsections exist", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [Unreleased]\n\n### Fixed\n\n- fixed a bug\n\n## [1.0.0] - 2026-01-01\n"
		entries := []string{"- updated `apps/demo` variant `latest` from `1.0.0` to `1.1.0`"}

		// when
		result, ok := entities.InsertChangelogEntries(content, entries)

		// then
		assert.True(t, ok)
		assert.Contains(t, result, "## [Unreleased]\n\n### Changed\n\n- updated `apps/demo`")
		assert.Contains(t, result, "### Fixed")
	})

	t.Run("should return content unchanged when Unreleased section is missing", func(t *testing.T) {
		t.Parallel()

		// given
		content := "# Changelog\n\n## [1.0.0] - 2026-01-01\n"

		// when
		result, ok := entities.InsertChangelogEntries(content, []string{"- entry"})

		// then
		assert.False(t, ok)
		assert.Equal(t, content, result)
	})
}

func TestChangelogEntries(t *testing.T) {
	t.Parallel()

	t.Run("should render one entry per variant", func(t *testing.T) {
		t.Parallel()

		// given
		record := entities.UpdateRecord{
			Context: "apps/demo",
			Variants: []entities.VariantUpdate{
				{Name: "latest", OldVersion: "1.0.0", NewVersion: "1.1.0"},
				{Name: "edge", NewVersion: "abc1234"},
			},
		}

		// when
		entries := entities.ChangelogEntries(record)

		// then
		assert.Equal(t, []string{
			"- updated `apps/demo` variant `latest` from `1.0.0` to `1.1.0`",
			"- updated `apps/demo` variant `edge` from `N/A` to `abc1234`",
		}, entries)
	})
}
