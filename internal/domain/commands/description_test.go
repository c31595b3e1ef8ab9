//go:build unit

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/checkver/internal/domain/commands"
	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/test/domain/entitybuilders"
)

func TestBuildDescription(t *testing.T) {
	t.Parallel()

	app := entitybuilders.NewApplicationBuilder().WithName("demo").BuildApplication()
	info := &entities.CommitDiffInfo{
		CommitMessage: "feat: <b>faster</b> startup",
		CommitAuthor:  "Jane Doe <jane@example.com>",
		CommitDate:    "2026-03-01 10:00:00 +0100",
		ChangedFiles:  2,
		Additions:     10,
		Deletions:     3,
		RecentCommits: []string{"2222222 feat: faster startup"},
	}

	t.Run("should render the summary and details of a single variant", func(t *testing.T) {
		t.Parallel()

		// given
		updates := []entities.VariantUpdate{{
			Name:       "latest",
			Repo:       "https://github.com/owner/demo",
			OldVersion: "1.0.0",
			NewVersion: "1.1.0",
			OldSHA:     "1111111111111111111111111111111111111111",
			NewSHA:     "2222222222222222222222222222222222222222",
			CommitInfo: info,
		}}

		// when
		description := commands.BuildDescription(app, updates)

		// then
		assert.Contains(t, description, "## Auto-generated update of `demo`")
		assert.Contains(t, description,
			"| `latest` | [`owner/demo`](https://github.com/owner/demo) | `1.0.0` → `1.1.0` |")
		assert.Contains(t, description, "#### `latest`")
		assert.NotContains(t, description, "<details")
		assert.Contains(t, description, "feat: &lt;b&gt;faster&lt;/b&gt; startup")
		assert.Contains(t, description, "| **Date** | 2026-03-01T10:00:00+01:00 |")
		assert.Contains(t, description, "| **Changed** | 2 files, +10/-3 |")
		assert.Contains(t, description, "https://github.com/owner/demo/compare/1111111...2222222")
	})

	t.Run("should collapse the details of several variants", func(t *testing.T) {
		t.Parallel()

		// given
		updates := []entities.VariantUpdate{
			{Name: "latest", Repo: "https://github.com/owner/demo", NewVersion: "1.1.0", NewSHA: "2222222", CommitInfo: info},
			{Name: "edge", Repo: "https://github.com/owner/demo", NewVersion: "3333333", NewSHA: "3333333", CommitInfo: info},
		}

		// when
		description := commands.BuildDescription(app, updates)

		// then
		assert.Contains(t, description, "<details open><summary>latest</summary>")
		assert.Contains(t, description, "<details><summary>edge</summary>")
		assert.Contains(t, description, "`N/A` → `1.1.0`")
	})

	t.Run("should render plain hashes without an upstream", func(t *testing.T) {
		t.Parallel()

		// given
		updates := []entities.VariantUpdate{{Name: "latest", NewVersion: "2.0.0", NewSHA: "4444444444"}}

		// when
		description := commands.BuildDescription(app, updates)

		// then
		assert.Contains(t, description, "| `latest` | `N/A` | `N/A` → `2.0.0` | `N/A` → `4444444` |")
		assert.NotContains(t, description, "#### `latest`")
	})
}

func TestFormatCommitDate(t *testing.T) {
	t.Parallel()

	t.Run("should convert git dates to RFC 3339", func(t *testing.T) {
		t.Parallel()

		// then
		assert.Equal(t, "2026-03-01T10:00:00Z", commands.FormatCommitDate("2026-03-01 10:00:00 +0000"))
	})

	t.Run("should keep unparsable dates and mark missing ones", func(t *testing.T) {
		t.Parallel()

		// then
		assert.Equal(t, "yesterday", commands.FormatCommitDate("yesterday"))
		assert.Equal(t, "N/A", commands.FormatCommitDate(""))
	})
}
