//go:build unit

package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/infrastructure/repositories/catalog"
)

const demoConfig = `{
  "name": "demo",
  "variants": {
    "latest": {
      "version": "1.0.0",
      "sha": "1111111111111111111111111111111111111111",
      "checkver": {
        "type": "tag",
        "repo": "owner/demo",
        "processFiles": ["Dockerfile", "values.yaml"]
      }
    },
    "legacy": {
      "version": "0.9.0",
      "enabled": false
    }
  },
  "maintainers": ["ops <ops@example.com>"],
  "replicas": 2
}
`

func writeFile(t *testing.T, root, path, content string) {
	t.Helper()

	full := filepath.Join(root, filepath.FromSlash(path))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
}

func TestCatalogRepositoryParse(t *testing.T) {
	t.Parallel()

	t.Run("should parse a JSON configuration and drop disabled variants", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()

		// when
		app, err := repository.Parse([]byte(demoConfig), "apps/demo/meta.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, "demo", app.Name)
		assert.Equal(t, "apps/demo", app.Context)
		assert.Equal(t, "apps/demo/meta.json", app.ConfigFile)
		require.Len(t, app.Variants, 1)
		variant := app.Variants[0]
		assert.Equal(t, "latest", variant.Name)
		assert.Equal(t, "1.0.0", variant.Version)
		assert.Equal(t, entities.TagCheck{Upstream: entities.Upstream{Repo: "owner/demo"}}, variant.Checkver)
		assert.Equal(t, []string{"Dockerfile", "values.yaml"}, variant.ProcessFiles)
	})

	t.Run("should parse a YAML configuration and default the name to the directory", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		content := "variants:\n  edge:\n    version: abc1234\n    sha: abc1234\n" +
			"    checkver:\n      type: sha\n      repo: https://gitlab.com/group/tool.git\n      branch: develop\n"

		// when
		app, err := repository.Parse([]byte(content), "base/tool/meta.yaml")

		// then
		require.NoError(t, err)
		assert.Equal(t, "tool", app.Name)
		require.Len(t, app.Variants, 1)
		assert.Equal(t, entities.SHACheck{
			Upstream: entities.Upstream{Repo: "https://gitlab.com/group/tool.git", Branch: "develop"},
		}, app.Variants[0].Checkver)
	})

	t.Run("should reject a configuration without variants", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()

		// when
		_, err := repository.Parse([]byte(`{"name":"demo","variants":{}}`), "apps/demo/meta.json")

		// then
		require.Error(t, err)
	})

	t.Run("should reject an enabled variant without checkver", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()

		// when
		_, err := repository.Parse([]byte(`{"variants":{"latest":{"version":"1.0.0"}}}`), "apps/demo/meta.json")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidCheckver)
	})

	t.Run("should reject an unknown check type", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		content := `{"variants":{"latest":{"checkver":{"type":"nightly","repo":"owner/app"}}}}`

		// when
		_, err := repository.Parse([]byte(content), "apps/demo/meta.json")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidCheckver)
	})

	t.Run("should reject malformed content", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()

		// when
		_, jsonErr := repository.Parse([]byte(`{"variants":`), "apps/demo/meta.json")
		_, rootErr := repository.Parse([]byte(`["not", "a", "mapping"]`), "apps/demo/meta.json")

		// then
		require.Error(t, jsonErr)
		require.Error(t, rootErr)
	})
}

func TestCatalogRepositoryRewrite(t *testing.T) {
	t.Parallel()

	t.Run("should replace the pair and keep every other field in order", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		pairs := map[string]entities.VersionPair{
			"latest": {Version: "1.1.0", SHA: "2222222222222222222222222222222222222222"},
		}

		// when
		rewritten, err := repository.Rewrite([]byte(demoConfig), "apps/demo/meta.json", pairs)

		// then
		require.NoError(t, err)
		expected := `{
  "name": "demo",
  "variants": {
    "latest": {
      "version": "1.1.0",
      "sha": "2222222222222222222222222222222222222222",
      "checkver": {
        "type": "tag",
        "repo": "owner/demo",
        "processFiles": [
          "Dockerfile",
          "values.yaml"
        ]
      }
    },
    "legacy": {
      "version": "0.9.0",
      "enabled": false
    }
  },
  "maintainers": [
    "ops <ops@example.com>"
  ],
  "replicas": 2
}
`
		assert.Equal(t, expected, string(rewritten))
	})

	t.Run("should move version and sha to the front when one is missing", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		content := `{"variants":{"latest":{"checkver":{"type":"sha","repo":"owner/app"},"sha":"old"}}}`
		pairs := map[string]entities.VersionPair{"latest": {Version: "abc1234", SHA: "abc1234ffff"}}

		// when
		rewritten, err := repository.Rewrite([]byte(content), "apps/demo/meta.json", pairs)

		// then
		require.NoError(t, err)
		assert.JSONEq(t,
			`{"variants":{"latest":{"version":"abc1234","sha":"abc1234ffff","checkver":{"type":"sha","repo":"owner/app"}}}}`,
			string(rewritten),
		)
		assert.Regexp(t, `(?s)"version": "abc1234",\s+"sha": "abc1234ffff",\s+"checkver"`, string(rewritten))
	})

	t.Run("should rewrite YAML and keep comments", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		content := "# pinned upstream\nvariants:\n  latest:\n    version: 1.10\n    sha: aaa\n" +
			"    checkver:\n      type: tag\n      repo: owner/app\n"
		pairs := map[string]entities.VersionPair{"latest": {Version: "1.11", SHA: "bbb"}}

		// when
		rewritten, err := repository.Rewrite([]byte(content), "apps/demo/meta.yaml", pairs)
		require.NoError(t, err)
		app, parseErr := repository.Parse(rewritten, "apps/demo/meta.yaml")

		// then
		require.NoError(t, parseErr)
		assert.Contains(t, string(rewritten), "# pinned upstream")
		assert.Equal(t, "1.11", app.Variants[0].Version)
		assert.Equal(t, "bbb", app.Variants[0].SHA)
	})

	t.Run("should fail for an unknown variant", func(t *testing.T) {
		t.Parallel()

		// given
		repository := catalog.NewCatalogRepository()
		pairs := map[string]entities.VersionPair{"missing": {Version: "1.0.0", SHA: "x"}}

		// when
		_, err := repository.Rewrite([]byte(demoConfig), "apps/demo/meta.json", pairs)

		// then
		require.Error(t, err)
	})
}

func TestCatalogRepositoryLoad(t *testing.T) {
	t.Parallel()

	t.Run("should discover applications under the configured roots", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := t.TempDir()
		writeFile(t, workspace, "apps/demo/meta.json", demoConfig)
		writeFile(t, workspace, "apps/demo/meta.yaml", "variants: {}\n")
		writeFile(t, workspace, "base/group/tool/meta.yaml",
			"variants:\n  latest:\n    checkver:\n      type: manual\n")
		writeFile(t, workspace, "sync/broken/meta.json", `{"variants":`)
		writeFile(t, workspace, "sync/paused/meta.json",
			`{"skip":true,"variants":{"latest":{"checkver":{"type":"manual"}}}}`)
		writeFile(t, workspace, "apps/.git-cache/owner-app/meta.json", demoConfig)
		writeFile(t, workspace, "test/fixture/meta.json", demoConfig)
		writeFile(t, workspace, "other/ignored/meta.json", demoConfig)
		settings := &entities.Settings{Workspace: workspace}
		settings = mergeDefaults(settings)

		// when
		loaded, err := catalog.NewCatalogRepository().Load(context.Background(), settings)

		// then
		require.NoError(t, err)
		contexts := []string{}
		for _, app := range loaded.Applications {
			contexts = append(contexts, app.Context)
		}
		assert.ElementsMatch(t, []string{"apps/demo", "base/group/tool"}, contexts)
		require.Len(t, loaded.Failures, 1)
		assert.Equal(t, "sync/broken", loaded.Failures[0].Context)
		assert.Equal(t, entities.StatusFailed, loaded.Failures[0].Status)
		assert.Equal(t, []string{"sync/paused"}, loaded.Skipped)
	})

	t.Run("should include the test root and honor the contexts filter", func(t *testing.T) {
		t.Parallel()

		// given
		workspace := t.TempDir()
		writeFile(t, workspace, "apps/demo/meta.json", demoConfig)
		writeFile(t, workspace, "test/fixture/meta.json", demoConfig)
		settings := mergeDefaults(&entities.Settings{
			Workspace:   workspace,
			IncludeTest: true,
			Contexts:    []string{"test/fixture"},
		})

		// when
		loaded, err := catalog.NewCatalogRepository().Load(context.Background(), settings)

		// then
		require.NoError(t, err)
		require.Len(t, loaded.Applications, 1)
		assert.Equal(t, "test/fixture", loaded.Applications[0].Context)
	})

	t.Run("should fail for a missing workspace", func(t *testing.T) {
		t.Parallel()

		// given
		settings := mergeDefaults(&entities.Settings{Workspace: filepath.Join(t.TempDir(), "missing")})

		// when
		_, err := catalog.NewCatalogRepository().Load(context.Background(), settings)

		// then
		require.Error(t, err)
	})
}

// mergeDefaults fills the unset fields from the default settings.
func mergeDefaults(settings *entities.Settings) *entities.Settings {
	defaults := entities.DefaultSettings()
	defaults.Workspace = settings.Workspace
	defaults.IncludeTest = settings.IncludeTest
	defaults.Contexts = settings.Contexts
	return defaults
}
