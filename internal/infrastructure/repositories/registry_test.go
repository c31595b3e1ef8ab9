//go:build unit

package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	infraRepos "github.com/rios0rios0/checkver/internal/infrastructure/repositories"
	"github.com/rios0rios0/checkver/internal/infrastructure/repositories/manifest"
	doubles "github.com/rios0rios0/checkver/test/infrastructure/repositorydoubles"
)

func TestStrategyRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should register and retrieve a strategy by check type", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewStrategyRegistry()
		registry.Register(&doubles.SpyStrategyRepository{CheckType: entities.CheckTypeTag})
		registry.Register(&doubles.SpyStrategyRepository{CheckType: entities.CheckTypeFile})

		// when
		strategy, err := registry.Get(entities.CheckTypeTag)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.CheckTypeTag, strategy.Name())
		assert.Equal(t, []string{"file", "tag"}, registry.Names())
	})

	t.Run("should return an invalid checkver error for unknown types", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewStrategyRegistry()
		registry.Register(&doubles.SpyStrategyRepository{CheckType: entities.CheckTypeTag})
		registry.Register(&doubles.SpyStrategyRepository{CheckType: entities.CheckTypeSHA})

		// when
		_, err := registry.Get(entities.CheckTypeManual)

		// then
		require.ErrorIs(t, err, entities.ErrInvalidCheckver)
		assert.Contains(t, err.Error(), "(supported: sha, tag)")
	})
}

func TestManifestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should find the reader of a manifest and nothing for plain files", func(t *testing.T) {
		t.Parallel()

		// given
		registry := infraRepos.NewManifestRegistry()
		registry.Register(manifest.NewJSONManifestRepository())
		registry.Register(manifest.NewHCLManifestRepository())

		// when
		reader := registry.Find("web/package.json")
		plain := registry.Find("VERSION")

		// then
		require.NotNil(t, reader)
		assert.Equal(t, "json", reader.Name())
		assert.Nil(t, plain)
	})
}

func TestGitToolkit(t *testing.T) {
	t.Parallel()

	t.Run("should build the upstream access from the settings", func(t *testing.T) {
		t.Parallel()

		// given
		toolkit := infraRepos.NewGitToolkit()
		settings := entities.DefaultSettings()

		// when
		access := toolkit.NewUpstream(settings)

		// then
		assert.NotNil(t, access.Cache)
		assert.NotNil(t, access.Diff)
	})
}
