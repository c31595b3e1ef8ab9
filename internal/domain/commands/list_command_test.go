//go:build unit

package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/checkver/internal/domain/commands"
	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/checkver/test/infrastructure/repositorydoubles"
)

func TestListCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should print one row per variant", func(t *testing.T) {
		t.Parallel()

		// given
		app := entitybuilders.NewApplicationBuilder().
			WithVariant(entitybuilders.NewVariantBuilder().WithSHA(oldSHA).BuildVariant()).
			WithVariant(entitybuilders.NewVariantBuilder().
				WithName("pinned").
				WithVersion("").
				WithSHA("").
				WithCheckver(entities.ManualCheck{}).
				BuildVariant()).
			BuildApplication()
		stub := &doubles.StubCatalogRepository{Catalog: &entities.Catalog{Applications: []entities.Application{app}}}
		var out bytes.Buffer

		// when
		err := commands.NewListCommand(stub).Execute(context.Background(), entities.DefaultSettings(), &out)

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "CONTEXT")
		assert.Regexp(t, `apps/demo\s+latest\s+tag\s+1\.0\.0\s+1111111\s+owner/project`, out.String())
		assert.Regexp(t, `apps/demo\s+pinned\s+manual\s+N/A\s+N/A\s+-`, out.String())
	})

	t.Run("should fail when the catalog cannot be loaded", func(t *testing.T) {
		t.Parallel()

		// given
		stub := &doubles.StubCatalogRepository{LoadErr: errors.New("boom")}

		// when
		err := commands.NewListCommand(stub).Execute(context.Background(), entities.DefaultSettings(), &bytes.Buffer{})

		// then
		require.Error(t, err)
	})
}
