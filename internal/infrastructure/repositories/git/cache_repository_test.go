//go:build unit

package git_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
	"github.com/rios0rios0/checkver/internal/infrastructure/repositories/git"
	doubles "github.com/rios0rios0/checkver/test/infrastructure/repositorydoubles"
)

func TestCacheKey(t *testing.T) {
	t.Parallel()

	t.Run("should combine host, owner, repository and sanitized context", func(t *testing.T) {
		t.Parallel()

		// when
		key := git.CacheKey("https://github.com/owner/app.git", "apps/demo")

		// then
		assert.Equal(t, "github.com-owner-app_apps_demo", key)
	})

	t.Run("should give two contexts of one repository distinct keys", func(t *testing.T) {
		t.Parallel()

		// when
		first := git.CacheKey("https://github.com/owner/app", "apps/one")
		second := git.CacheKey("https://github.com/owner/app", "apps/two")

		// then
		assert.NotEqual(t, first, second)
	})

	t.Run("should give the same repository on two hosts distinct keys", func(t *testing.T) {
		t.Parallel()

		// when
		github := git.CacheKey("https://github.com/owner/app", "apps/demo")
		gitlab := git.CacheKey("https://gitlab.com/owner/app.git", "apps/demo")

		// then
		assert.NotEqual(t, github, gitlab)
		assert.Equal(t, "gitlab.com-owner-app_apps_demo", gitlab)
	})

	t.Run("should fall back to a filesystem-safe encoding of the URL", func(t *testing.T) {
		t.Parallel()

		// when
		key := git.CacheKey("file:app", "")

		// then
		assert.NotContains(t, key, "/")
		assert.NotContains(t, key, "=")
		assert.NotEmpty(t, key)
	})
}

func TestCacheRepositoryEnsure(t *testing.T) {
	t.Parallel()

	t.Run("should clone a missing entry on the requested branch", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		client := &doubles.FakeGitClient{}
		cache := git.NewCacheRepository(client, root)
		expectedDir := filepath.Join(root, "github.com-owner-app_apps_demo")

		// when
		dir, err := cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL: "owner/app",
			Context: "apps/demo",
			Branch:  "main",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, expectedDir, dir)
		assert.Equal(t, []string{"clone https://github.com/owner/app " + expectedDir + " main"}, client.CallsWithPrefix("clone"))
		assert.Empty(t, client.CallsWithPrefix("fetch"))
	})

	t.Run("should check out the target revision after cloning", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		client := &doubles.FakeGitClient{}
		cache := git.NewCacheRepository(client, root)

		// when
		dir, err := cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL:        "owner/app",
			Context:        "apps/demo",
			TargetRevision: "v1.2.0",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"checkout " + dir + " v1.2.0"}, client.CallsWithPrefix("checkout"))
	})

	t.Run("should return a repository access error when the clone fails", func(t *testing.T) {
		t.Parallel()

		// given
		client := &doubles.FakeGitClient{CloneErr: errors.New("repository not found")}
		cache := git.NewCacheRepository(client, t.TempDir())

		// when
		_, err := cache.Ensure(context.Background(), repositories.EnsureInput{RepoURL: "owner/missing"})

		// then
		require.Error(t, err)
		assert.True(t, entities.IsRepositoryAccess(err))
		assert.Contains(t, err.Error(), "owner/missing")
	})

	t.Run("should fetch, check out and pull an existing entry with a branch", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		dir := filepath.Join(root, "github.com-owner-app_apps_demo")
		_, err := gogit.PlainInit(dir, false)
		require.NoError(t, err)
		client := &doubles.FakeGitClient{}
		cache := git.NewCacheRepository(client, root)

		// when
		_, err = cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL:        "https://github.com/owner/app",
			Context:        "apps/demo",
			Branch:         "develop",
			TargetRevision: "abc1234",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{
			"fetch " + dir,
			"checkout " + dir + " develop",
			"pull " + dir + " develop",
			"checkout " + dir + " abc1234",
			"is-shallow " + dir,
		}, client.Calls)
	})

	t.Run("should clone again when the pull of a detached entry fails", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		dir := filepath.Join(root, "github.com-owner-app_apps_demo")
		_, err := gogit.PlainInit(dir, false)
		require.NoError(t, err)
		client := &doubles.FakeGitClient{PullErr: errors.New("not currently on a branch")}
		cache := git.NewCacheRepository(client, root)

		// when
		_, err = cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL: "owner/app",
			Context: "apps/demo",
		})

		// then
		require.NoError(t, err)
		assert.Len(t, client.CallsWithPrefix("pull"), 1)
		assert.Len(t, client.CallsWithPrefix("clone"), 1)
	})

	t.Run("should replace a corrupted entry with a fresh clone", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		dir := filepath.Join(root, "github.com-owner-app_apps_demo")
		require.NoError(t, os.MkdirAll(dir, 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "leftover"), []byte("x"), 0o600))
		client := &doubles.FakeGitClient{}
		cache := git.NewCacheRepository(client, root)

		// when
		_, err := cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL: "owner/app",
			Context: "apps/demo",
		})

		// then
		require.NoError(t, err)
		assert.Len(t, client.CallsWithPrefix("clone"), 1)
		assert.Empty(t, client.CallsWithPrefix("fetch"))
		assert.NoFileExists(t, filepath.Join(dir, "leftover"))
	})

	t.Run("should fail on a fetch error of an existing entry", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		_, err := gogit.PlainInit(filepath.Join(root, "github.com-owner-app_apps_demo"), false)
		require.NoError(t, err)
		client := &doubles.FakeGitClient{FetchErr: errors.New("could not resolve host")}
		cache := git.NewCacheRepository(client, root)

		// when
		_, err = cache.Ensure(context.Background(), repositories.EnsureInput{
			RepoURL: "owner/app",
			Context: "apps/demo",
		})

		// then
		var accessErr *entities.RepositoryAccessError
		require.ErrorAs(t, err, &accessErr)
		assert.Equal(t, "fetch", accessErr.Op)
	})

	t.Run("should unshallow a shallow entry and ignore failures", func(t *testing.T) {
		t.Parallel()

		// given
		client := &doubles.FakeGitClient{Shallow: true, UnshallowErr: errors.New("already complete")}
		cache := git.NewCacheRepository(client, t.TempDir())

		// when
		_, err := cache.Ensure(context.Background(), repositories.EnsureInput{RepoURL: "owner/app"})

		// then
		require.NoError(t, err)
		assert.Len(t, client.CallsWithPrefix("unshallow"), 1)
	})
}

func TestCacheRepositoryQueries(t *testing.T) {
	t.Parallel()

	t.Run("should delegate sha lookups to the git client", func(t *testing.T) {
		t.Parallel()

		// given
		client := &doubles.FakeGitClient{
			LogOutputs: map[string]string{"%H": "1111111111111111111111111111111111111111"},
			PickaxeSHA: "2222222222222222222222222222222222222222",
			TagTargets: map[string]string{"v1.0.0": "3333333333333333333333333333333333333333"},
		}
		cache := git.NewCacheRepository(client, t.TempDir())
		ctx := context.Background()

		// when
		head, headErr := cache.HeadSHA(ctx, "/cache/app", "charts")
		file, fileErr := cache.FileSHA(ctx, "/cache/app", "version", "VERSION")
		tag, tagErr := cache.TagSHA(ctx, "/cache/app", "v1.0.0")

		// then
		require.NoError(t, headErr)
		require.NoError(t, fileErr)
		require.NoError(t, tagErr)
		assert.Equal(t, "1111111111111111111111111111111111111111", head)
		assert.Equal(t, "2222222222222222222222222222222222222222", file)
		assert.Equal(t, "3333333333333333333333333333333333333333", tag)
		assert.Contains(t, client.Calls, "log /cache/app %H  charts")
		assert.Contains(t, client.Calls, "pickaxe /cache/app version VERSION")
	})

	t.Run("should read files and json from the working copy", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "VERSION"), []byte("1.2.3\n"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"version":"4.5.6"}`), 0o600))
		cache := git.NewCacheRepository(&doubles.FakeGitClient{}, t.TempDir())
		var manifest struct {
			Version string `json:"version"`
		}

		// when
		content, readErr := cache.ReadFile(dir, "VERSION")
		jsonErr := cache.ReadJSON(dir, "package.json", &manifest)
		_, missingErr := cache.ReadFile(dir, "missing")

		// then
		require.NoError(t, readErr)
		require.NoError(t, jsonErr)
		require.Error(t, missingErr)
		assert.Equal(t, "1.2.3\n", content)
		assert.Equal(t, "4.5.6", manifest.Version)
	})
}
