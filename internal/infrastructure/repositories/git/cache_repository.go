package git

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

var (
	repoNamePattern   = regexp.MustCompile(`/([^/]+)/([^/]+?)(?:\.git)?$`)
	repoHostPattern   = regexp.MustCompile(`^(?:[a-z+]+://)?(?:[^@/]+@)?([^/:]+)[:/]`)
	unsafeHostPattern = regexp.MustCompile(`[^\w.-]`)
	unsafeKeyPattern  = regexp.MustCompile(`[^\w-]`)
	base64KeyReplacer = strings.NewReplacer("/", "_", "+", "_", "=", "_")
)

// CacheRepository keeps one clone per (repository, context) under root.
type CacheRepository struct {
	client repositories.GitClient
	root   string
}

// NewCacheRepository creates a cache rooted at root using client for all git calls.
func NewCacheRepository(client repositories.GitClient, root string) *CacheRepository {
	return &CacheRepository{client: client, root: root}
}

// CacheKey returns the directory name of a cache entry: host, owner and
// repository followed by the sanitized context.
func CacheKey(repoURL, context string) string {
	name := repoDirName(repoURL)
	if context == "" {
		return name
	}
	return name + "_" + unsafeKeyPattern.ReplaceAllString(context, "_")
}

func repoDirName(repoURL string) string {
	if match := repoNamePattern.FindStringSubmatch(repoURL); match != nil {
		name := match[1] + "-" + match[2]
		if host := repoHostPattern.FindStringSubmatch(repoURL); host != nil {
			return unsafeHostPattern.ReplaceAllString(host[1], "_") + "-" + name
		}
		return name
	}
	return base64KeyReplacer.Replace(base64.StdEncoding.EncodeToString([]byte(repoURL)))
}

// Ensure clones the entry or refreshes it and returns its working directory.
func (it *CacheRepository) Ensure(ctx context.Context, input repositories.EnsureInput) (string, error) {
	repoURL := entities.NormalizeRepoURL(input.RepoURL)
	display := entities.RepoDisplayName(repoURL)

	if err := os.MkdirAll(it.root, 0o750); err != nil {
		return "", fmt.Errorf("failed to create cache directory %q: %w", it.root, err)
	}

	dir := filepath.Join(it.root, CacheKey(repoURL, input.Context))
	input.RepoURL = repoURL

	var err error
	switch {
	case !exists(dir):
		logger.Debugf("[cache] cloning %s into %s", display, dir)
		err = it.clone(ctx, input, dir)
	case !isRepository(dir):
		logger.Warnf("[cache] %s is not a usable repository, cloning %s again", dir, display)
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			return "", &entities.RepositoryAccessError{Repo: display, Op: "remove", Err: removeErr}
		}
		err = it.clone(ctx, input, dir)
	default:
		logger.Debugf("[cache] updating %s in %s", display, dir)
		err = it.update(ctx, input, dir)
	}
	if err != nil {
		logger.Errorf("[cache] failed to prepare %s (context: %s): %v", display, input.Context, err)
		return "", err
	}

	it.unshallow(ctx, dir)
	return dir, nil
}

func (it *CacheRepository) clone(ctx context.Context, input repositories.EnsureInput, dir string) error {
	display := entities.RepoDisplayName(input.RepoURL)
	if err := it.client.Clone(ctx, input.RepoURL, dir, input.Branch); err != nil {
		return &entities.RepositoryAccessError{Repo: display, Op: "clone", Err: err}
	}
	return it.checkoutTarget(ctx, input, dir)
}

func (it *CacheRepository) update(ctx context.Context, input repositories.EnsureInput, dir string) error {
	display := entities.RepoDisplayName(input.RepoURL)
	if err := it.client.Fetch(ctx, dir); err != nil {
		return &entities.RepositoryAccessError{Repo: display, Op: "fetch", Err: err}
	}

	if input.Branch != "" {
		if err := it.client.Checkout(ctx, dir, input.Branch); err != nil {
			return &entities.RepositoryAccessError{Repo: display, Op: "checkout", Err: err}
		}
		if err := it.client.Pull(ctx, dir, input.Branch); err != nil {
			return &entities.RepositoryAccessError{Repo: display, Op: "pull", Err: err}
		}
	} else if err := it.client.Pull(ctx, dir, ""); err != nil {
		// usually a detached HEAD left by a previous target checkout
		logger.Debugf("[cache] pull failed in %s, cloning again: %v", dir, err)
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			return &entities.RepositoryAccessError{Repo: display, Op: "remove", Err: removeErr}
		}
		return it.clone(ctx, input, dir)
	}

	return it.checkoutTarget(ctx, input, dir)
}

func (it *CacheRepository) checkoutTarget(ctx context.Context, input repositories.EnsureInput, dir string) error {
	if input.TargetRevision == "" || input.TargetRevision == input.Branch {
		return nil
	}
	if err := it.client.Checkout(ctx, dir, input.TargetRevision); err != nil {
		return &entities.RepositoryAccessError{
			Repo: entities.RepoDisplayName(input.RepoURL),
			Op:   "checkout " + input.TargetRevision,
			Err:  err,
		}
	}
	logger.Debugf("[cache] checked out %s in %s", input.TargetRevision, dir)
	return nil
}

func (it *CacheRepository) unshallow(ctx context.Context, dir string) {
	shallow, err := it.client.IsShallow(ctx, dir)
	if err != nil {
		logger.Debugf("[cache] could not tell whether %s is shallow: %v", dir, err)
		return
	}
	if !shallow {
		return
	}
	if err = it.client.Unshallow(ctx, dir); err != nil {
		logger.Debugf("[cache] unshallow failed in %s: %v", dir, err)
	}
}

func (it *CacheRepository) Tags(ctx context.Context, dir string) ([]string, error) {
	return it.client.Tags(ctx, dir)
}

func (it *CacheRepository) HeadSHA(ctx context.Context, dir, path string) (string, error) {
	return it.client.Log(ctx, dir, "%H", "", path)
}

func (it *CacheRepository) FileSHA(ctx context.Context, dir, term, file string) (string, error) {
	return it.client.Pickaxe(ctx, dir, term, file)
}

func (it *CacheRepository) TagSHA(ctx context.Context, dir, tag string) (string, error) {
	return it.client.RevList(ctx, dir, tag)
}

func (it *CacheRepository) FullSHA(ctx context.Context, dir, shortSHA string) (string, error) {
	return it.client.RevParse(ctx, dir, shortSHA)
}

func (it *CacheRepository) CommitFile(ctx context.Context, dir, commit, file string) (string, bool, error) {
	content, err := it.client.Show(ctx, dir, commit, file)
	if err != nil {
		if IsCommandError(err) && ctx.Err() == nil {
			return "", false, nil
		}
		return "", false, err
	}
	return content, true, nil
}

func (it *CacheRepository) ReadFile(dir, file string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", file, err)
	}
	return string(data), nil
}

func (it *CacheRepository) ReadJSON(dir, file string, target any) error {
	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isRepository(dir string) bool {
	_, err := gogit.PlainOpen(dir)
	return err == nil
}
