package repositories

import (
	"github.com/rios0rios0/checkver/internal/domain/entities"
	domainRepos "github.com/rios0rios0/checkver/internal/domain/repositories"
	gitRepo "github.com/rios0rios0/checkver/internal/infrastructure/repositories/git"
)

// UpstreamAccess bundles the upstream repositories used during one run.
type UpstreamAccess struct {
	Cache domainRepos.CacheRepository
	Diff  domainRepos.DiffRepository
}

// UpstreamFactory builds the upstream access for the given settings.
type UpstreamFactory func(settings *entities.Settings) UpstreamAccess

// HistoryFactory opens the history of the workspace repository.
type HistoryFactory func(workspace string) (domainRepos.HistoryRepository, error)

// GitToolkit holds the constructors of every git-backed repository. The git
// client depends on run settings, so it is built per run, not per container.
type GitToolkit struct {
	NewUpstream UpstreamFactory
	OpenHistory HistoryFactory
}

// NewGitToolkit creates a toolkit backed by the git binary and go-git.
func NewGitToolkit() *GitToolkit {
	return &GitToolkit{
		NewUpstream: func(settings *entities.Settings) UpstreamAccess {
			client := gitRepo.NewCLIClient(gitRepo.Options{
				Binary:  settings.Git.Binary,
				Timeout: settings.Git.Timeout,
				Token:   settings.Git.Token,
			})
			return UpstreamAccess{
				Cache: gitRepo.NewCacheRepository(client, settings.CachePath()),
				Diff:  gitRepo.NewDiffRepository(client),
			}
		},
		OpenHistory: gitRepo.NewHistoryRepository,
	}
}
