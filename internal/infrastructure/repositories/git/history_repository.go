package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// HistoryRepository reads the workspace history in-process with go-git.
type HistoryRepository struct {
	repo   *gogit.Repository
	prefix string // workspace path relative to the repository root
}

// NewHistoryRepository opens the repository containing workspace.
func NewHistoryRepository(workspace string) (repositories.HistoryRepository, error) {
	repo, err := gogit.PlainOpenWithOptions(workspace, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrHistoryUnavailable, err)
	}

	prefix := ""
	if worktree, wtErr := repo.Worktree(); wtErr == nil {
		if abs, absErr := filepath.Abs(workspace); absErr == nil {
			if rel, relErr := filepath.Rel(worktree.Filesystem.Root(), abs); relErr == nil && rel != "." {
				prefix = rel
			}
		}
	}
	return &HistoryRepository{repo: repo, prefix: prefix}, nil
}

func (it *HistoryRepository) repoPath(path string) string {
	return filepath.ToSlash(filepath.Join(it.prefix, path))
}

func (it *HistoryRepository) FileAt(ctx context.Context, rev, path string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	hash, err := it.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		// a workspace with a single commit has no HEAD~1
		return "", false, nil //nolint:nilerr // missing revision means absent
	}
	commit, err := it.repo.CommitObject(*hash)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", entities.ErrHistoryUnavailable, err)
	}

	file, err := commit.File(it.repoPath(path))
	if errors.Is(err, object.ErrFileNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", entities.ErrHistoryUnavailable, err)
	}

	content, err := file.Contents()
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", entities.ErrHistoryUnavailable, err)
	}
	return content, true, nil
}

func (it *HistoryRepository) LastCommit(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	slashed := it.repoPath(path)
	iter, err := it.repo.Log(&gogit.LogOptions{FileName: &slashed})
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrHistoryUnavailable, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return "", fmt.Errorf("%w: no commit touches %s: %w", entities.ErrHistoryUnavailable, path, err)
	}
	return commit.Hash.String(), nil
}
