package repositories

import (
	"context"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// EnsureInput identifies a cache entry and the revision to check out.
type EnsureInput struct {
	RepoURL        string
	Context        string
	Branch         string
	TargetRevision string
}

// CacheRepository owns the on-disk clones of upstream repositories. Entries
// are keyed by (repo URL, application context); concurrent use of one entry is
// not supported.
type CacheRepository interface {
	// Ensure clones or refreshes the entry and returns its working directory.
	Ensure(ctx context.Context, input EnsureInput) (string, error)

	Tags(ctx context.Context, dir string) ([]string, error)
	// HeadSHA returns the newest commit, optionally scoped to a path.
	HeadSHA(ctx context.Context, dir, path string) (string, error)
	// FileSHA returns the newest commit that added or removed term in file.
	FileSHA(ctx context.Context, dir, term, file string) (string, error)
	TagSHA(ctx context.Context, dir, tag string) (string, error)
	FullSHA(ctx context.Context, dir, shortSHA string) (string, error)
	// CommitFile returns the content of file at commit; ok is false when the
	// file does not exist there.
	CommitFile(ctx context.Context, dir, commit, file string) (content string, ok bool, err error)
	ReadFile(dir, file string) (string, error)
	ReadJSON(dir, file string, target any) error
}

// DiffRepository collects commit metadata between two revisions.
type DiffRepository interface {
	// Collect returns nil when newSHA equals oldSHA.
	Collect(ctx context.Context, dir, newSHA, oldSHA string) *entities.CommitDiffInfo
}
