package repositories

import "context"

// GitClient is the narrow set of git operations the engine needs. The
// production implementation shells out to the git binary; tests use an
// in-memory fake.
type GitClient interface {
	Clone(ctx context.Context, url, dest, branch string) error
	Fetch(ctx context.Context, dir string) error
	Unshallow(ctx context.Context, dir string) error
	IsShallow(ctx context.Context, dir string) (bool, error)
	Checkout(ctx context.Context, dir, ref string) error
	// Pull pulls the given branch from origin, or the current branch when empty.
	Pull(ctx context.Context, dir, branch string) error

	// Tags returns all tags sorted by creation date, newest first.
	Tags(ctx context.Context, dir string) ([]string, error)
	// Log returns `git log -1 --format=<format> [rev] [-- path]`.
	Log(ctx context.Context, dir, format, rev, path string) (string, error)
	// Pickaxe returns the newest commit whose diff adds or removes term in path.
	Pickaxe(ctx context.Context, dir, term, path string) (string, error)
	// LogOneline returns up to limit one-line summaries of rangeSpec, newest first.
	LogOneline(ctx context.Context, dir, rangeSpec string, limit int) ([]string, error)
	DiffNames(ctx context.Context, dir, rangeSpec string) ([]string, error)
	DiffShortStat(ctx context.Context, dir, rangeSpec string) (string, error)
	// RevList returns the commit a tag points to.
	RevList(ctx context.Context, dir, ref string) (string, error)
	RevParse(ctx context.Context, dir, ref string) (string, error)
	// Show returns the content of path at rev.
	Show(ctx context.Context, dir, rev, path string) (string, error)
}
