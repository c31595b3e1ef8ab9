package repositories

import "context"

// HistoryRepository reads the history of the workspace (the catalog
// repository itself).
type HistoryRepository interface {
	// FileAt returns the content of path at rev; ok is false when the file or
	// the revision does not exist.
	FileAt(ctx context.Context, rev, path string) (content string, ok bool, err error)
	// LastCommit returns the newest commit touching path.
	LastCommit(ctx context.Context, path string) (string, error)
}
