//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// StubHistoryRepository implements repositories.HistoryRepository with files
// keyed by "rev:path".
type StubHistoryRepository struct {
	Files         map[string]string
	FileErr       error
	LastCommitSHA string
	LastCommitErr error
	FileAtCalls   []string
}

var _ repositories.HistoryRepository = (*StubHistoryRepository)(nil)

func (s *StubHistoryRepository) FileAt(_ context.Context, rev, path string) (string, bool, error) {
	s.FileAtCalls = append(s.FileAtCalls, rev+":"+path)
	if s.FileErr != nil {
		return "", false, s.FileErr
	}
	content, ok := s.Files[rev+":"+path]
	return content, ok, nil
}

func (s *StubHistoryRepository) LastCommit(_ context.Context, _ string) (string, error) {
	return s.LastCommitSHA, s.LastCommitErr
}
