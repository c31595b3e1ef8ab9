//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// StubDiffRepository implements repositories.DiffRepository. It returns Info
// for every call where the revisions differ.
type StubDiffRepository struct {
	mu    sync.Mutex
	Info  *entities.CommitDiffInfo
	Calls []DiffCall
}

// DiffCall records a single invocation of Collect.
type DiffCall struct {
	Dir    string
	NewSHA string
	OldSHA string
}

var _ repositories.DiffRepository = (*StubDiffRepository)(nil)

func (s *StubDiffRepository) Collect(_ context.Context, dir, newSHA, oldSHA string) *entities.CommitDiffInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, DiffCall{Dir: dir, NewSHA: newSHA, OldSHA: oldSHA})
	if newSHA == oldSHA {
		return nil
	}
	return s.Info
}
