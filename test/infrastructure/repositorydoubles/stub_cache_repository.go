//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// StubCacheRepository implements repositories.CacheRepository with canned
// answers. Files are keyed by their path inside the working tree.
type StubCacheRepository struct {
	mu sync.Mutex

	// --- Ensure ---
	Dir         string
	EnsureErr   error
	EnsureCalls []repositories.EnsureInput

	// --- queries ---
	TagList    []string
	TagsErr    error
	Head       string
	HeadErr    error
	HeadPaths  []string
	FileCommit string
	FileErr    error
	FileTerms  []string
	TagTargets map[string]string
	FullSHAs   map[string]string // keyed by abbreviated sha
	Files      map[string]string
}

var _ repositories.CacheRepository = (*StubCacheRepository)(nil)

func (s *StubCacheRepository) Ensure(_ context.Context, input repositories.EnsureInput) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.EnsureCalls = append(s.EnsureCalls, input)
	if s.EnsureErr != nil {
		return "", s.EnsureErr
	}
	return s.Dir, nil
}

func (s *StubCacheRepository) Tags(_ context.Context, _ string) ([]string, error) {
	return s.TagList, s.TagsErr
}

func (s *StubCacheRepository) HeadSHA(_ context.Context, _, path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HeadPaths = append(s.HeadPaths, path)
	return s.Head, s.HeadErr
}

func (s *StubCacheRepository) FileSHA(_ context.Context, _, term, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FileTerms = append(s.FileTerms, term)
	return s.FileCommit, s.FileErr
}

func (s *StubCacheRepository) TagSHA(_ context.Context, _, tag string) (string, error) {
	sha, ok := s.TagTargets[tag]
	if !ok {
		return "", fmt.Errorf("unknown tag %s", tag)
	}
	return sha, nil
}

func (s *StubCacheRepository) FullSHA(_ context.Context, _, shortSHA string) (string, error) {
	if full, ok := s.FullSHAs[shortSHA]; ok {
		return full, nil
	}
	return shortSHA, nil
}

func (s *StubCacheRepository) CommitFile(_ context.Context, _, _, file string) (string, bool, error) {
	content, ok := s.Files[file]
	return content, ok, nil
}

func (s *StubCacheRepository) ReadFile(_, file string) (string, error) {
	content, ok := s.Files[file]
	if !ok {
		return "", fmt.Errorf("open %s: no such file or directory", file)
	}
	return content, nil
}

func (s *StubCacheRepository) ReadJSON(dir, file string, target any) error {
	content, err := s.ReadFile(dir, file)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(content), target)
}
