//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// FakeGitClient implements repositories.GitClient in memory. Configure the
// result fields for the operations your test exercises and inspect Calls to
// verify the git command sequence.
type FakeGitClient struct {
	mu    sync.Mutex
	Calls []string

	// --- working copy ---
	CloneErr      error
	CloneErrByURL map[string]error
	FetchErr      error
	CheckoutErr   error
	PullErr       error
	UnshallowErr  error
	Shallow       bool

	// --- queries ---
	TagList      []string
	TagsErr      error
	LogOutputs   map[string]string // keyed by format
	LogErrs      map[string]error  // keyed by format
	PickaxeSHA   string
	PickaxeErr   error
	Oneline      []string
	OnelineErr   error
	ChangedFiles []string
	DiffNamesErr error
	ShortStat    string
	ShortStatErr error
	TagTargets   map[string]string
	RevParseSHA  string
	Contents     map[string]string // keyed by "rev:path"
}

var _ repositories.GitClient = (*FakeGitClient)(nil)

func (f *FakeGitClient) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// CallsWithPrefix returns the recorded calls starting with prefix.
func (f *FakeGitClient) CallsWithPrefix(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []string{}
	for _, call := range f.Calls {
		if strings.HasPrefix(call, prefix) {
			matched = append(matched, call)
		}
	}
	return matched
}

func (f *FakeGitClient) Clone(_ context.Context, url, dest, branch string) error {
	f.record("clone %s %s %s", url, dest, branch)
	if err, ok := f.CloneErrByURL[url]; ok {
		return err
	}
	if f.CloneErr != nil {
		return f.CloneErr
	}
	return os.MkdirAll(dest, 0o750)
}

func (f *FakeGitClient) Fetch(_ context.Context, dir string) error {
	f.record("fetch %s", dir)
	return f.FetchErr
}

func (f *FakeGitClient) Unshallow(_ context.Context, dir string) error {
	f.record("unshallow %s", dir)
	return f.UnshallowErr
}

func (f *FakeGitClient) IsShallow(_ context.Context, dir string) (bool, error) {
	f.record("is-shallow %s", dir)
	return f.Shallow, nil
}

func (f *FakeGitClient) Checkout(_ context.Context, dir, ref string) error {
	f.record("checkout %s %s", dir, ref)
	return f.CheckoutErr
}

func (f *FakeGitClient) Pull(_ context.Context, dir, branch string) error {
	f.record("pull %s %s", dir, branch)
	return f.PullErr
}

func (f *FakeGitClient) Tags(_ context.Context, dir string) ([]string, error) {
	f.record("tags %s", dir)
	return f.TagList, f.TagsErr
}

func (f *FakeGitClient) Log(_ context.Context, dir, format, rev, path string) (string, error) {
	f.record("log %s %s %s %s", dir, format, rev, path)
	if err, ok := f.LogErrs[format]; ok {
		return "", err
	}
	return f.LogOutputs[format], nil
}

func (f *FakeGitClient) Pickaxe(_ context.Context, dir, term, path string) (string, error) {
	f.record("pickaxe %s %s %s", dir, term, path)
	return f.PickaxeSHA, f.PickaxeErr
}

func (f *FakeGitClient) LogOneline(_ context.Context, dir, rangeSpec string, limit int) ([]string, error) {
	f.record("oneline %s %s %d", dir, rangeSpec, limit)
	return f.Oneline, f.OnelineErr
}

func (f *FakeGitClient) DiffNames(_ context.Context, dir, rangeSpec string) ([]string, error) {
	f.record("diff-names %s %s", dir, rangeSpec)
	return f.ChangedFiles, f.DiffNamesErr
}

func (f *FakeGitClient) DiffShortStat(_ context.Context, dir, rangeSpec string) (string, error) {
	f.record("shortstat %s %s", dir, rangeSpec)
	return f.ShortStat, f.ShortStatErr
}

func (f *FakeGitClient) RevList(_ context.Context, dir, ref string) (string, error) {
	f.record("rev-list %s %s", dir, ref)
	sha, ok := f.TagTargets[ref]
	if !ok {
		return "", fmt.Errorf("unknown revision %s", ref)
	}
	return sha, nil
}

func (f *FakeGitClient) RevParse(_ context.Context, dir, ref string) (string, error) {
	f.record("rev-parse %s %s", dir, ref)
	return f.RevParseSHA, nil
}

func (f *FakeGitClient) Show(_ context.Context, dir, rev, path string) (string, error) {
	f.record("show %s %s:%s", dir, rev, path)
	content, ok := f.Contents[rev+":"+path]
	if !ok {
		return "", fmt.Errorf("path %s does not exist in %s", path, rev)
	}
	return content, nil
}
