package git

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// waitDelay bounds how long Run waits for the output pipes once git is
// killed. Remote helpers inherit them and may outlive git itself.
const waitDelay = 2 * time.Second

// Options configures the git subprocess client.
type Options struct {
	Binary  string
	Timeout time.Duration // per operation; zero means no deadline
	Token   string        // HTTPS token for github.com remotes
}

// CLIClient implements repositories.GitClient by running the git binary.
type CLIClient struct {
	binary  string
	timeout time.Duration
	token   string
}

// NewCLIClient creates a git client with the given options.
func NewCLIClient(opts Options) repositories.GitClient {
	binary := opts.Binary
	if binary == "" {
		binary = "git"
	}
	return &CLIClient{binary: binary, timeout: opts.Timeout, token: opts.Token}
}

// CommandError is returned when git exits with a non-zero status.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %v: %s", strings.Join(e.Args, " "), e.Err, stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// run executes git with args inside dir under the per-operation deadline.
func (it *CLIClient) run(ctx context.Context, dir string, args ...string) (string, error) {
	if it.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, it.timeout)
		defer cancel()
	}

	fullArgs := append(it.authArgs(), args...)
	cmd := exec.CommandContext(ctx, it.binary, fullArgs...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")
	killProcessGroup(cmd)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("[git] > git %s (in %s)", strings.Join(args, " "), dir)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return "", &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// authArgs injects an Authorization header for github.com when a token is set.
func (it *CLIClient) authArgs() []string {
	if it.token == "" {
		return nil
	}
	basic := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + it.token))
	return []string{"-c", "http.https://github.com/.extraheader=AUTHORIZATION: basic " + basic}
}

func (it *CLIClient) Clone(ctx context.Context, url, dest, branch string) error {
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)
	_, err := it.run(ctx, "", args...)
	return err
}

func (it *CLIClient) Fetch(ctx context.Context, dir string) error {
	_, err := it.run(ctx, dir, "fetch", "--all", "--tags")
	return err
}

func (it *CLIClient) Unshallow(ctx context.Context, dir string) error {
	_, err := it.run(ctx, dir, "fetch", "--unshallow")
	return err
}

func (it *CLIClient) IsShallow(ctx context.Context, dir string) (bool, error) {
	out, err := it.run(ctx, dir, "rev-parse", "--is-shallow-repository")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "true", nil
}

func (it *CLIClient) Checkout(ctx context.Context, dir, ref string) error {
	_, err := it.run(ctx, dir, "checkout", ref)
	return err
}

func (it *CLIClient) Pull(ctx context.Context, dir, branch string) error {
	args := []string{"pull"}
	if branch != "" {
		args = append(args, "origin", branch)
	}
	_, err := it.run(ctx, dir, args...)
	return err
}

func (it *CLIClient) Tags(ctx context.Context, dir string) ([]string, error) {
	out, err := it.run(ctx, dir, "tag", "--sort=-creatordate")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (it *CLIClient) Log(ctx context.Context, dir, format, rev, path string) (string, error) {
	args := []string{"log", "-1", "--format=" + format}
	if rev != "" {
		args = append(args, rev)
	}
	if path != "" {
		args = append(args, "--", path)
	}
	out, err := it.run(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (it *CLIClient) Pickaxe(ctx context.Context, dir, term, path string) (string, error) {
	out, err := it.run(ctx, dir, "log", "-G"+term, "--format=%H", "-n", "1", "--", path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (it *CLIClient) LogOneline(ctx context.Context, dir, rangeSpec string, limit int) ([]string, error) {
	args := []string{"log", "--oneline"}
	if limit > 0 {
		args = append(args, "-n", strconv.Itoa(limit))
	}
	args = append(args, rangeSpec)
	out, err := it.run(ctx, dir, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (it *CLIClient) DiffNames(ctx context.Context, dir, rangeSpec string) ([]string, error) {
	out, err := it.run(ctx, dir, "diff", "--name-only", rangeSpec)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (it *CLIClient) DiffShortStat(ctx context.Context, dir, rangeSpec string) (string, error) {
	out, err := it.run(ctx, dir, "diff", "--shortstat", rangeSpec)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (it *CLIClient) RevList(ctx context.Context, dir, ref string) (string, error) {
	out, err := it.run(ctx, dir, "rev-list", "-n", "1", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (it *CLIClient) RevParse(ctx context.Context, dir, ref string) (string, error) {
	out, err := it.run(ctx, dir, "rev-parse", ref)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (it *CLIClient) Show(ctx context.Context, dir, rev, path string) (string, error) {
	return it.run(ctx, dir, "show", rev+":"+path)
}

// IsCommandError reports whether err came from a non-zero git exit status.
func IsCommandError(err error) bool {
	var target *CommandError
	return errors.As(err, &target)
}

func splitLines(out string) []string {
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return []string{}
	}
	lines := strings.Split(trimmed, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}
