package entities

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	defaultCacheDir       = ".git-cache"
	defaultConcurrency    = 3
	defaultGitTimeout     = 5 * time.Minute
	defaultRunTimeout     = time.Hour
	defaultBranchPrefix   = "update"
	defaultBaseBranch     = "master"
	defaultAutoMergeLabel = "automerge"
)

// Settings is the top-level configuration of a checkver run.
type Settings struct {
	Workspace   string             `yaml:"workspace"`
	CacheDir    string             `yaml:"cache_dir"`
	Concurrency int                `yaml:"concurrency"`
	Roots       []string           `yaml:"roots"`
	IncludeTest bool               `yaml:"include_test"`
	ConfigFiles []string           `yaml:"config_files"`
	Contexts    []string           `yaml:"contexts"`
	RunTimeout  time.Duration      `yaml:"run_timeout"`
	Changelog   bool               `yaml:"changelog"`
	Git         GitSettings        `yaml:"git"`
	PullRequest PullRequestSetting `yaml:"pull_request"`
}

// GitSettings controls the git subprocess client.
type GitSettings struct {
	Binary  string        `yaml:"binary"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// PullRequestSetting controls the pull-request drafts handed to the builder.
type PullRequestSetting struct {
	BranchPrefix string   `yaml:"branch_prefix"`
	BaseBranch   string   `yaml:"base_branch"`
	Labels       []string `yaml:"labels"`
	AutoComplete bool     `yaml:"auto_complete"`
}

// envOverrides are read from the environment after the file is parsed.
type envOverrides struct {
	CacheDir       string `env:"CHECKVER_CACHE_DIR"`
	LegacyCacheDir string `env:"CACHE_DIR"`
	Concurrency    int    `env:"CHECKVER_CONCURRENCY"`
	LegacyConc     int    `env:"CONCURRENCY"`
	Workspace      string `env:"CHECKVER_WORKSPACE"`
	Token          string `env:"GITHUB_TOKEN"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no file is found.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

// NewSettings reads and parses a configuration file, expanding environment
// variables and resolving token file paths. An empty path yields the defaults.
func NewSettings(ctx context.Context, path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
		if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
		}
	}

	if err := settings.applyEnvironment(ctx, envconfig.OsLookuper()); err != nil {
		return nil, err
	}
	settings.Git.Token = resolveToken(settings.Git.Token)
	settings.applyDefaults()

	if validateErr := validate(settings); validateErr != nil {
		return nil, validateErr
	}

	return settings, nil
}

func (s *Settings) applyEnvironment(ctx context.Context, lookuper envconfig.Lookuper) error {
	var env envOverrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &env, Lookuper: lookuper}); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	switch {
	case env.CacheDir != "":
		s.CacheDir = env.CacheDir
	case env.LegacyCacheDir != "" && s.CacheDir == "":
		s.CacheDir = env.LegacyCacheDir
	}
	switch {
	case env.Concurrency > 0:
		s.Concurrency = env.Concurrency
	case env.LegacyConc > 0 && s.Concurrency == 0:
		s.Concurrency = env.LegacyConc
	}
	if env.Workspace != "" {
		s.Workspace = env.Workspace
	}
	if s.Git.Token == "" && env.Token != "" {
		s.Git.Token = env.Token
	}
	return nil
}

func (s *Settings) applyDefaults() {
	if s.Workspace == "" {
		s.Workspace = "."
	}
	if s.CacheDir == "" {
		s.CacheDir = defaultCacheDir
	}
	if s.Concurrency == 0 {
		s.Concurrency = defaultConcurrency
	}
	if len(s.Roots) == 0 {
		s.Roots = []string{"apps", "base", "sync"}
	}
	if len(s.ConfigFiles) == 0 {
		s.ConfigFiles = []string{"meta.json", "meta.yaml", "meta.yml"}
	}
	if s.RunTimeout == 0 {
		s.RunTimeout = defaultRunTimeout
	}
	if s.Git.Binary == "" {
		s.Git.Binary = "git"
	}
	if s.Git.Timeout == 0 {
		s.Git.Timeout = defaultGitTimeout
	}
	if s.PullRequest.BranchPrefix == "" {
		s.PullRequest.BranchPrefix = defaultBranchPrefix
	}
	if s.PullRequest.BaseBranch == "" {
		s.PullRequest.BaseBranch = defaultBaseBranch
	}
	if s.PullRequest.Labels == nil {
		s.PullRequest.Labels = []string{defaultAutoMergeLabel}
	}
}

// CachePath returns the cache directory, resolved against the workspace when
// relative.
func (s *Settings) CachePath() string {
	if filepath.IsAbs(s.CacheDir) {
		return s.CacheDir
	}
	return filepath.Join(s.Workspace, s.CacheDir)
}

// SearchRoots returns the catalog roots, including "test" when requested.
func (s *Settings) SearchRoots() []string {
	roots := append([]string{}, s.Roots...)
	if s.IncludeTest {
		roots = append(roots, "test")
	}
	return roots
}

// WantsContext reports whether the context passes the contexts filter.
func (s *Settings) WantsContext(context string) bool {
	if len(s.Contexts) == 0 {
		return true
	}
	for _, wanted := range s.Contexts {
		if filepath.Clean(wanted) == filepath.Clean(context) {
			return true
		}
	}
	return false
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".checkver.yaml",
		".checkver.yml",
		"checkver.yaml",
		"checkver.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for consistent configuration values.
func validate(settings *Settings) error {
	if settings.Concurrency < 1 {
		return errors.New("concurrency must be at least 1")
	}
	if settings.Git.Timeout < 0 {
		return errors.New("git.timeout must not be negative")
	}
	if settings.RunTimeout < 0 {
		return errors.New("run_timeout must not be negative")
	}
	for i, root := range settings.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("roots[%d] must not be empty", i)
		}
		if filepath.IsAbs(root) {
			return fmt.Errorf("roots[%d] must be relative to the workspace", i)
		}
	}
	return nil
}
