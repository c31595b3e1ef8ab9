package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// CheckType identifies a version detection strategy.
type CheckType string

const (
	CheckTypeFile   CheckType = "file"
	CheckTypeSHA    CheckType = "sha"
	CheckTypeTag    CheckType = "tag"
	CheckTypeManual CheckType = "manual"

	// legacy spelling of the file strategy still found in older catalogs
	checkTypeVersionAlias CheckType = "version"

	// DefaultSearchTerm is the pickaxe term used to find the commit that last
	// touched the version string of a file.
	DefaultSearchTerm = "version"

	// ShortSHALength is the length of abbreviated commit hashes.
	ShortSHALength = 7
	// FullSHALength is the length of a full SHA-1 commit hash.
	FullSHALength = 40

	githubPrefix = "https://github.com/"
)

// Application is one catalog entry, loaded from its configuration file.
// It is immutable for the duration of a run.
type Application struct {
	Name       string
	Context    string // directory of the config file, relative to the workspace root
	ConfigFile string // config file path, relative to the workspace root
	Skip       bool
	Variants   []Variant
}

// Variant is a single tracked upstream source of an application.
type Variant struct {
	Name         string
	Version      string
	SHA          string
	Enabled      bool
	Checkver     Checkver
	ProcessFiles []string
}

// Pair returns the recorded (version, sha) pair of the variant.
func (v Variant) Pair() VersionPair {
	return VersionPair{Version: v.Version, SHA: v.SHA}
}

// Files returns the files to template-substitute on update. When none are
// configured it falls back to "Dockerfile" for the "latest" variant and
// "Dockerfile.<name>" otherwise.
func (v Variant) Files() []string {
	if len(v.ProcessFiles) > 0 {
		return v.ProcessFiles
	}
	if v.Name == "latest" {
		return []string{"Dockerfile"}
	}
	return []string{"Dockerfile." + v.Name}
}

// Checkver is the version detection policy of a variant. It is a closed set:
// FileCheck, SHACheck, TagCheck and ManualCheck.
type Checkver interface {
	Type() CheckType
	checkver()
}

// Upstream is the repository a check reads from.
type Upstream struct {
	Repo          string
	Branch        string
	TargetVersion string
}

// RepoURL returns the normalized clone URL of the upstream repository.
func (u Upstream) RepoURL() string {
	return NormalizeRepoURL(u.Repo)
}

// FileCheck reads the version from a file of the upstream repository.
type FileCheck struct {
	Upstream
	File       string
	Regex      string
	SearchTerm string
}

// SHACheck uses the abbreviated HEAD commit as the version.
type SHACheck struct {
	Upstream
	Path string
}

// TagCheck uses the newest matching tag as the version.
type TagCheck struct {
	Upstream
	TagPattern string
}

// ManualCheck derives the version from the previously committed configuration.
type ManualCheck struct{}

func (FileCheck) Type() CheckType   { return CheckTypeFile }
func (SHACheck) Type() CheckType    { return CheckTypeSHA }
func (TagCheck) Type() CheckType    { return CheckTypeTag }
func (ManualCheck) Type() CheckType { return CheckTypeManual }

func (FileCheck) checkver()   {}
func (SHACheck) checkver()    {}
func (TagCheck) checkver()    {}
func (ManualCheck) checkver() {}

// Term returns the pickaxe search term, defaulting to DefaultSearchTerm.
func (c FileCheck) Term() string {
	if c.SearchTerm == "" {
		return DefaultSearchTerm
	}
	return c.SearchTerm
}

// UpstreamOf returns the upstream of a checkver, if it has one.
func UpstreamOf(c Checkver) (Upstream, bool) {
	switch typed := c.(type) {
	case FileCheck:
		return typed.Upstream, true
	case SHACheck:
		return typed.Upstream, true
	case TagCheck:
		return typed.Upstream, true
	default:
		return Upstream{}, false
	}
}

// CheckverSpec is the flat, on-disk shape of a checkver block. It is
// converted into one of the Checkver cases by Build.
type CheckverSpec struct {
	Type          string   `yaml:"type"          json:"type"`
	Repo          string   `yaml:"repo"          json:"repo,omitempty"`
	Branch        string   `yaml:"branch"        json:"branch,omitempty"`
	TargetVersion string   `yaml:"targetVersion" json:"targetVersion,omitempty"`
	File          string   `yaml:"file"          json:"file,omitempty"`
	Path          string   `yaml:"path"          json:"path,omitempty"`
	Regex         string   `yaml:"regex"         json:"regex,omitempty"`
	SearchTerm    string   `yaml:"searchTerm"    json:"searchTerm,omitempty"`
	TagPattern    string   `yaml:"tagPattern"    json:"tagPattern,omitempty"`
	ProcessFiles  []string `yaml:"processFiles"  json:"processFiles,omitempty"`
}

// Build validates the spec and returns the matching Checkver case.
func (s CheckverSpec) Build() (Checkver, error) {
	upstream := Upstream{Repo: s.Repo, Branch: s.Branch, TargetVersion: s.TargetVersion}

	switch CheckType(s.Type) {
	case CheckTypeFile, checkTypeVersionAlias:
		if s.Repo == "" {
			return nil, invalidCheckver(s.Type, "repo is required")
		}
		if s.File == "" {
			return nil, invalidCheckver(s.Type, "file is required")
		}
		if err := compiles(s.Regex); err != nil {
			return nil, invalidCheckver(s.Type, err.Error())
		}
		return FileCheck{Upstream: upstream, File: s.File, Regex: s.Regex, SearchTerm: s.SearchTerm}, nil
	case CheckTypeSHA:
		if s.Repo == "" {
			return nil, invalidCheckver(s.Type, "repo is required")
		}
		return SHACheck{Upstream: upstream, Path: s.Path}, nil
	case CheckTypeTag:
		if s.Repo == "" {
			return nil, invalidCheckver(s.Type, "repo is required")
		}
		if err := compiles(s.TagPattern); err != nil {
			return nil, invalidCheckver(s.Type, err.Error())
		}
		return TagCheck{Upstream: upstream, TagPattern: s.TagPattern}, nil
	case CheckTypeManual:
		return ManualCheck{}, nil
	default:
		return nil, invalidCheckver(s.Type, "unsupported check type")
	}
}

func compiles(pattern string) error {
	if pattern == "" {
		return nil
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("invalid regular expression %q: %w", pattern, err)
	}
	return nil
}

func invalidCheckver(checkType, reason string) error {
	return fmt.Errorf("%w: type %q: %s", ErrInvalidCheckver, checkType, reason)
}

// NormalizeRepoURL expands the "owner/repo" short form into a GitHub URL and
// returns full URLs unchanged.
func NormalizeRepoURL(repo string) string {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return ""
	}
	if strings.Contains(repo, "://") || strings.HasPrefix(repo, "git@") || strings.HasPrefix(repo, "/") {
		return repo
	}
	return githubPrefix + repo
}

var githubRepoPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/.*)?$`)

// RepoDisplayName returns "owner/repo" for GitHub URLs and the input otherwise.
func RepoDisplayName(repo string) string {
	if match := githubRepoPattern.FindStringSubmatch(repo); match != nil {
		return match[1] + "/" + match[2]
	}
	return repo
}

// ShortSHA abbreviates a commit hash to ShortSHALength characters.
func ShortSHA(sha string) string {
	if len(sha) <= ShortSHALength {
		return sha
	}
	return sha[:ShortSHALength]
}

// IsAbbreviatedSHA reports whether sha is a non-empty prefix of a full hash.
func IsAbbreviatedSHA(sha string) bool {
	return sha != "" && len(sha) < FullSHALength
}
