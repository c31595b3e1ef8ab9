package entities

import "time"

// VersionPair is the unit of comparison of a variant: a version string and
// the commit it corresponds to. Both fields always change together.
type VersionPair struct {
	Version string `json:"version"`
	SHA     string `json:"sha"`
}

// Differs reports whether either field of other differs from p.
func (p VersionPair) Differs(other VersionPair) bool {
	return p.Version != other.Version || p.SHA != other.SHA
}

// CommitDiffInfo summarizes the upstream changes between two revisions.
type CommitDiffInfo struct {
	CommitMessage string   `json:"commitMessage"`
	CommitAuthor  string   `json:"commitAuthor"`
	CommitDate    string   `json:"commitDate"`
	ChangedFiles  int      `json:"changedFiles"`
	Additions     int      `json:"additions"`
	Deletions     int      `json:"deletions"`
	RecentCommits []string `json:"recentCommits"`
}

// CheckResult is the outcome of resolving one variant.
type CheckResult struct {
	VariantName string          `json:"variant"`
	Previous    VersionPair     `json:"previous"`
	Resolved    VersionPair     `json:"resolved"`
	NeedsUpdate bool            `json:"needsUpdate"`
	CommitInfo  *CommitDiffInfo `json:"commitInfo,omitempty"`
}

// NewCheckResult builds a CheckResult, deriving NeedsUpdate from the pairs.
func NewCheckResult(variant Variant, resolved VersionPair, info *CommitDiffInfo) CheckResult {
	return NewCheckResultAgainst(variant, variant.Pair(), resolved, info)
}

// NewCheckResultAgainst compares resolved with baseline, the recorded pair
// with its SHA expanded to full length. Previous keeps the recorded pair.
func NewCheckResultAgainst(variant Variant, baseline, resolved VersionPair, info *CommitDiffInfo) CheckResult {
	needsUpdate := resolved.Differs(baseline)
	if !needsUpdate {
		info = nil
	}
	return CheckResult{
		VariantName: variant.Name,
		Previous:    variant.Pair(),
		Resolved:    resolved,
		NeedsUpdate: needsUpdate,
		CommitInfo:  info,
	}
}

// ApplicationStatus is the per-run state of an application.
type ApplicationStatus string

const (
	StatusLoaded   ApplicationStatus = "loaded"
	StatusChecking ApplicationStatus = "checking"
	StatusNoUpdate ApplicationStatus = "no_update"
	StatusUpdated  ApplicationStatus = "updated"
	StatusFailed   ApplicationStatus = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusNoUpdate || s == StatusUpdated || s == StatusFailed
}

// ApplicationReport is the outcome of checking one application.
type ApplicationReport struct {
	Context  string            `json:"context"`
	Name     string            `json:"name"`
	Status   ApplicationStatus `json:"status"`
	Error    string            `json:"error,omitempty"`
	Results  []CheckResult     `json:"results"`
	Duration time.Duration     `json:"duration"`
}

// Outdated returns the results that need an update.
func (r ApplicationReport) Outdated() []CheckResult {
	outdated := make([]CheckResult, 0, len(r.Results))
	for _, result := range r.Results {
		if result.NeedsUpdate {
			outdated = append(outdated, result)
		}
	}
	return outdated
}

// Fail moves the report to the failed state with the given error.
func (r *ApplicationReport) Fail(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
}
