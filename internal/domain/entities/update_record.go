package entities

import (
	"time"
)

const (
	ChangeTypeEdit = "edit"
	ChangeTypeAdd  = "add"
)

// FileChange represents a file modification to be included in a commit.
type FileChange struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	ChangeType string `json:"changeType"` // "add", "edit"
}

// VariantUpdate describes the change of one variant.
type VariantUpdate struct {
	Name       string          `json:"name"`
	Repo       string          `json:"repo,omitempty"`
	OldVersion string          `json:"oldVersion"`
	NewVersion string          `json:"newVersion"`
	OldSHA     string          `json:"oldSha"`
	NewSHA     string          `json:"newSha"`
	Kind       ChangeKind      `json:"kind"`
	CommitInfo *CommitDiffInfo `json:"commitInfo,omitempty"`
}

// PullRequestDraft is the hand-off to the external pull-request builder.
type PullRequestDraft struct {
	Input         PullRequestInput `json:"input"`
	BranchName    string           `json:"branchName"`
	CommitMessage string           `json:"commitMessage"`
	Labels        []string         `json:"labels"`
}

// UpdateRecord is the per-application change record.
type UpdateRecord struct {
	Name        string            `json:"name"`
	Context     string            `json:"context"`
	Variants    []VariantUpdate   `json:"variants"`
	Files       []FileChange      `json:"files"`
	Description string            `json:"description"`
	PullRequest *PullRequestDraft `json:"pullRequest,omitempty"`
}

// RunReport is the output of a whole run.
type RunReport struct {
	RunID        string              `json:"runId"`
	StartedAt    time.Time           `json:"startedAt"`
	FinishedAt   time.Time           `json:"finishedAt"`
	Applications []ApplicationReport `json:"applications"`
	Updates      []UpdateRecord      `json:"updates"`
}

// RunStats holds the counters printed at the end of a run.
type RunStats struct {
	Applications     int
	Variants         int
	OutdatedVariants int
	Updated          int
	Failed           int
}

// Stats computes the run counters.
func (r *RunReport) Stats() RunStats {
	stats := RunStats{Applications: len(r.Applications)}
	for _, app := range r.Applications {
		stats.Variants += len(app.Results)
		stats.OutdatedVariants += len(app.Outdated())
		switch app.Status {
		case StatusUpdated:
			stats.Updated++
		case StatusFailed:
			stats.Failed++
		case StatusLoaded, StatusChecking, StatusNoUpdate:
		}
	}
	return stats
}
