package git

import (
	"context"
	"regexp"
	"strconv"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// RecentCommitsLimit caps the one-line summaries attached to a diff.
const RecentCommitsLimit = 10

var (
	insertionsPattern = regexp.MustCompile(`(\d+) insertions?\(\+\)`)
	deletionsPattern  = regexp.MustCompile(`(\d+) deletions?\(-\)`)
)

// DiffRepository collects commit metadata with independent git queries.
type DiffRepository struct {
	client repositories.GitClient
}

// NewDiffRepository creates a diff collector on top of client.
func NewDiffRepository(client repositories.GitClient) *DiffRepository {
	return &DiffRepository{client: client}
}

// Collect returns nil when both revisions are identical. A failing sub-query
// is logged and leaves its field at the zero value.
func (it *DiffRepository) Collect(
	ctx context.Context,
	dir, newSHA, oldSHA string,
) *entities.CommitDiffInfo {
	if newSHA == oldSHA {
		logger.Debugf("[diff] no changes in %s since %s", dir, entities.ShortSHA(oldSHA))
		return nil
	}

	info := &entities.CommitDiffInfo{RecentCommits: []string{}}
	rangeSpec := newSHA
	if oldSHA != "" {
		rangeSpec = oldSHA + ".." + newSHA
	}

	info.CommitMessage = it.logField(ctx, dir, "%s", newSHA, "message")
	info.CommitAuthor = it.logField(ctx, dir, "%an <%ae>", newSHA, "author")
	info.CommitDate = it.logField(ctx, dir, "%ci", newSHA, "date")

	if files, err := it.client.DiffNames(ctx, dir, rangeSpec); err != nil {
		warn(&entities.DiffCollectionError{Query: "changed files", Err: err})
	} else {
		info.ChangedFiles = len(files)
	}

	if stat, err := it.client.DiffShortStat(ctx, dir, rangeSpec); err != nil {
		warn(&entities.DiffCollectionError{Query: "shortstat", Err: err})
	} else {
		info.Additions, info.Deletions = ParseShortStat(stat)
	}

	if commits, err := it.client.LogOneline(ctx, dir, rangeSpec, RecentCommitsLimit); err != nil {
		warn(&entities.DiffCollectionError{Query: "recent commits", Err: err})
	} else {
		if len(commits) > RecentCommitsLimit {
			commits = commits[:RecentCommitsLimit]
		}
		info.RecentCommits = commits
	}

	return info
}

func (it *DiffRepository) logField(ctx context.Context, dir, format, rev, query string) string {
	value, err := it.client.Log(ctx, dir, format, rev, "")
	if err != nil {
		warn(&entities.DiffCollectionError{Query: query, Err: err})
		return ""
	}
	return value
}

// ParseShortStat extracts insertions and deletions from `git diff --shortstat`
// output such as "5 files changed, 123 insertions(+), 45 deletions(-)".
func ParseShortStat(stat string) (int, int) {
	return firstInt(insertionsPattern, stat), firstInt(deletionsPattern, stat)
}

func firstInt(pattern *regexp.Regexp, text string) int {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return value
}

func warn(err error) {
	logger.Warnf("[diff] failed to collect %v", err)
}
