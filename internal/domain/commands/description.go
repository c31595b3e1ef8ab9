package commands

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

const (
	notAvailable   = "N/A"
	gitDateLayout  = "2006-01-02 15:04:05 -0700"
	repoURLUnknown = ""
)

// BuildDescription renders the markdown description of an update: a summary
// table followed by the upstream commit details of each variant.
func BuildDescription(app entities.Application, updates []entities.VariantUpdate) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Auto-generated update of `%s`\n\n", app.Name))
	sb.WriteString("### Summary\n\n")
	sb.WriteString("| Variant | Source | Version | Revision |\n")
	sb.WriteString("|---------|--------|---------|----------|\n")

	var details strings.Builder
	details.WriteString("### Details\n\n")

	for i, update := range updates {
		oldVersion := update.OldVersion
		if oldVersion == "" {
			oldVersion = notAvailable
		}
		sb.WriteString(fmt.Sprintf(
			"| `%s` | %s | `%s` → `%s` | %s → %s |\n",
			update.Name,
			sourceLink(update.Repo),
			oldVersion,
			update.NewVersion,
			commitLink(update.Repo, update.OldSHA),
			commitLink(update.Repo, update.NewSHA),
		))

		if update.CommitInfo != nil {
			writeDetails(&details, update, i == 0, len(updates) > 1)
		}
	}

	sb.WriteString("\n\n")
	sb.WriteString(details.String())
	sb.WriteString("---\n")
	sb.WriteString("*This update was generated by checkver.*\n")
	return sb.String()
}

func writeDetails(sb *strings.Builder, update entities.VariantUpdate, first, collapsible bool) {
	info := update.CommitInfo
	if collapsible {
		open := ""
		if first {
			open = " open"
		}
		sb.WriteString(fmt.Sprintf("<details%s><summary>%s</summary><p>\n\n", open, update.Name))
	} else {
		sb.WriteString(fmt.Sprintf("#### `%s`\n\n", update.Name))
	}

	changed := notAvailable
	if info.ChangedFiles > 0 {
		changed = fmt.Sprintf("%d files, +%d/-%d", info.ChangedFiles, info.Additions, info.Deletions)
	}

	sb.WriteString("| Key | Value |\n")
	sb.WriteString("|-----|-------|\n")
	sb.WriteString(fmt.Sprintf("| **Repository** | %s |\n", sourceLink(update.Repo)))
	sb.WriteString(fmt.Sprintf("| **Latest Commit** | %s |\n", orNotAvailable(html.EscapeString(info.CommitMessage))))
	sb.WriteString(fmt.Sprintf("| **Author** | %s |\n", orNotAvailable(html.EscapeString(info.CommitAuthor))))
	sb.WriteString(fmt.Sprintf("| **Date** | %s |\n", formatCommitDate(info.CommitDate)))
	sb.WriteString(fmt.Sprintf("| **Changed** | %s |\n\n", changed))

	if len(info.RecentCommits) > 0 {
		sb.WriteString("Recent commits\n\n")
		for _, line := range info.RecentCommits {
			sha, message, _ := strings.Cut(line, " ")
			if update.Repo == repoURLUnknown {
				sb.WriteString(fmt.Sprintf("- `%s` %s\n", sha, html.EscapeString(strings.TrimSpace(message))))
				continue
			}
			sb.WriteString(fmt.Sprintf("- [`%s`](%s/commit/%s) %s\n",
				sha, update.Repo, sha, html.EscapeString(strings.TrimSpace(message))))
		}
		if update.Repo != repoURLUnknown && update.OldSHA != "" {
			sb.WriteString(fmt.Sprintf("\n[View full comparison](%s/compare/%s...%s)\n",
				update.Repo, entities.ShortSHA(update.OldSHA), entities.ShortSHA(update.NewSHA)))
		}
		sb.WriteString("\n")
	}

	if collapsible {
		sb.WriteString("</p></details>\n\n")
	}
}

func sourceLink(repo string) string {
	if repo == repoURLUnknown {
		return "`" + notAvailable + "`"
	}
	return fmt.Sprintf("[`%s`](%s)", entities.RepoDisplayName(repo), repo)
}

func commitLink(repo, sha string) string {
	if sha == "" {
		return "`" + notAvailable + "`"
	}
	short := entities.ShortSHA(sha)
	if repo == repoURLUnknown {
		return "`" + short + "`"
	}
	return fmt.Sprintf("[`%s`](%s/commit/%s)", short, repo, sha)
}

func formatCommitDate(value string) string {
	if value == "" {
		return notAvailable
	}
	parsed, err := time.Parse(gitDateLayout, value)
	if err != nil {
		return value
	}
	return parsed.Format(time.RFC3339)
}

func orNotAvailable(value string) string {
	if value == "" {
		return notAvailable
	}
	return value
}
