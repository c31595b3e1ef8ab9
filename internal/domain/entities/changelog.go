package entities

import (
	"fmt"
	"strings"
)

const (
	ChangelogFile = "CHANGELOG.md"

	unreleasedHeading = "## [Unreleased]"
	changedHeading    = "### Changed"
	releasePrefix     = "## ["
	bulletPrefix      = "- "
)

// ChangelogEntries renders one Keep-a-Changelog bullet per updated variant.
func ChangelogEntries(record UpdateRecord) []string {
	entries := make([]string, 0, len(record.Variants))
	for _, variant := range record.Variants {
		from := variant.OldVersion
		if from == "" {
			from = "N/A"
		}
		entries = append(entries, fmt.Sprintf(
			"%supdated `%s` variant `%s` from `%s` to `%s`",
			bulletPrefix, record.Context, variant.Name, from, variant.NewVersion,
		))
	}
	return entries
}

// InsertChangelogEntries adds entries to the "### Changed" subsection of the
// "## [Unreleased]" section, creating the subsection when missing. The second
// return value is false when the document has no Unreleased section, in which
// case content is returned unchanged.
func InsertChangelogEntries(content string, entries []string) (string, bool) {
	if len(entries) == 0 {
		return content, false
	}

	lines := strings.Split(content, "\n")
	unreleased := indexOfLine(lines, 0, len(lines), unreleasedHeading)
	if unreleased < 0 {
		return content, false
	}

	end := len(lines)
	for i := unreleased + 1; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), releasePrefix) {
			end = i
			break
		}
	}

	changed := indexOfLine(lines, unreleased+1, end, changedHeading)
	if changed < 0 {
		block := append([]string{"", changedHeading, ""}, entries...)
		return strings.Join(splice(lines, unreleased+1, block), "\n"), true
	}

	// after the last bullet of the subsection, blank lines between bullets allowed
	at := changed
	for i := changed + 1; i < end; i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !strings.HasPrefix(trimmed, bulletPrefix) {
			break
		}
		at = i
	}
	return strings.Join(splice(lines, at+1, entries), "\n"), true
}

func indexOfLine(lines []string, from, to int, heading string) int {
	for i := from; i < to; i++ {
		if strings.TrimSpace(lines[i]) == heading {
			return i
		}
	}
	return -1
}

func splice(lines []string, at int, extra []string) []string {
	result := make([]string, 0, len(lines)+len(extra))
	result = append(result, lines[:at]...)
	result = append(result, extra...)
	return append(result, lines[at:]...)
}
