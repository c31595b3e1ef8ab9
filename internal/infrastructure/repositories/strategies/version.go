package strategies

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// cleanVersion validates value as a strict semantic version, tolerating a
// leading "v", and returns it without the prefix.
func cleanVersion(value string) (string, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(value), "v")
	parsed, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
