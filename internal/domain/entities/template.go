package entities

import (
	"regexp"
	"strings"
)

// Placeholder is one substitution: every spelling of Key is replaced with
// New, and when Old is non-empty every literal occurrence of Old as well.
type Placeholder struct {
	Key string
	New string
	Old string
}

// PlaceholderMap is an ordered list of placeholders. Order matters, see
// ResolveTemplate.
type PlaceholderMap []Placeholder

// NewPlaceholderMap builds the placeholders of an updated variant: version,
// short sha and full sha, in that order.
func NewPlaceholderMap(previous, resolved VersionPair) PlaceholderMap {
	return PlaceholderMap{
		{Key: "version", New: resolved.Version, Old: previous.Version},
		{Key: "sha", New: ShortSHA(resolved.SHA), Old: ShortSHA(previous.SHA)},
		{Key: "fullSha", New: resolved.SHA, Old: previous.SHA},
	}
}

// placeholderSpellings returns the accepted token spellings for a key.
func placeholderSpellings(key string) []string {
	return []string{"$" + key + "$", "{{" + key + "}}", "{" + key + "}"}
}

// ResolveTemplate substitutes placeholders in content. Tokens may be written
// as $key$, {{key}} or {key}; unknown tokens are left untouched.
//
// Placeholders are applied one after the other and not transactionally: an
// Old value of a later entry that happens to equal the New value of an
// earlier one is rewritten again, and an Old value that prefixes a later
// entry's Old value (short and full sha) consumes part of it first.
func ResolveTemplate(content string, placeholders PlaceholderMap) string {
	if len(placeholders) == 0 {
		return content
	}

	result := content
	for _, placeholder := range placeholders {
		if placeholder.Key == "" {
			continue
		}

		spellings := placeholderSpellings(placeholder.Key)
		for i, spelling := range spellings {
			spellings[i] = regexp.QuoteMeta(spelling)
		}
		tokenPattern := regexp.MustCompile(strings.Join(spellings, "|"))
		result = tokenPattern.ReplaceAllLiteralString(result, placeholder.New)

		if placeholder.Old != "" {
			result = strings.ReplaceAll(result, placeholder.Old, placeholder.New)
		}
	}

	return result
}
