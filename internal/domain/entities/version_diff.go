package entities

import (
	"strings"

	"golang.org/x/mod/semver"
)

// ChangeKind classifies a version change.
type ChangeKind string

const (
	ChangeMajor     ChangeKind = "major"
	ChangeMinor     ChangeKind = "minor"
	ChangePatch     ChangeKind = "patch"
	ChangeDowngrade ChangeKind = "downgrade"
	ChangeRevision  ChangeKind = "revision" // same version, different commit
	ChangeUnknown   ChangeKind = "unknown"  // at least one side is not semver
)

// normalizeVersion ensures version has 'v' prefix for semver compatibility
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// AnalyzeVersionChange determines the kind of change between two versions.
func AnalyzeVersionChange(current, next string) ChangeKind {
	if current == next {
		return ChangeRevision
	}
	if current == "" {
		return ChangeUnknown
	}

	currentNorm := normalizeVersion(current)
	nextNorm := normalizeVersion(next)
	if !semver.IsValid(currentNorm) || !semver.IsValid(nextNorm) {
		return ChangeUnknown
	}

	if semver.Compare(nextNorm, currentNorm) < 0 {
		return ChangeDowngrade
	}
	if semver.Major(currentNorm) != semver.Major(nextNorm) {
		return ChangeMajor
	}
	if semver.MajorMinor(currentNorm) != semver.MajorMinor(nextNorm) {
		return ChangeMinor
	}
	return ChangePatch
}
