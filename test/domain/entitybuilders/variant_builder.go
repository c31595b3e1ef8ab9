//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/checkver/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

const (
	defaultVariantName    = "latest"
	defaultVariantVersion = "1.0.0"
	defaultVariantSHA     = "1111111111111111111111111111111111111111"
	defaultVariantRepo    = "owner/project"
)

// VariantBuilder helps create test variants with a fluent interface.
type VariantBuilder struct {
	*testkit.BaseBuilder
	name         string
	version      string
	sha          string
	checkver     entities.Checkver
	processFiles []string
}

// NewVariantBuilder creates a variant builder with a tag check on owner/project.
func NewVariantBuilder() *VariantBuilder {
	return &VariantBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        defaultVariantName,
		version:     defaultVariantVersion,
		sha:         defaultVariantSHA,
		checkver:    entities.TagCheck{Upstream: entities.Upstream{Repo: defaultVariantRepo}},
	}
}

// WithName sets the variant name.
func (b *VariantBuilder) WithName(name string) *VariantBuilder {
	b.name = name
	return b
}

// WithVersion sets the recorded version.
func (b *VariantBuilder) WithVersion(version string) *VariantBuilder {
	b.version = version
	return b
}

// WithSHA sets the recorded commit.
func (b *VariantBuilder) WithSHA(sha string) *VariantBuilder {
	b.sha = sha
	return b
}

// WithCheckver sets the detection policy.
func (b *VariantBuilder) WithCheckver(checkver entities.Checkver) *VariantBuilder {
	b.checkver = checkver
	return b
}

// WithProcessFiles sets the files to template-substitute.
func (b *VariantBuilder) WithProcessFiles(files ...string) *VariantBuilder {
	b.processFiles = files
	return b
}

// Build creates the variant (satisfies testkit.Builder interface).
func (b *VariantBuilder) Build() interface{} {
	return b.BuildVariant()
}

// BuildVariant creates the variant with a concrete return type.
func (b *VariantBuilder) BuildVariant() entities.Variant {
	return entities.Variant{
		Name:         b.name,
		Version:      b.version,
		SHA:          b.sha,
		Enabled:      true,
		Checkver:     b.checkver,
		ProcessFiles: append([]string(nil), b.processFiles...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *VariantBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = defaultVariantName
	b.version = defaultVariantVersion
	b.sha = defaultVariantSHA
	b.checkver = entities.TagCheck{Upstream: entities.Upstream{Repo: defaultVariantRepo}}
	b.processFiles = nil
	return b
}

// Clone creates a deep copy of the VariantBuilder.
func (b *VariantBuilder) Clone() testkit.Builder {
	return &VariantBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:         b.name,
		version:      b.version,
		sha:          b.sha,
		checkver:     b.checkver,
		processFiles: append([]string(nil), b.processFiles...),
	}
}
