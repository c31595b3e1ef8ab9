//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

const defaultApplicationContext = "apps/demo"

// ApplicationBuilder helps create test applications with a fluent interface.
type ApplicationBuilder struct {
	*testkit.BaseBuilder
	name       string
	context    string
	configFile string
	variants   []entities.Variant
}

// NewApplicationBuilder creates an application builder for apps/demo.
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "demo",
		context:     defaultApplicationContext,
	}
}

// WithName sets the application name.
func (b *ApplicationBuilder) WithName(name string) *ApplicationBuilder {
	b.name = name
	return b
}

// WithContext sets the application directory.
func (b *ApplicationBuilder) WithContext(context string) *ApplicationBuilder {
	b.context = context
	return b
}

// WithConfigFile sets the configuration file name inside the context.
func (b *ApplicationBuilder) WithConfigFile(name string) *ApplicationBuilder {
	b.configFile = name
	return b
}

// WithVariant appends a variant.
func (b *ApplicationBuilder) WithVariant(variant entities.Variant) *ApplicationBuilder {
	b.variants = append(b.variants, variant)
	return b
}

// Build creates the application (satisfies testkit.Builder interface).
func (b *ApplicationBuilder) Build() interface{} {
	return b.BuildApplication()
}

// BuildApplication creates the application with a concrete return type.
func (b *ApplicationBuilder) BuildApplication() entities.Application {
	configFile := b.configFile
	if configFile == "" {
		configFile = "meta.json"
	}
	return entities.Application{
		Name:       b.name,
		Context:    b.context,
		ConfigFile: path.Join(b.context, configFile),
		Variants:   append([]entities.Variant(nil), b.variants...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ApplicationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "demo"
	b.context = defaultApplicationContext
	b.configFile = ""
	b.variants = nil
	return b
}

// Clone creates a deep copy of the ApplicationBuilder.
func (b *ApplicationBuilder) Clone() testkit.Builder {
	return &ApplicationBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		context:     b.context,
		configFile:  b.configFile,
		variants:    append([]entities.Variant(nil), b.variants...),
	}
}
