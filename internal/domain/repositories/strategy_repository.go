package repositories

import (
	"context"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// StrategyInput carries everything a strategy needs to resolve one variant.
type StrategyInput struct {
	Application entities.Application
	Variant     entities.Variant
	// Dir is the cache working directory of the upstream; empty for strategies
	// without upstream.
	Dir     string
	Cache   CacheRepository
	History HistoryRepository
}

// StrategyRepository abstracts one version detection strategy (file, sha,
// tag, manual).
type StrategyRepository interface {
	// Name returns the check type handled by the strategy.
	Name() entities.CheckType

	// Resolve returns the latest upstream (version, sha) pair, or a
	// VersionExtractionError when no version can be produced.
	Resolve(ctx context.Context, input StrategyInput) (*entities.VersionPair, error)
}

// ManifestRepository reads the version field of a structured manifest file.
type ManifestRepository interface {
	Name() string
	// Matches returns true if the file name is handled by this reader.
	Matches(file string) bool
	Version(content []byte, file string) (string, error)
}
