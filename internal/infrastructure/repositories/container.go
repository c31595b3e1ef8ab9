package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/checkver/internal/domain/repositories"
	catalogRepo "github.com/rios0rios0/checkver/internal/infrastructure/repositories/catalog"
	manifestRepo "github.com/rios0rios0/checkver/internal/infrastructure/repositories/manifest"
	strategyRepo "github.com/rios0rios0/checkver/internal/infrastructure/repositories/strategies"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(catalogRepo.NewCatalogRepository); err != nil {
		return err
	}

	// Register manifest registry with all structured readers
	if err := container.Provide(func() *ManifestRegistry {
		reg := NewManifestRegistry()
		reg.Register(manifestRepo.NewJSONManifestRepository())
		reg.Register(manifestRepo.NewYAMLManifestRepository())
		reg.Register(manifestRepo.NewHCLManifestRepository())
		return reg
	}); err != nil {
		return err
	}

	// Register strategy registry with all version detection strategies
	if err := container.Provide(func(
		manifests *ManifestRegistry,
		catalog domainRepos.CatalogRepository,
	) *StrategyRegistry {
		reg := NewStrategyRegistry()
		reg.Register(strategyRepo.NewFileStrategyRepository(manifests))
		reg.Register(strategyRepo.NewSHAStrategyRepository())
		reg.Register(strategyRepo.NewTagStrategyRepository())
		reg.Register(strategyRepo.NewManualStrategyRepository(catalog))
		return reg
	}); err != nil {
		return err
	}

	if err := container.Provide(NewGitToolkit); err != nil {
		return err
	}

	return nil
}
