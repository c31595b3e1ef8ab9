//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// StubCatalogRepository implements repositories.CatalogRepository. Parse and
// Rewrite delegate to Delegate when set.
type StubCatalogRepository struct {
	Catalog  *entities.Catalog
	LoadErr  error
	Delegate repositories.CatalogRepository

	LoadCalls int
}

var _ repositories.CatalogRepository = (*StubCatalogRepository)(nil)

func (s *StubCatalogRepository) Load(_ context.Context, _ *entities.Settings) (*entities.Catalog, error) {
	s.LoadCalls++
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Catalog == nil {
		return &entities.Catalog{}, nil
	}
	return s.Catalog, nil
}

func (s *StubCatalogRepository) Parse(content []byte, configFile string) (entities.Application, error) {
	if s.Delegate == nil {
		return entities.Application{}, nil
	}
	return s.Delegate.Parse(content, configFile)
}

func (s *StubCatalogRepository) Rewrite(
	content []byte,
	configFile string,
	pairs map[string]entities.VersionPair,
) ([]byte, error) {
	if s.Delegate == nil {
		return content, nil
	}
	return s.Delegate.Rewrite(content, configFile, pairs)
}
