package repositories

import (
	"context"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// CatalogRepository discovers the application configuration files of the
// workspace and rewrites them after an update.
type CatalogRepository interface {
	// Load returns every application under the configured roots. Unreadable or
	// invalid configurations are returned as failed reports, not as errors.
	Load(ctx context.Context, settings *entities.Settings) (*entities.Catalog, error)

	// Parse decodes one configuration file.
	Parse(content []byte, configFile string) (entities.Application, error)

	// Rewrite returns content with the (version, sha) pair of each named
	// variant replaced, keeping every other field and the key order.
	Rewrite(content []byte, configFile string, pairs map[string]entities.VersionPair) ([]byte, error)
}
