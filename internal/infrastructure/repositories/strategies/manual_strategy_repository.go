package strategies

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

const previousRevision = "HEAD~1"

// ManualStrategyRepository detects hand-edited versions by comparing the
// configuration with its previous commit in the workspace.
type ManualStrategyRepository struct {
	catalog repositories.CatalogRepository
}

// NewManualStrategyRepository creates the manual strategy.
func NewManualStrategyRepository(catalog repositories.CatalogRepository) repositories.StrategyRepository {
	return &ManualStrategyRepository{catalog: catalog}
}

func (it *ManualStrategyRepository) Name() entities.CheckType { return entities.CheckTypeManual }

func (it *ManualStrategyRepository) Resolve(
	ctx context.Context,
	input repositories.StrategyInput,
) (*entities.VersionPair, error) {
	if input.History == nil {
		return nil, entities.NewExtractionError(it.Name(), "workspace history is not available", nil)
	}

	configFile := input.Application.ConfigFile
	previous, found, err := input.History.FileAt(ctx, previousRevision, configFile)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to read "+configFile+" at "+previousRevision, err)
	}

	if found && !it.changed(previous, configFile, input.Variant) {
		logger.Debugf("[manual] %s unchanged since %s", input.Variant.Name, previousRevision)
		pair := input.Variant.Pair()
		return &pair, nil
	}

	sha, err := input.History.LastCommit(ctx, configFile)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to find the last commit of "+configFile, err)
	}

	logger.Debugf("[manual] %s set to %s (%s)", input.Variant.Name, input.Variant.Version, entities.ShortSHA(sha))
	return &entities.VersionPair{Version: input.Variant.Version, SHA: sha}, nil
}

// changed reports whether the variant version differs from the one in the
// previous content. Unparsable previous content counts as a change.
func (it *ManualStrategyRepository) changed(previous, configFile string, variant entities.Variant) bool {
	app, err := it.catalog.Parse([]byte(previous), configFile)
	if err != nil {
		logger.Debugf("[manual] previous %s is not readable: %v", configFile, err)
		return true
	}
	before, ok := app.Variant(variant.Name)
	return !ok || before.Version != variant.Version
}
