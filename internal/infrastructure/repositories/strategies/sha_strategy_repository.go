package strategies

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// SHAStrategyRepository versions an upstream by its abbreviated HEAD commit.
type SHAStrategyRepository struct{}

// NewSHAStrategyRepository creates the sha strategy.
func NewSHAStrategyRepository() repositories.StrategyRepository {
	return &SHAStrategyRepository{}
}

func (it *SHAStrategyRepository) Name() entities.CheckType { return entities.CheckTypeSHA }

func (it *SHAStrategyRepository) Resolve(
	ctx context.Context,
	input repositories.StrategyInput,
) (*entities.VersionPair, error) {
	check, ok := input.Variant.Checkver.(entities.SHACheck)
	if !ok {
		return nil, entities.NewExtractionError(it.Name(), "variant is not a sha check", nil)
	}

	sha, err := input.Cache.HeadSHA(ctx, input.Dir, check.Path)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to read HEAD", err)
	}
	if sha == "" {
		return nil, entities.NewExtractionError(it.Name(), "no commit found", nil)
	}

	logger.Debugf("[sha] %s resolved to %s", input.Variant.Name, sha)
	return &entities.VersionPair{Version: entities.ShortSHA(sha), SHA: sha}, nil
}
