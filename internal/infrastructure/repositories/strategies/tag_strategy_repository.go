package strategies

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// TagStrategyRepository versions an upstream by its newest matching tag.
type TagStrategyRepository struct{}

// NewTagStrategyRepository creates the tag strategy.
func NewTagStrategyRepository() repositories.StrategyRepository {
	return &TagStrategyRepository{}
}

func (it *TagStrategyRepository) Name() entities.CheckType { return entities.CheckTypeTag }

func (it *TagStrategyRepository) Resolve(
	ctx context.Context,
	input repositories.StrategyInput,
) (*entities.VersionPair, error) {
	check, ok := input.Variant.Checkver.(entities.TagCheck)
	if !ok {
		return nil, entities.NewExtractionError(it.Name(), "variant is not a tag check", nil)
	}

	tags, err := input.Cache.Tags(ctx, input.Dir)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to list tags", err)
	}
	if len(tags) == 0 {
		return nil, entities.NewExtractionError(it.Name(), "no tags found in "+check.Repo, nil)
	}

	tag, err := selectTag(tags, check.TagPattern)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), err.Error(), nil)
	}

	sha, err := input.Cache.TagSHA(ctx, input.Dir, tag)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to resolve tag "+tag, err)
	}

	logger.Debugf("[tag] %s resolved to %s (%s)", input.Variant.Name, tag, entities.ShortSHA(sha))
	return &entities.VersionPair{Version: strings.TrimPrefix(tag, "v"), SHA: sha}, nil
}

// selectTag returns the first tag (newest first) that is a strict semantic
// version, or the first one matching pattern when a pattern is given.
func selectTag(tags []string, pattern string) (string, error) {
	if pattern == "" {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if _, ok := cleanVersion(tag); ok {
				return tag, nil
			}
		}
		return "", fmt.Errorf("no semantic version tag among %d tags", len(tags))
	}

	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
	}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if matcher.MatchString(tag) {
			return tag, nil
		}
	}
	return "", fmt.Errorf("no tag matches pattern %q", pattern)
}
