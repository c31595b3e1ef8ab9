package strategies

import (
	"context"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// ManifestFinder returns the structured reader for a file, or nil.
type ManifestFinder interface {
	Find(file string) repositories.ManifestRepository
}

// FileStrategyRepository reads the version from a file of the upstream.
type FileStrategyRepository struct {
	manifests ManifestFinder
}

// NewFileStrategyRepository creates the file strategy.
func NewFileStrategyRepository(manifests ManifestFinder) repositories.StrategyRepository {
	return &FileStrategyRepository{manifests: manifests}
}

func (it *FileStrategyRepository) Name() entities.CheckType { return entities.CheckTypeFile }

func (it *FileStrategyRepository) Resolve(
	ctx context.Context,
	input repositories.StrategyInput,
) (*entities.VersionPair, error) {
	check, ok := input.Variant.Checkver.(entities.FileCheck)
	if !ok {
		return nil, entities.NewExtractionError(it.Name(), "variant is not a file check", nil)
	}

	raw, err := input.Cache.ReadFile(input.Dir, check.File)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to read "+check.File, err)
	}

	value := raw
	if reader := it.manifests.Find(check.File); reader != nil {
		value, err = reader.Version([]byte(raw), check.File)
		if err != nil {
			return nil, entities.NewExtractionError(it.Name(), "failed to read manifest version", err)
		}
	}
	value = applyRegex(strings.TrimSpace(value), check)

	version, valid := cleanVersion(value)
	if !valid {
		return nil, entities.NewExtractionError(it.Name(), "invalid version format in "+check.File+": "+value, nil)
	}

	sha, err := input.Cache.FileSHA(ctx, input.Dir, check.Term(), check.File)
	if err != nil {
		return nil, entities.NewExtractionError(it.Name(), "failed to find the commit of "+check.File, err)
	}
	if sha == "" {
		return nil, entities.NewExtractionError(
			it.Name(), "no commit of "+check.File+" mentions "+check.Term(), nil,
		)
	}

	logger.Debugf("[file] %s resolved to %s (%s)", input.Variant.Name, version, entities.ShortSHA(sha))
	return &entities.VersionPair{Version: version, SHA: sha}, nil
}

// applyRegex returns capture group 1 of the check's regex, or value itself when
// there is no regex or it does not match.
func applyRegex(value string, check entities.FileCheck) string {
	if check.Regex == "" {
		return value
	}
	pattern, err := regexp.Compile(check.Regex)
	if err != nil {
		logger.Warnf("[file] invalid regex %q: %v", check.Regex, err)
		return value
	}
	match := pattern.FindStringSubmatch(value)
	if len(match) < 2 || match[1] == "" {
		logger.Warnf("[file] pattern %q not found in %s, using the raw value", check.Regex, check.File)
		return value
	}
	return strings.TrimSpace(match[1])
}
