package manifest

import (
	"fmt"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// YAMLManifestRepository reads the "version" field of Helm charts and Dart
// pubspecs.
type YAMLManifestRepository struct {
	files []string
}

// NewYAMLManifestRepository creates the YAML manifest reader.
func NewYAMLManifestRepository() repositories.ManifestRepository {
	return &YAMLManifestRepository{files: []string{"Chart.yaml", "pubspec.yaml"}}
}

func (it *YAMLManifestRepository) Name() string { return "yaml" }

func (it *YAMLManifestRepository) Matches(file string) bool {
	return slices.Contains(it.files, filepath.Base(file))
}

func (it *YAMLManifestRepository) Version(content []byte, file string) (string, error) {
	var document struct {
		Version *string `yaml:"version"`
	}
	if err := yaml.Unmarshal(content, &document); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if document.Version == nil {
		return "", fmt.Errorf("%s: %w", file, errNoVersionField)
	}
	return *document.Version, nil
}
