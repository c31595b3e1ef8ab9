package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

var errNoVersionField = errors.New("no version field")

// JSONManifestRepository reads the "version" field of npm, composer and
// web-extension manifests.
type JSONManifestRepository struct {
	files []string
}

// NewJSONManifestRepository creates the JSON manifest reader.
func NewJSONManifestRepository() repositories.ManifestRepository {
	return &JSONManifestRepository{files: []string{"package.json", "composer.json", "manifest.json"}}
}

func (it *JSONManifestRepository) Name() string { return "json" }

func (it *JSONManifestRepository) Matches(file string) bool {
	return slices.Contains(it.files, filepath.Base(file))
}

func (it *JSONManifestRepository) Version(content []byte, file string) (string, error) {
	var document struct {
		Version *string `json:"version"`
	}
	if err := json.Unmarshal(content, &document); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", file, err)
	}
	if document.Version == nil {
		return "", fmt.Errorf("%s: %w", file, errNoVersionField)
	}
	return *document.Version, nil
}
