package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

var errNoVariants = errors.New("variants must be a non-empty mapping")

// variantDocument is the on-disk shape of one variant.
type variantDocument struct {
	Version  string                 `yaml:"version"`
	SHA      string                 `yaml:"sha"`
	Enabled  *bool                  `yaml:"enabled"`
	Checkver *entities.CheckverSpec `yaml:"checkver"`
}

// CatalogRepository reads application configuration files (meta.json,
// meta.yaml) from the workspace.
type CatalogRepository struct{}

// NewCatalogRepository creates the workspace catalog.
func NewCatalogRepository() repositories.CatalogRepository {
	return &CatalogRepository{}
}

func (it *CatalogRepository) Load(ctx context.Context, settings *entities.Settings) (*entities.Catalog, error) {
	workspace := settings.Workspace
	if info, err := os.Stat(workspace); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return nil, fmt.Errorf("workspace %q is not readable: %w", workspace, err)
	}

	catalog := &entities.Catalog{}
	for _, root := range settings.SearchRoots() {
		rootDir := filepath.Join(workspace, root)
		if info, err := os.Stat(rootDir); err != nil || !info.IsDir() {
			logger.Debugf("[catalog] root %q not found, skipping", root)
			continue
		}

		walkErr := filepath.WalkDir(rootDir, func(current string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if !entry.IsDir() {
				return nil
			}
			if current != rootDir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			it.loadDirectory(settings, current, catalog)
			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("failed to scan %q: %w", rootDir, walkErr)
		}
	}

	logger.Infof(
		"[catalog] loaded %d applications (%d failed, %d skipped)",
		len(catalog.Applications), len(catalog.Failures), len(catalog.Skipped),
	)
	return catalog, nil
}

// loadDirectory loads the first configuration file of dir, in the preference
// order of settings.ConfigFiles.
func (it *CatalogRepository) loadDirectory(settings *entities.Settings, dir string, catalog *entities.Catalog) {
	for _, name := range settings.ConfigFiles {
		file := filepath.Join(dir, name)
		if _, err := os.Stat(file); err != nil {
			continue
		}

		relative, err := filepath.Rel(settings.Workspace, file)
		if err != nil {
			relative = file
		}
		relative = filepath.ToSlash(relative)
		if !settings.WantsContext(path.Dir(relative)) {
			return
		}

		content, err := os.ReadFile(file)
		if err != nil {
			catalog.Failures = append(catalog.Failures, entities.NewLoadFailure(relative, err))
			return
		}
		app, err := it.Parse(content, relative)
		if err != nil {
			logger.Warnf("[catalog] invalid configuration %s: %v", relative, err)
			catalog.Failures = append(catalog.Failures, entities.NewLoadFailure(relative, err))
			return
		}
		if app.Skip {
			logger.Infof("[catalog] skipping %s", app.Context)
			catalog.Skipped = append(catalog.Skipped, app.Context)
			return
		}
		catalog.Applications = append(catalog.Applications, app)
		return
	}
}

func (it *CatalogRepository) Parse(content []byte, configFile string) (entities.Application, error) {
	configFile = filepath.ToSlash(configFile)
	app := entities.Application{
		Context:    path.Dir(configFile),
		ConfigFile: configFile,
	}

	document, err := decodeDocument(content, configFile)
	if err != nil {
		return app, err
	}
	root := rootMapping(document)

	app.Name = path.Base(app.Context)
	if node := lookup(root, "name"); node != nil && node.Value != "" {
		app.Name = node.Value
	}
	if node := lookup(root, "skip"); node != nil {
		if err = node.Decode(&app.Skip); err != nil {
			return app, fmt.Errorf("skip: %w", err)
		}
	}

	variants := lookup(root, "variants")
	if variants == nil || variants.Kind != yaml.MappingNode || len(variants.Content) == 0 {
		return app, errNoVariants
	}

	for i := 0; i+1 < len(variants.Content); i += 2 {
		name := variants.Content[i].Value
		variant, enabled, variantErr := parseVariant(name, variants.Content[i+1])
		if variantErr != nil {
			return app, fmt.Errorf("variant %q: %w", name, variantErr)
		}
		if !enabled {
			logger.Debugf("[catalog] variant %s of %s is disabled", name, app.Context)
			continue
		}
		app.Variants = append(app.Variants, variant)
	}
	return app, nil
}

func parseVariant(name string, node *yaml.Node) (entities.Variant, bool, error) {
	var document variantDocument
	if err := node.Decode(&document); err != nil {
		return entities.Variant{}, false, err
	}

	enabled := document.Enabled == nil || *document.Enabled
	variant := entities.Variant{
		Name:    name,
		Version: document.Version,
		SHA:     document.SHA,
		Enabled: enabled,
	}
	if !enabled {
		return variant, false, nil
	}
	if document.Checkver == nil {
		return variant, false, fmt.Errorf("%w: checkver is required", entities.ErrInvalidCheckver)
	}

	checkver, err := document.Checkver.Build()
	if err != nil {
		return variant, false, err
	}
	variant.Checkver = checkver
	variant.ProcessFiles = document.Checkver.ProcessFiles
	return variant, true, nil
}

func (it *CatalogRepository) Rewrite(
	content []byte,
	configFile string,
	pairs map[string]entities.VersionPair,
) ([]byte, error) {
	document, err := decodeDocument(content, configFile)
	if err != nil {
		return nil, err
	}

	variants := lookup(rootMapping(document), "variants")
	if variants == nil || variants.Kind != yaml.MappingNode {
		return nil, errNoVariants
	}
	for name, pair := range pairs {
		variant := lookup(variants, name)
		if variant == nil || variant.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("variant %q not found in %s", name, configFile)
		}
		setVersionPair(variant, pair.Version, pair.SHA)
	}

	return encodeDocument(document, configFile, content)
}
