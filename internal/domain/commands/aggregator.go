package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// Aggregator turns the outdated results of an application into an update
// record: rendered files, rewritten configuration, description and draft.
type Aggregator struct {
	catalog   repositories.CatalogRepository
	workspace fs.FS
	settings  *entities.Settings
}

// NewAggregator creates an aggregator reading files from workspace.
func NewAggregator(
	catalog repositories.CatalogRepository,
	workspace fs.FS,
	settings *entities.Settings,
) *Aggregator {
	return &Aggregator{catalog: catalog, workspace: workspace, settings: settings}
}

// Aggregate returns nil when no result needs an update. Any failure is an
// AggregationError.
func (it *Aggregator) Aggregate(
	app entities.Application,
	results []entities.CheckResult,
) (*entities.UpdateRecord, error) {
	outdated := make([]entities.CheckResult, 0, len(results))
	for _, result := range results {
		if result.NeedsUpdate {
			outdated = append(outdated, result)
		}
	}
	if len(outdated) == 0 {
		return nil, nil //nolint:nilnil // nothing to aggregate
	}

	record := &entities.UpdateRecord{
		Name:     app.Name,
		Context:  app.Context,
		Variants: make([]entities.VariantUpdate, 0, len(outdated)),
		Files:    []entities.FileChange{},
	}

	rendered, order, err := it.renderProcessFiles(app, outdated)
	if err != nil {
		return nil, &entities.AggregationError{Context: app.Context, Err: err}
	}
	for _, file := range order {
		record.Files = append(record.Files, entities.FileChange{
			Path: file, Content: rendered[file], ChangeType: entities.ChangeTypeEdit,
		})
	}

	config, err := it.rewriteConfig(app, outdated)
	if err != nil {
		return nil, &entities.AggregationError{Context: app.Context, Err: err}
	}
	record.Files = append(record.Files, *config)

	for _, result := range outdated {
		record.Variants = append(record.Variants, variantUpdate(app, result))
	}

	if it.settings.Changelog {
		if changelog := it.changelog(path.Join(app.Context, entities.ChangelogFile), *record); changelog != nil {
			record.Files = append(record.Files, *changelog)
		}
	}

	record.Description = BuildDescription(app, record.Variants)
	record.PullRequest = it.draft(app, record)
	return record, nil
}

// renderProcessFiles substitutes placeholders in every process file of the
// outdated variants. A file shared by several variants is rendered from the
// output of the previous variant. Unchanged files are dropped.
func (it *Aggregator) renderProcessFiles(
	app entities.Application,
	outdated []entities.CheckResult,
) (map[string]string, []string, error) {
	configName := path.Base(app.ConfigFile)
	original := map[string]string{}
	current := map[string]string{}
	order := []string{}

	for _, result := range outdated {
		variant, ok := app.Variant(result.VariantName)
		if !ok {
			return nil, nil, fmt.Errorf("variant %q is not part of %s", result.VariantName, app.Context)
		}
		placeholders := entities.NewPlaceholderMap(result.Previous, result.Resolved)

		for _, file := range variant.Files() {
			if path.Base(file) == configName {
				logger.Warnf("[aggregate] %s: skipping %s in processFiles of %s, it is rewritten separately",
					app.Context, file, variant.Name)
				continue
			}

			filePath := path.Join(app.Context, file)
			content, seen := current[filePath]
			if !seen {
				data, readErr := fs.ReadFile(it.workspace, filePath)
				if errors.Is(readErr, fs.ErrNotExist) {
					logger.Warnf("[aggregate] %s not found, skipping", filePath)
					continue
				}
				if readErr != nil {
					return nil, nil, fmt.Errorf("failed to read %s: %w", filePath, readErr)
				}
				content = string(data)
				original[filePath] = content
				order = append(order, filePath)
			}
			current[filePath] = entities.ResolveTemplate(content, placeholders)
		}
	}

	changed := make([]string, 0, len(order))
	for _, filePath := range order {
		if current[filePath] == original[filePath] {
			logger.Infof("[aggregate] no changes in %s, skipping", filePath)
			delete(current, filePath)
			continue
		}
		changed = append(changed, filePath)
	}
	return current, changed, nil
}

func (it *Aggregator) rewriteConfig(
	app entities.Application,
	outdated []entities.CheckResult,
) (*entities.FileChange, error) {
	content, err := fs.ReadFile(it.workspace, app.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", app.ConfigFile, err)
	}

	pairs := make(map[string]entities.VersionPair, len(outdated))
	for _, result := range outdated {
		pairs[result.VariantName] = result.Resolved
	}
	rewritten, err := it.catalog.Rewrite(content, app.ConfigFile, pairs)
	if err != nil {
		return nil, err
	}
	return &entities.FileChange{
		Path:       app.ConfigFile,
		Content:    string(rewritten),
		ChangeType: entities.ChangeTypeEdit,
	}, nil
}

func (it *Aggregator) changelog(file string, record entities.UpdateRecord) *entities.FileChange {
	content, err := fs.ReadFile(it.workspace, file)
	if err != nil {
		logger.Debugf("[aggregate] no %s to update: %v", file, err)
		return nil
	}
	updated, ok := entities.InsertChangelogEntries(string(content), entities.ChangelogEntries(record))
	if !ok {
		logger.Warnf("[aggregate] %s has no Unreleased section", file)
		return nil
	}
	return &entities.FileChange{
		Path:       file,
		Content:    updated,
		ChangeType: entities.ChangeTypeEdit,
	}
}

func (it *Aggregator) draft(app entities.Application, record *entities.UpdateRecord) *entities.PullRequestDraft {
	settings := it.settings.PullRequest
	title := fmt.Sprintf("%s(%s): %s", settings.BranchPrefix, app.Context, summarize(record.Variants))
	branch := settings.BranchPrefix + "/" + strings.ReplaceAll(app.Context, "/", "-")
	labels := append([]string{app.Name}, settings.Labels...)

	return &entities.PullRequestDraft{
		Input: entities.PullRequestInput{
			SourceBranch: branch,
			TargetBranch: settings.BaseBranch,
			Title:        title,
			Description:  record.Description,
			AutoComplete: settings.AutoComplete,
		},
		BranchName:    branch,
		CommitMessage: title,
		Labels:        labels,
	}
}

func summarize(updates []entities.VariantUpdate) string {
	parts := make([]string, 0, len(updates))
	for _, update := range updates {
		parts = append(parts, fmt.Sprintf("update %s version to %s", update.Name, update.NewVersion))
	}
	return strings.Join(parts, ", ")
}

func variantUpdate(app entities.Application, result entities.CheckResult) entities.VariantUpdate {
	update := entities.VariantUpdate{
		Name:       result.VariantName,
		OldVersion: result.Previous.Version,
		NewVersion: result.Resolved.Version,
		OldSHA:     result.Previous.SHA,
		NewSHA:     result.Resolved.SHA,
		Kind:       entities.AnalyzeVersionChange(result.Previous.Version, result.Resolved.Version),
		CommitInfo: result.CommitInfo,
	}
	if update.Kind == entities.ChangeDowngrade {
		logger.Warnf("[aggregate] %s: %s goes back from %s to %s",
			app.Context, result.VariantName, result.Previous.Version, result.Resolved.Version)
	}
	if variant, ok := app.Variant(result.VariantName); ok {
		if upstream, hasUpstream := entities.UpstreamOf(variant.Checkver); hasUpstream {
			update.Repo = strings.TrimSuffix(upstream.RepoURL(), ".git")
		}
	}
	return update
}
