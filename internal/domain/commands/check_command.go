package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/checkver/internal/infrastructure/repositories"
)

const appliedFileMode = 0o644

// Check is the interface for the check command.
type Check interface {
	Execute(ctx context.Context, settings *entities.Settings, opts CheckOptions) (*entities.RunReport, error)
}

// CheckOptions holds runtime options for a single run.
type CheckOptions struct {
	Verbose bool
	Apply   bool // write the rendered file changes into the workspace
	Color   bool
}

// CheckCommand resolves the latest upstream version of every variant in the
// catalog and aggregates the outdated ones into update records:
// load catalog -> ensure upstream clones -> resolve -> diff -> aggregate.
type CheckCommand struct {
	catalog    repositories.CatalogRepository
	strategies *infraRepos.StrategyRegistry
	toolkit    *infraRepos.GitToolkit
	clock      clockwork.Clock
	apply      func(workspace string, files []entities.FileChange) error
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	catalog repositories.CatalogRepository,
	strategies *infraRepos.StrategyRegistry,
	toolkit *infraRepos.GitToolkit,
	clock clockwork.Clock,
) *CheckCommand {
	return &CheckCommand{
		catalog:    catalog,
		strategies: strategies,
		toolkit:    toolkit,
		clock:      clock,
		apply:      applyChanges,
	}
}

// runScope holds what every application check of one run shares.
type runScope struct {
	id       string
	settings *entities.Settings
	upstream infraRepos.UpstreamAccess
	history  repositories.HistoryRepository
	labels   map[string]string
}

// checkedApplication pairs an application with its report.
type checkedApplication struct {
	app    entities.Application
	report entities.ApplicationReport
}

// Execute runs a full check. On run deadline expiry the partial report is
// returned together with an error wrapping ErrRunDeadlineExceeded.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	opts CheckOptions,
) (*entities.RunReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	runCtx := ctx
	if settings.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, settings.RunTimeout)
		defer cancel()
	}

	report := &entities.RunReport{
		RunID:        uuid.NewString(),
		StartedAt:    it.clock.Now(),
		Applications: []entities.ApplicationReport{},
		Updates:      []entities.UpdateRecord{},
	}
	runLog := logger.WithField("run", report.RunID)

	catalog, err := it.catalog.Load(runCtx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to load the catalog: %w", err)
	}
	report.Applications = append(report.Applications, catalog.Failures...)
	runLog.Infof("Checking %d applications with concurrency %d", len(catalog.Applications), settings.Concurrency)

	scope := &runScope{
		id:       report.RunID,
		settings: settings,
		upstream: it.toolkit.NewUpstream(settings),
		labels:   make(map[string]string, len(catalog.Applications)),
	}
	if history, historyErr := it.toolkit.OpenHistory(settings.Workspace); historyErr != nil {
		runLog.Debugf("workspace history not available, manual checks will yield no result: %v", historyErr)
	} else {
		scope.history = history
	}
	colors := entities.NewColorCycle(len(catalog.Applications), opts.Color)
	for _, app := range catalog.Applications {
		scope.labels[app.Context] = colors.Paint(app.Context)
	}

	checked := Schedule(
		runCtx,
		catalog.Applications,
		settings.Concurrency,
		func(ctx context.Context, app entities.Application) (checkedApplication, error) {
			return checkedApplication{app: app, report: it.checkApplication(ctx, scope, app)}, nil
		},
		func(app entities.Application, err error) checkedApplication {
			failed := newApplicationReport(app)
			failed.Fail(err)
			return checkedApplication{app: app, report: failed}
		},
	)

	aggregator := NewAggregator(it.catalog, os.DirFS(settings.Workspace), settings)
	for _, item := range checked {
		appReport := item.report
		if appReport.Status == entities.StatusChecking {
			record, aggregateErr := aggregator.Aggregate(item.app, appReport.Results)
			switch {
			case aggregateErr != nil:
				runLog.Errorf("[%s] %v", scope.labels[item.app.Context], aggregateErr)
				appReport.Fail(aggregateErr)
			case record == nil:
				appReport.Status = entities.StatusNoUpdate
			default:
				appReport.Status = entities.StatusUpdated
				report.Updates = append(report.Updates, *record)
				if opts.Apply {
					if applyErr := it.apply(settings.Workspace, record.Files); applyErr != nil {
						report.Applications = append(report.Applications, appReport)
						report.FinishedAt = it.clock.Now()
						return report, fmt.Errorf("failed to apply the changes of %s: %w", item.app.Context, applyErr)
					}
				}
			}
		}
		report.Applications = append(report.Applications, appReport)
	}

	slices.SortStableFunc(report.Applications, func(a, b entities.ApplicationReport) int {
		return strings.Compare(a.Context, b.Context)
	})
	report.FinishedAt = it.clock.Now()

	stats := report.Stats()
	runLog.Infof(
		"Run complete: %d applications, %d variants checked, %d outdated, %d updated, %d failed",
		stats.Applications, stats.Variants, stats.OutdatedVariants, stats.Updated, stats.Failed,
	)

	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return report, fmt.Errorf("%w after %s", entities.ErrRunDeadlineExceeded, settings.RunTimeout)
	}
	return report, nil
}

// checkApplication resolves every variant of app sequentially, so that
// variants sharing an upstream never use its cache entry concurrently.
func (it *CheckCommand) checkApplication(
	ctx context.Context,
	scope *runScope,
	app entities.Application,
) entities.ApplicationReport {
	started := it.clock.Now()
	label := scope.labels[app.Context]
	appLog := logger.WithFields(logger.Fields{"run": scope.id, "app": app.Context})

	report := newApplicationReport(app)
	report.Status = entities.StatusChecking

	for _, variant := range app.Variants {
		variantLog := appLog.WithField("variant", variant.Name)
		result, err := it.checkVariant(ctx, scope, app, variant)
		if err == nil {
			report.Results = append(report.Results, *result)
			if result.NeedsUpdate {
				variantLog.Infof("[%s] %s: %s => %s", label, variant.Name,
					orNotAvailable(result.Previous.Version), result.Resolved.Version)
			}
			continue
		}

		if entities.IsExtraction(err) && ctx.Err() == nil {
			variantLog.Warnf("[%s] %s yielded no result: %v", label, variant.Name, err)
			continue
		}

		variantLog.Errorf("[%s] check failed: %v", label, err)
		report.Fail(err)
		break
	}

	if report.Status == entities.StatusChecking && len(report.Outdated()) == 0 {
		report.Status = entities.StatusNoUpdate
		appLog.Debugf("[%s] up to date", label)
	}
	report.Duration = it.clock.Since(started)
	return report
}

func (it *CheckCommand) checkVariant(
	ctx context.Context,
	scope *runScope,
	app entities.Application,
	variant entities.Variant,
) (*entities.CheckResult, error) {
	strategy, err := it.strategies.Get(variant.Checkver.Type())
	if err != nil {
		return nil, err
	}

	input := repositories.StrategyInput{
		Application: app,
		Variant:     variant,
		Cache:       scope.upstream.Cache,
		History:     scope.history,
	}
	upstream, hasUpstream := entities.UpstreamOf(variant.Checkver)
	if hasUpstream {
		input.Dir, err = scope.upstream.Cache.Ensure(ctx, repositories.EnsureInput{
			RepoURL:        upstream.RepoURL(),
			Context:        app.Context,
			Branch:         upstream.Branch,
			TargetRevision: upstream.TargetVersion,
		})
		if err != nil {
			return nil, err
		}
	}

	pair, err := strategy.Resolve(ctx, input)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	baseline := variant.Pair()
	if hasUpstream {
		baseline.SHA = it.expandSHA(ctx, scope, input.Dir, baseline.SHA)
	}

	var info *entities.CommitDiffInfo
	if hasUpstream && pair.Differs(baseline) {
		info = scope.upstream.Diff.Collect(ctx, input.Dir, pair.SHA, baseline.SHA)
	}
	result := entities.NewCheckResultAgainst(variant, baseline, *pair, info)
	return &result, nil
}

// expandSHA resolves an abbreviated recorded SHA against the upstream clone.
// The recorded value is kept when the clone does not know it.
func (it *CheckCommand) expandSHA(ctx context.Context, scope *runScope, dir, sha string) string {
	if !entities.IsAbbreviatedSHA(sha) {
		return sha
	}
	full, err := scope.upstream.Cache.FullSHA(ctx, dir, sha)
	if err != nil || full == "" {
		logger.WithField("run", scope.id).Debugf("[check] cannot expand recorded sha %s: %v", sha, err)
		return sha
	}
	return full
}

func newApplicationReport(app entities.Application) entities.ApplicationReport {
	return entities.ApplicationReport{
		Context: app.Context,
		Name:    app.Name,
		Status:  entities.StatusLoaded,
		Results: []entities.CheckResult{},
	}
}

// applyChanges writes file changes relative to the workspace root.
func applyChanges(workspace string, files []entities.FileChange) error {
	for _, file := range files {
		target := filepath.Join(workspace, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", file.Path, err)
		}
		if err := os.WriteFile(target, []byte(file.Content), appliedFileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
		logger.Debugf("[apply] wrote %s", file.Path)
	}
	return nil
}
