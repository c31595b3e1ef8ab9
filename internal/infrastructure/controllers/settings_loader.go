package controllers

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/checkver/internal/domain/entities"
)

// loadSettings reads the file given with --config, or the first one found in
// the default locations, and applies the command-line overrides shared by
// every subcommand. Defaults are used when no file exists.
func loadSettings(ctx context.Context, cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("no config file found, using defaults: %v", err)
		} else {
			configPath = found
		}
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewSettings(ctx, configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("workspace") {
		settings.Workspace, _ = flags.GetString("workspace")
	}
	if flags.Changed("cache-dir") {
		settings.CacheDir, _ = flags.GetString("cache-dir")
	}
	if flags.Changed("concurrency") {
		settings.Concurrency, _ = flags.GetInt("concurrency")
		if settings.Concurrency < 1 {
			return nil, errors.New("--concurrency must be at least 1")
		}
	}
	if flags.Changed("include-test") {
		settings.IncludeTest, _ = flags.GetBool("include-test")
	}
	if flags.Changed("context") {
		settings.Contexts, _ = flags.GetStringSlice("context")
	}
	return settings, nil
}

// addCatalogFlags adds the flags selecting which part of the catalog is read.
func addCatalogFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("workspace", "w", "", "Catalog repository root (default: current directory)")
	cmd.Flags().Bool("include-test", false, "Also scan the test root")
	cmd.Flags().StringSlice("context", nil, "Only process these application contexts (repeatable)")
}
