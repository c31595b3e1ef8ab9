package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// List is the interface for the list command.
type List interface {
	Execute(ctx context.Context, settings *entities.Settings, out io.Writer) error
}

// ListCommand prints the tracked variants of the catalog without touching
// any upstream repository.
type ListCommand struct {
	catalog repositories.CatalogRepository
}

// NewListCommand creates a new ListCommand.
func NewListCommand(catalog repositories.CatalogRepository) *ListCommand {
	return &ListCommand{catalog: catalog}
}

func (it *ListCommand) Execute(ctx context.Context, settings *entities.Settings, out io.Writer) error {
	catalog, err := it.catalog.Load(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to load the catalog: %w", err)
	}

	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "CONTEXT\tVARIANT\tTYPE\tVERSION\tSHA\tSOURCE")
	for _, app := range catalog.Applications {
		for _, variant := range app.Variants {
			source := "-"
			if upstream, ok := entities.UpstreamOf(variant.Checkver); ok {
				source = entities.RepoDisplayName(upstream.RepoURL())
			}
			fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
				app.Context, variant.Name, variant.Checkver.Type(),
				orNotAvailable(variant.Version), orNotAvailable(entities.ShortSHA(variant.SHA)), source)
		}
	}
	if err = writer.Flush(); err != nil {
		return err
	}

	for _, failure := range catalog.Failures {
		logger.Warnf("[%s] not loaded: %s", failure.Context, failure.Error)
	}
	return nil
}
