package entities

import (
	"path"
	"path/filepath"
)

// Catalog is the result of discovering the applications of a workspace.
type Catalog struct {
	Applications []Application
	// Failures holds the applications whose configuration could not be loaded.
	Failures []ApplicationReport
	// Skipped holds the contexts of applications marked with skip.
	Skipped []string
}

// NewLoadFailure reports an application whose configuration could not be loaded.
func NewLoadFailure(configFile string, err error) ApplicationReport {
	context := filepath.ToSlash(filepath.Dir(configFile))
	report := ApplicationReport{
		Context: context,
		Name:    path.Base(context),
		Results: []CheckResult{},
	}
	report.Fail(err)
	return report
}

// Variant returns the variant with the given name.
func (a Application) Variant(name string) (Variant, bool) {
	for _, variant := range a.Variants {
		if variant.Name == name {
			return variant, true
		}
	}
	return Variant{}, false
}
