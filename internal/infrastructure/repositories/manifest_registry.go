package repositories

import (
	domainRepos "github.com/rios0rios0/checkver/internal/domain/repositories"
)

// ManifestRegistry manages the structured manifest readers of the file strategy.
type ManifestRegistry struct {
	readers []domainRepos.ManifestRepository
}

// NewManifestRegistry creates an empty manifest registry.
func NewManifestRegistry() *ManifestRegistry {
	return &ManifestRegistry{}
}

// Register adds a reader. Readers are matched in registration order.
func (r *ManifestRegistry) Register(reader domainRepos.ManifestRepository) {
	r.readers = append(r.readers, reader)
}

// Find returns the reader handling file, or nil for plain text files.
func (r *ManifestRegistry) Find(file string) domainRepos.ManifestRepository {
	for _, reader := range r.readers {
		if reader.Matches(file) {
			return reader
		}
	}
	return nil
}
