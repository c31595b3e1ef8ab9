package repositories

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	domainRepos "github.com/rios0rios0/checkver/internal/domain/repositories"
)

// StrategyRegistry manages all registered version detection strategies.
type StrategyRegistry struct {
	strategies map[entities.CheckType]domainRepos.StrategyRepository
}

// NewStrategyRegistry creates an empty strategy registry.
func NewStrategyRegistry() *StrategyRegistry {
	return &StrategyRegistry{
		strategies: make(map[entities.CheckType]domainRepos.StrategyRepository),
	}
}

// Register adds a strategy under its check type.
func (r *StrategyRegistry) Register(s domainRepos.StrategyRepository) {
	r.strategies[s.Name()] = s
}

// Get returns the strategy for the given check type.
func (r *StrategyRegistry) Get(checkType entities.CheckType) (domainRepos.StrategyRepository, error) {
	strategy, ok := r.strategies[checkType]
	if !ok {
		return nil, fmt.Errorf(
			"%w: no strategy registered for %q (supported: %s)",
			entities.ErrInvalidCheckver, checkType, strings.Join(r.Names(), ", "),
		)
	}
	return strategy, nil
}

// Names returns the sorted list of registered check types.
func (r *StrategyRegistry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, string(name))
	}
	slices.Sort(names)
	return names
}
