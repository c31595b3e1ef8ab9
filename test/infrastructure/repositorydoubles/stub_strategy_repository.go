//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"
	"time"

	"github.com/rios0rios0/checkver/internal/domain/entities"
	"github.com/rios0rios0/checkver/internal/domain/repositories"
)

// SpyStrategyRepository implements repositories.StrategyRepository. Results
// and errors are keyed by application context, then by variant name.
type SpyStrategyRepository struct {
	CheckType entities.CheckType
	Results   map[string]entities.VersionPair
	Errs      map[string]error
	Panics    map[string]bool
	Delay     time.Duration

	mu          sync.Mutex
	inFlight    int
	MaxInFlight int
	Inputs      []repositories.StrategyInput
}

var _ repositories.StrategyRepository = (*SpyStrategyRepository)(nil)

// Key builds the lookup key of a variant.
func Key(appContext, variant string) string {
	return appContext + "#" + variant
}

func (s *SpyStrategyRepository) Name() entities.CheckType { return s.CheckType }

func (s *SpyStrategyRepository) Resolve(
	ctx context.Context,
	input repositories.StrategyInput,
) (*entities.VersionPair, error) {
	s.mu.Lock()
	s.Inputs = append(s.Inputs, input)
	s.inFlight++
	if s.inFlight > s.MaxInFlight {
		s.MaxInFlight = s.inFlight
	}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	key := Key(input.Application.Context, input.Variant.Name)
	if s.Panics[key] {
		panic("strategy exploded for " + key)
	}
	if err, ok := s.Errs[key]; ok {
		return nil, err
	}
	pair, ok := s.Results[key]
	if !ok {
		return nil, entities.NewExtractionError(s.CheckType, "no canned result for "+key, nil)
	}
	return &pair, nil
}
