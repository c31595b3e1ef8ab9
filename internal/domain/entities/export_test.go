package entities

import (
	"context"

	"github.com/sethvargo/go-envconfig"
)

// ApplyEnvironment exposes applyEnvironment for testing.
func (s *Settings) ApplyEnvironment(ctx context.Context, lookuper envconfig.Lookuper) error {
	return s.applyEnvironment(ctx, lookuper)
}

// ResolveToken exposes resolveToken for testing.
var ResolveToken = resolveToken //nolint:gochecknoglobals // test export
