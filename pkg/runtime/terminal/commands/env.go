package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/ledger-atlas/pkg/services/analysis"
	profiles "github.com/de-tools/ledger-atlas/pkg/services/config"
	"github.com/de-tools/ledger-atlas/pkg/services/source"
)

// Env is filled by the root command before a subcommand runs.
type Env struct {
	Service  analysis.Service
	Profiles profiles.Registry
	Resolver *source.Resolver
	Reporter *export.Reporter
}

func (e *Env) load(ctx context.Context, ref string) ([]domain.Booking, error) {
	src, err := e.Resolver.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	bookings, err := src.Bookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings from %s: %w", src.Describe(), err)
	}
	return bookings, nil
}

func (e *Env) loadAll(ctx context.Context, refs []string) ([]domain.Booking, error) {
	var out []domain.Booking
	for _, ref := range refs {
		bookings, err := e.load(ctx, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, bookings...)
	}
	return out, nil
}
