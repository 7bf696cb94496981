package source

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"github.com/de-tools/ledger-atlas/pkg/services/config"
	"github.com/de-tools/ledger-atlas/pkg/store/duckdb"
	"github.com/de-tools/ledger-atlas/pkg/store/ledger"
	"github.com/de-tools/ledger-atlas/pkg/store/postgres"
)

// Opener connects to the ledger described by a profile.
type Opener func(ctx context.Context, profile domain.ConfigProfile) (ledger.Store, func() error, error)

// Open connects to the profile's ledger and binds a store to its table.
func Open(ctx context.Context, profile domain.ConfigProfile) (ledger.Store, func() error, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch profile.Driver {
	case domain.ProfileDriverDuckDB:
		db, err = duckdb.NewDB(duckdb.Settings{DbPath: profile.DSN, Table: profile.Table})
	default:
		db, err = postgres.NewDB(ctx, postgres.Settings{DSN: profile.DSN, MaxOpenConns: 4, MaxIdleConns: 2})
	}
	if err != nil {
		return nil, nil, fmt.Errorf("profile %s: %w", profile.Name, err)
	}

	store, err := ledger.NewStore(db, profile.Table)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}

// Resolver turns a reference into a Source. A reference is either a file path
// or "<profile>@<range>", e.g. "prod@2024-01-01..2024-06-30".
type Resolver struct {
	profiles config.Registry
	open     Opener

	mu      sync.Mutex
	stores  map[string]ledger.Store
	closers []func() error
}

// NewResolver accepts a nil registry when only files are used.
func NewResolver(profiles config.Registry, open Opener) *Resolver {
	if open == nil {
		open = Open
	}
	return &Resolver{
		profiles: profiles,
		open:     open,
		stores:   make(map[string]ledger.Store),
	}
}

func (r *Resolver) Resolve(ctx context.Context, ref string) (Source, error) {
	name, span, ok := strings.Cut(ref, "@")
	if !ok {
		return NewFileSource(ref), nil
	}

	period, err := ParseRange(span)
	if err != nil {
		return nil, err
	}
	store, err := r.Store(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewStoreSource(store, name, period), nil
}

// Store returns the ledger of a profile, connecting on first use.
func (r *Resolver) Store(ctx context.Context, name string) (ledger.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.stores[name]; ok {
		return s, nil
	}
	if r.profiles == nil {
		return nil, fmt.Errorf("no profiles configured, cannot resolve %q", name)
	}

	profile, err := r.profiles.GetProfile(ctx, name)
	if err != nil {
		return nil, err
	}
	s, closeFn, err := r.open(ctx, profile)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("profile", profile.String()).Str("table", profile.Table).Msg("ledger connected")
	r.stores[name] = s
	if closeFn != nil {
		r.closers = append(r.closers, closeFn)
	}
	return s, nil
}

// Close releases every connection opened by the resolver.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for _, c := range r.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r.closers = nil
	r.stores = make(map[string]ledger.Store)
	return firstErr
}
