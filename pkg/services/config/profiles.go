package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/ledger-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

const (
	DefaultProfilesFile = ".ledgercfg"
	DefaultTable        = "bookings"
)

type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (domain.ConfigProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// DefaultPath is $HOME/.ledgercfg.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultProfilesFile), nil
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles from %s: %w", path, err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, name string) (domain.ConfigProfile, error) {
	section, err := cr.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return domain.ConfigProfile{}, fmt.Errorf("profile %s not found", name)
	}

	profile := domain.ConfigProfile{
		Name:   name,
		Driver: domain.ProfileDriver(section.Key("driver").MustString(string(domain.ProfileDriverPostgres))),
		DSN:    section.Key("dsn").String(),
		Table:  section.Key("table").MustString(DefaultTable),
	}
	if profile.DSN == "" {
		return domain.ConfigProfile{}, fmt.Errorf("profile %s has no dsn", name)
	}
	switch profile.Driver {
	case domain.ProfileDriverPostgres, domain.ProfileDriverDuckDB:
	default:
		return domain.ConfigProfile{}, fmt.Errorf("profile %s: unsupported driver %q", name, profile.Driver)
	}
	return profile, nil
}
