// Package source loads bookings from files or from a SQL ledger.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/de-tools/ledger-atlas/pkg/adapters"
	"github.com/de-tools/ledger-atlas/pkg/models/api"
	"github.com/de-tools/ledger-atlas/pkg/models/domain"
)

// Source yields the bookings of one period.
type Source interface {
	Bookings(ctx context.Context) ([]domain.Booking, error)
	Describe() string
}

type fileSource struct {
	path string
}

// NewFileSource reads a .json, .yaml or .yml file holding either a list of
// bookings or an object with a "bookings" list.
func NewFileSource(path string) Source {
	return &fileSource{path: path}
}

func (f *fileSource) Describe() string { return f.path }

func (f *fileSource) Bookings(_ context.Context) ([]domain.Booking, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookings file: %w", err)
	}

	var records []api.Booking
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".json":
		records, err = decodeJSON(data)
	case ".yaml", ".yml":
		records, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported bookings file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}

	bookings, err := adapters.MapApiBookingsToDomain(records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	return bookings, nil
}

type bookingsDocument struct {
	Bookings []api.Booking `json:"bookings" yaml:"bookings"`
}

func decodeJSON(data []byte) ([]api.Booking, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var records []api.Booking
		err := json.Unmarshal(data, &records)
		return records, err
	}
	var doc bookingsDocument
	err := json.Unmarshal(data, &doc)
	return doc.Bookings, err
}

func decodeYAML(data []byte) ([]api.Booking, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	if node.Content[0].Kind == yaml.SequenceNode {
		var records []api.Booking
		err := node.Decode(&records)
		return records, err
	}
	var doc bookingsDocument
	err := node.Decode(&doc)
	return doc.Bookings, err
}
