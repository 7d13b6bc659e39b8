// Package file provides a FeatureRepository backed by a document on disk.
//
// The format is chosen by extension: .toml, .yaml/.yml or .json.
// A document carries a required name, an optional description and an
// optional id:
//
//	name = "Feature Name"
//	description = "Loaded from disk"
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/tmarch/internal/core/domain"
	"github.com/custodia-labs/tmarch/internal/core/ports/driven"
)

// Format identifies a document encoding.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Ensure Repository implements the interface.
var _ driven.FeatureRepository = (*Repository)(nil)

// document is the on-disk shape of a feature.
type document struct {
	ID          string  `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name" toml:"name" yaml:"name"`
	Description *string `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
}

// Repository decodes the feature document at path on every fetch.
type Repository struct {
	path   string
	format Format
}

// FormatForPath returns the format implied by the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: feature file %q", domain.ErrUnsupportedType, path)
	}
}

// NewRepository creates a repository for the document at path.
// The file need not exist yet; a missing file is reported on fetch.
func NewRepository(path string) (*Repository, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &Repository{
		path:   filepath.Clean(path),
		format: format,
	}, nil
}

// Path returns the document path.
func (r *Repository) Path() string {
	return r.path
}

// GetFeature reads and decodes the document.
func (r *Repository) GetFeature(ctx context.Context) (*domain.FeatureEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewFeatureError(domain.ErrNotFound, r.path, nil)
		}
		return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, r.path, err)
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, domain.NewFeatureError(domain.ErrSourceUnavailable, r.path, err)
	}

	doc, err := r.decode(data)
	if err != nil {
		return nil, domain.NewFeatureError(domain.ErrDecodeFailure, r.path, err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return nil, domain.NewFeatureError(domain.ErrDecodeFailure, r.path, errors.New("name is required"))
	}

	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}
	return domain.NewFeatureEntity(id, doc.Name, doc.Description, info.ModTime().UTC()), nil
}

func (r *Repository) decode(data []byte) (document, error) {
	var doc document
	var err error
	switch r.format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = fmt.Errorf("unknown format %q", r.format)
	}
	return doc, err
}

// Write encodes entity to path in the format implied by its extension,
// creating parent directories as needed.
func Write(path string, entity *domain.FeatureEntity) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	doc := document{ID: entity.ID, Name: entity.Name, Description: entity.Description}
	var data []byte
	switch format {
	case FormatTOML:
		data, err = toml.Marshal(doc)
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encoding feature: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating feature directory: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
