// Package exchange exports and imports the full dataset.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/fasttype/internal/model"
)

// Format is an export encoding.
type Format string

// Supported formats. Only JSON can be imported back.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Source provides the dataset to export.
type Source interface {
	Export(ctx context.Context) (model.Archive, error)
}

// Target replaces all stored data with an imported dataset.
type Target interface {
	Replace(ctx context.Context, archive model.Archive) error
}

// ParseFormat validates a format name.
func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected json, yaml or xlsx)", value)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatJSON
	}
	return f
}

// Export writes the dataset from src to w in the given format.
func Export(ctx context.Context, src Source, w io.Writer, format Format) error {
	archive, err := src.Export(ctx)
	if err != nil {
		return fmt.Errorf("failed to read data: %w", err)
	}
	return Encode(w, archive, format)
}

// Encode writes archive to w in the given format.
func Encode(w io.Writer, archive model.Archive, format Format) error {
	archive = normalize(archive)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(archive)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(archive); err != nil {
			return err
		}
		return enc.Close()
	case FormatXLSX:
		return writeWorkbook(w, archive)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// Decode reads a JSON archive and validates it.
func Decode(r io.Reader) (model.Archive, error) {
	var archive model.Archive
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&archive); err != nil {
		return model.Archive{}, fmt.Errorf("failed to decode archive: %w", err)
	}
	if err := Validate(archive); err != nil {
		return model.Archive{}, err
	}
	return normalize(archive), nil
}

// Import decodes a JSON archive from r and replaces all data in dst.
func Import(ctx context.Context, dst Target, r io.Reader) (model.Archive, error) {
	archive, err := Decode(r)
	if err != nil {
		return model.Archive{}, err
	}
	if err := dst.Replace(ctx, archive); err != nil {
		return model.Archive{}, fmt.Errorf("failed to replace data: %w", err)
	}
	return archive, nil
}

// Validate rejects archives that could not have been produced by Export.
func Validate(archive model.Archive) error {
	seen := map[string]bool{}
	for i, p := range archive.Profiles {
		if p.ID == "" {
			return fmt.Errorf("profile %d: missing id", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("profile %d: duplicate id %q", i, p.ID)
		}
		seen[p.ID] = true
		if p.Level < 1 || p.Level > model.MaxLevel {
			return fmt.Errorf("profile %q: level %d out of range", p.ID, p.Level)
		}
	}
	for i, s := range archive.Sessions {
		if s.Language == "" {
			return fmt.Errorf("session %d: missing language", i)
		}
		if s.Accuracy < 0 || s.Accuracy > 100 {
			return fmt.Errorf("session %d: accuracy %d out of range", i, s.Accuracy)
		}
		switch s.Mode {
		case model.ModeGuided, model.ModeCustom, model.ModeAssessment:
		default:
			return fmt.Errorf("session %d: unknown mode %q", i, s.Mode)
		}
	}
	for i, list := range archive.WordLists {
		if list.Language == "" {
			return fmt.Errorf("word list %d: missing language", i)
		}
	}
	return nil
}

// normalize replaces nil slices so encoders emit empty lists.
func normalize(archive model.Archive) model.Archive {
	if archive.Profiles == nil {
		archive.Profiles = []model.Profile{}
	}
	if archive.Sessions == nil {
		archive.Sessions = []model.SessionRecord{}
	}
	if archive.WordLists == nil {
		archive.WordLists = []model.WordList{}
	}
	return archive
}
